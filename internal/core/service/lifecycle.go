package service

import (
	"context"

	"github.com/yndnr/corelink-go/internal/core/domain"
)

// Lifecycle is the contract the control routes consume.
type Lifecycle interface {
	// Start launches the given core variant. It fails with
	// domain.ErrCoreAlreadyRunning when a core is already running.
	Start(ctx context.Context, coreType domain.CoreType, configFile string) error

	// Stop terminates the running core.
	Stop(ctx context.Context) error

	// Restart stops the running core and starts it again with the same
	// parameters.
	Restart(ctx context.Context) error

	// Status returns a snapshot of the core.
	Status() domain.CoreStatus

	// Logs returns up to n of the most recent captured output lines.
	Logs(n int) []domain.LogLine
}
