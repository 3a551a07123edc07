package shutdown

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"
)

// Hook is a cleanup step run during shutdown. The context carries the
// shutdown deadline.
type Hook func(context.Context) error

// Handler coordinates graceful shutdown.
type Handler struct {
	timeout time.Duration
	signals []os.Signal

	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	hooks []Hook
	cause error

	done chan struct{}
}

// Option configures a Handler.
type Option func(*Handler)

// WithSignals replaces the default SIGINT/SIGTERM set.
func WithSignals(sig ...os.Signal) Option {
	return func(h *Handler) {
		h.signals = sig
	}
}

// NewHandler creates a handler whose hooks share one timeout.
func NewHandler(timeout time.Duration, opts ...Option) *Handler {
	ctx, cancel := context.WithCancel(context.Background())
	h := &Handler{
		timeout: timeout,
		signals: []os.Signal{os.Interrupt, syscall.SIGTERM},
		ctx:     ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Context is cancelled as soon as shutdown begins.
func (h *Handler) Context() context.Context {
	return h.ctx
}

// OnShutdown registers a hook. Hooks run in reverse registration order.
func (h *Handler) OnShutdown(hook Hook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.hooks = append(h.hooks, hook)
}

// Trigger starts shutdown without a signal, e.g. after a fatal server error.
// Only the first cause is kept.
func (h *Handler) Trigger(cause error) {
	h.mu.Lock()
	if h.cause == nil {
		h.cause = cause
	}
	h.mu.Unlock()
	h.cancel()
}

// Cause returns the error passed to the first Trigger call.
func (h *Handler) Cause() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.cause
}

// Wait blocks until a signal arrives or Trigger is called, then runs every
// hook and returns their joined errors.
func (h *Handler) Wait() error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, h.signals...)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		h.cancel()
	case <-h.ctx.Done():
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.timeout)
	defer cancel()

	h.mu.Lock()
	hooks := make([]Hook, len(h.hooks))
	copy(hooks, h.hooks)
	h.mu.Unlock()

	var errs []error
	for i := len(hooks) - 1; i >= 0; i-- {
		if err := hooks[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}

	close(h.done)
	return errors.Join(errs...)
}

// Done closes once every hook has returned.
func (h *Handler) Done() <-chan struct{} {
	return h.done
}
