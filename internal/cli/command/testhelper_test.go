//go:build unix

package command

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/core/event"
	"github.com/yndnr/corelink-go/internal/server/eventstream"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
)

// fakeCore is a service.Lifecycle with canned results.
type fakeCore struct {
	mu sync.Mutex

	startErr error
	stopErr  error

	started    []handler.StartRequest
	stopped    int
	restarted  int
	status     domain.CoreStatus
	logs       []domain.LogLine
	logsWanted int
}

func (f *fakeCore) Start(_ context.Context, coreType domain.CoreType, configFile string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.started = append(f.started, handler.StartRequest{CoreType: string(coreType), ConfigFile: configFile})
	return f.startErr
}

func (f *fakeCore) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped++
	return f.stopErr
}

func (f *fakeCore) Restart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarted++
	return nil
}

func (f *fakeCore) Status() domain.CoreStatus {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

func (f *fakeCore) Logs(n int) []domain.LogLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logsWanted = n
	return f.logs
}

// set mutates the canned results under the lock.
func (f *fakeCore) set(fn func(f *fakeCore)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fn(f)
}

// snapshot copies the recorded calls under the lock.
func (f *fakeCore) snapshot() fakeCore {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fakeCore{
		started:    append([]handler.StartRequest(nil), f.started...),
		stopped:    f.stopped,
		restarted:  f.restarted,
		logsWanted: f.logsWanted,
	}
}

// testService serves the real control routes over a unix socket.
type testService struct {
	core       *fakeCore
	bus        *event.Bus
	endpoint   string
	configFile string
}

func newTestService(t *testing.T) *testService {
	t.Helper()

	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := &testService{
		core: &fakeCore{status: domain.CoreStatus{State: domain.CoreStateStopped}},
		bus:  event.NewBus(),
	}

	stream := eventstream.NewHandler(eventstream.Config{Bus: ts.bus, Logger: quiet})
	h := handler.New(handler.Config{Core: ts.core, Logger: quiet})
	h.Handle("GET /ws", stream)

	dir := t.TempDir()
	ts.endpoint = filepath.Join(dir, "cl.sock")
	ts.configFile = filepath.Join(dir, "cli.yaml")
	ln, err := net.Listen("unix", ts.endpoint)
	require.NoError(t, err)

	srv := &http.Server{Handler: h, ReadHeaderTimeout: time.Second}
	go func() { _ = srv.Serve(ln) }()
	t.Cleanup(func() {
		_ = stream.CloseAll(context.Background())
		_ = srv.Close()
	})
	return ts
}

// run executes the CLI against ts and captures both output streams.
func (ts *testService) run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	app := App()
	app.Writer = &out
	app.ErrWriter = &errOut

	full := []string{"corelink-cli", "--config", ts.configFile}
	if ts.endpoint != "" {
		full = append(full, "--endpoint", ts.endpoint)
	}
	full = append(full, "--timeout", "5s")
	full = append(full, args...)
	err = app.Run(full)
	return out.String(), errOut.String(), err
}
