package service

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/core/event"
)

// Default manager settings.
const (
	DefaultStopTimeout     = 10 * time.Second
	DefaultLogLines        = 1000
	DefaultOutputWaitDelay = 2 * time.Second
)

// CommandFunc builds the command used to launch a core. It matches the
// signature of exec.Command.
type CommandFunc func(name string, args ...string) *exec.Cmd

// CoreManagerConfig configures a CoreManager.
type CoreManagerConfig struct {
	// BinaryDir is searched for <core type> executables when Binaries has
	// no entry. Empty means PATH lookup.
	BinaryDir string

	// Binaries maps a core type to an explicit executable path.
	Binaries map[domain.CoreType]string

	// WorkDir is passed to the core as its home directory. Empty uses the
	// directory of the configuration file.
	WorkDir string

	// StopTimeout bounds the wait between interrupt and kill.
	StopTimeout time.Duration

	// LogLines is the capacity of the captured output ring.
	LogLines int

	// OutputWaitDelay bounds how long output is drained after the core
	// exits. Children that inherited its stdout cannot hold the reap open
	// past it.
	OutputWaitDelay time.Duration

	// Bus receives state, log and exit events. May be nil.
	Bus *event.Bus

	// Logger for manager diagnostics.
	Logger *slog.Logger

	// Command overrides process construction (tests).
	Command CommandFunc
}

// process is one launched core.
type process struct {
	cmd      *exec.Cmd
	coreType domain.CoreType
	stdout   *io.PipeWriter
	stderr   *io.PipeWriter
	done     chan struct{}
}

// CoreManager starts and stops the managed core process.
type CoreManager struct {
	cfg    CoreManagerConfig
	bus    *event.Bus
	logger *slog.Logger
	logs   *logRing

	// ops serializes Start/Stop/Restart; a channel so acquisition can
	// observe ctx.
	ops chan struct{}

	mu       sync.Mutex
	status   domain.CoreStatus
	proc     *process
	stopping bool
}

// Compile-time check.
var _ Lifecycle = (*CoreManager)(nil)

// NewCoreManager creates a manager with no running core.
func NewCoreManager(cfg CoreManagerConfig) *CoreManager {
	if cfg.StopTimeout <= 0 {
		cfg.StopTimeout = DefaultStopTimeout
	}
	if cfg.LogLines <= 0 {
		cfg.LogLines = DefaultLogLines
	}
	if cfg.OutputWaitDelay <= 0 {
		cfg.OutputWaitDelay = DefaultOutputWaitDelay
	}
	if cfg.Command == nil {
		cfg.Command = exec.Command
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &CoreManager{
		cfg:    cfg,
		bus:    cfg.Bus,
		logger: cfg.Logger.With("component", "core"),
		logs:   newLogRing(cfg.LogLines),
		ops:    make(chan struct{}, 1),
		status: domain.CoreStatus{State: domain.CoreStateStopped},
	}
}

// Start launches the given core variant with configFile.
func (m *CoreManager) Start(ctx context.Context, coreType domain.CoreType, configFile string) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	return m.start(coreType, configFile)
}

// Stop terminates the running core, escalating to kill after StopTimeout.
func (m *CoreManager) Stop(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	return m.stop(ctx)
}

// Restart stops the running core and starts it with the same parameters.
func (m *CoreManager) Restart(ctx context.Context) error {
	if err := m.acquire(ctx); err != nil {
		return err
	}
	defer m.release()

	m.mu.Lock()
	coreType, configFile := m.status.CoreType, m.status.ConfigFile
	running := m.proc != nil
	m.mu.Unlock()

	if !running {
		return domain.ErrCoreNotRunning
	}

	if err := m.stop(ctx); err != nil {
		return err
	}
	if err := m.start(coreType, configFile); err != nil {
		return err
	}

	m.mu.Lock()
	m.status.Restarts++
	m.mu.Unlock()
	return nil
}

// Status returns a snapshot of the core.
func (m *CoreManager) Status() domain.CoreStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// Logs returns up to n of the most recent output lines.
func (m *CoreManager) Logs(n int) []domain.LogLine {
	return m.logs.tail(n)
}

// Close stops the core if one is running. Used on service shutdown.
func (m *CoreManager) Close(ctx context.Context) error {
	err := m.Stop(ctx)
	if errors.Is(err, domain.ErrCoreNotRunning) {
		return nil
	}
	return err
}

func (m *CoreManager) acquire(ctx context.Context) error {
	select {
	case m.ops <- struct{}{}:
		return nil
	case <-ctx.Done():
		return domain.ErrCoreBusy.WithCause(ctx.Err())
	}
}

func (m *CoreManager) release() {
	<-m.ops
}

func (m *CoreManager) start(coreType domain.CoreType, configFile string) error {
	m.mu.Lock()
	running := m.proc != nil
	m.mu.Unlock()
	if running {
		return domain.ErrCoreAlreadyRunning
	}

	t, err := domain.ParseCoreType(string(coreType))
	if err != nil {
		return err
	}

	binary, err := m.resolveBinary(t)
	if err != nil {
		return err
	}

	if _, err := os.Stat(configFile); err != nil {
		return domain.ErrConfigFileNotFound.WithDetails(configFile).WithCause(err)
	}

	workDir := m.cfg.WorkDir
	if workDir == "" {
		workDir = filepath.Dir(configFile)
	}

	cmd := m.cfg.Command(binary, t.Args(workDir, configFile)...)
	cmd.Dir = workDir
	cmd.WaitDelay = m.cfg.OutputWaitDelay

	stdout, stdoutW := io.Pipe()
	stderr, stderrW := io.Pipe()
	cmd.Stdout = stdoutW
	cmd.Stderr = stderrW

	m.setState(domain.CoreStateStarting, func(s *domain.CoreStatus) {
		s.CoreType = t
		s.ConfigFile = configFile
		s.LastError = ""
	})

	if err := cmd.Start(); err != nil {
		_ = stdoutW.Close()
		_ = stderrW.Close()
		m.setState(domain.CoreStateStopped, func(s *domain.CoreStatus) {
			s.LastError = err.Error()
		})
		return domain.ErrCoreSpawnFailed.WithCause(err)
	}

	p := &process{
		cmd:      cmd,
		coreType: t,
		stdout:   stdoutW,
		stderr:   stderrW,
		done:     make(chan struct{}),
	}

	var pumps sync.WaitGroup
	pumps.Add(2)
	go m.pump(&pumps, stdout, "stdout")
	go m.pump(&pumps, stderr, "stderr")

	m.mu.Lock()
	m.proc = p
	m.mu.Unlock()

	m.setState(domain.CoreStateRunning, func(s *domain.CoreStatus) {
		s.PID = cmd.Process.Pid
		s.StartedAt = time.Now()
	})

	m.logger.Info("core started",
		"core_type", t,
		"pid", cmd.Process.Pid,
		"config", configFile)

	go m.wait(p, &pumps)
	return nil
}

func (m *CoreManager) stop(ctx context.Context) error {
	m.mu.Lock()
	p := m.proc
	if p != nil {
		m.stopping = true
	}
	m.mu.Unlock()

	if p == nil {
		return domain.ErrCoreNotRunning
	}
	defer func() {
		m.mu.Lock()
		m.stopping = false
		m.mu.Unlock()
	}()

	m.setState(domain.CoreStateStopping, nil)

	if err := interrupt(p.cmd.Process); err != nil {
		m.logger.Debug("interrupt failed, killing core", "error", err)
		_ = p.cmd.Process.Kill()
	}

	timer := time.NewTimer(m.cfg.StopTimeout)
	defer timer.Stop()

	select {
	case <-p.done:
		return nil
	case <-timer.C:
		m.logger.Warn("core did not exit in time, killing", "timeout", m.cfg.StopTimeout)
	case <-ctx.Done():
		m.logger.Warn("stop cancelled, killing core", "error", ctx.Err())
	}

	if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return domain.ErrCoreStopFailed.WithCause(err)
	}
	<-p.done
	return nil
}

// wait reaps the process, then lets the output pumps drain. Wait returns
// at most OutputWaitDelay after exit even if a child still holds the output.
func (m *CoreManager) wait(p *process, pumps *sync.WaitGroup) {
	err := p.cmd.Wait()
	if errors.Is(err, exec.ErrWaitDelay) {
		m.logger.Debug("core output held open after exit", "core_type", p.coreType)
		err = nil
	}
	_ = p.stdout.Close()
	_ = p.stderr.Close()
	pumps.Wait()

	exitCode := p.cmd.ProcessState.ExitCode()

	m.mu.Lock()
	expected := m.stopping
	if m.proc == p {
		m.proc = nil
	}
	m.mu.Unlock()

	lastError := ""
	if err != nil && !expected {
		lastError = err.Error()
	}

	m.setState(domain.CoreStateStopped, func(s *domain.CoreStatus) {
		s.PID = 0
		s.StartedAt = time.Time{}
		s.LastError = lastError
	})

	if expected {
		m.logger.Info("core stopped", "core_type", p.coreType, "exit_code", exitCode)
	} else {
		m.logger.Warn("core exited unexpectedly", "core_type", p.coreType, "exit_code", exitCode, "error", err)
	}

	m.emit(event.TypeCoreExit, map[string]any{
		"core_type": p.coreType,
		"exit_code": exitCode,
		"expected":  expected,
		"error":     lastError,
	})

	close(p.done)
}

// pump copies one output stream into the log ring and the event bus.
func (m *CoreManager) pump(wg *sync.WaitGroup, r io.Reader, stream string) {
	defer wg.Done()

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := domain.LogLine{
			Time:   time.Now(),
			Stream: stream,
			Line:   scanner.Text(),
		}
		m.logs.add(line)
		m.emit(event.TypeCoreLog, line)
	}
	if err := scanner.Err(); err != nil {
		m.logger.Debug("core output stream ended", "stream", stream, "error", err)
	}
}

func (m *CoreManager) resolveBinary(t domain.CoreType) (string, error) {
	if path, ok := m.cfg.Binaries[t]; ok && path != "" {
		if _, err := os.Stat(path); err != nil {
			return "", domain.ErrCoreBinaryNotFound.WithDetails(path).WithCause(err)
		}
		return path, nil
	}

	if m.cfg.BinaryDir != "" {
		path := filepath.Join(m.cfg.BinaryDir, t.ExecutableName())
		if _, err := os.Stat(path); err != nil {
			return "", domain.ErrCoreBinaryNotFound.WithDetails(path).WithCause(err)
		}
		return path, nil
	}

	path, err := exec.LookPath(t.ExecutableName())
	if err != nil {
		return "", domain.ErrCoreBinaryNotFound.WithDetails(t.ExecutableName()).WithCause(err)
	}
	return path, nil
}

// setState applies mutate under the lock, then publishes the new status.
func (m *CoreManager) setState(state domain.CoreState, mutate func(*domain.CoreStatus)) {
	m.mu.Lock()
	m.status.State = state
	if mutate != nil {
		mutate(&m.status)
	}
	snapshot := m.status
	m.mu.Unlock()

	m.emit(event.TypeCoreState, snapshot)
}

func (m *CoreManager) emit(typ string, payload any) {
	if m.bus == nil {
		return
	}
	m.bus.Emit(typ, payload)
}

// interrupt asks the process to exit. Windows has no SIGTERM delivery for
// console-less children, so it is killed directly.
func interrupt(p *os.Process) error {
	if runtime.GOOS == "windows" {
		return p.Kill()
	}
	if err := p.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal core: %w", err)
	}
	return nil
}
