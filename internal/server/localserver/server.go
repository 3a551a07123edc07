package localserver

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/yndnr/corelink-go/internal/server/httpserver"
	"github.com/yndnr/corelink-go/internal/telemetry/logger"
	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

// State is the server lifecycle state.
type State int32

// Server states.
const (
	StateIdle State = iota
	StateListening
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// DefaultShutdownTimeout bounds connection draining.
const DefaultShutdownTimeout = 10 * time.Second

// StreamHandler serves the reserved path and can close its long-lived
// sessions on shutdown.
type StreamHandler interface {
	http.Handler
	CloseAll(ctx context.Context) error
}

// Config configures a Server.
type Config struct {
	Endpoint Endpoint

	// API serves every path except ReservedPath.
	API http.Handler

	// Stream serves ReservedPath.
	Stream StreamHandler

	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration

	// Metrics may be nil.
	Metrics *metric.Registry

	Logger *slog.Logger
}

// Server is the local control-plane server.
type Server struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metric.Registry
	factory *Factory

	state  atomic.Int32
	active atomic.Int64
	ready  chan struct{}

	mu     sync.Mutex
	engine *httpserver.Engine
	ln     net.Listener

	shutdownOnce sync.Once
	shutdownErr  error
}

// New creates a server in the Idle state.
func New(cfg Config) *Server {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	log := cfg.Logger.With("component", "localserver")

	return &Server{
		cfg:     cfg,
		logger:  log,
		metrics: cfg.Metrics,
		factory: NewFactory(cfg.API, cfg.Stream, cfg.Logger),
		ready:   make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (s *Server) State() State {
	return State(s.state.Load())
}

// Endpoint returns the configured endpoint.
func (s *Server) Endpoint() Endpoint {
	return s.cfg.Endpoint
}

// Ready is closed once the endpoint accepts connections.
func (s *Server) Ready() <-chan struct{} {
	return s.ready
}

// ActiveConnections returns the number of open, non-upgraded connections.
func (s *Server) ActiveConnections() int64 {
	return s.active.Load()
}

// ListenAndServe provisions the endpoint and serves until ctx is cancelled
// or accepting fails. Provisioning failures are *TransportError, accept
// failures *AcceptError. Cancellation drains connections for at most
// ShutdownTimeout and then returns nil.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if !s.state.CompareAndSwap(int32(StateIdle), int32(StateListening)) {
		return ErrServerStarted
	}

	raw, err := provision(s.cfg.Endpoint, newAccessControl(s.logger), bind, s.logger)
	if err != nil {
		s.state.Store(int32(StateStopped))
		return err
	}

	ln := &acceptor{Listener: raw, metrics: s.metrics, onError: s.connectionFailed}
	engine := httpserver.NewEngine(httpserver.EngineConfig{
		Handler:           http.HandlerFunc(dispatch),
		ConnContext:       s.connContext,
		ConnState:         s.connState,
		ErrorLog:          slog.NewLogLogger(s.logger.With("error_kind", "connection").Handler(), slog.LevelWarn),
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	})

	s.mu.Lock()
	s.ln = ln
	s.engine = engine
	s.mu.Unlock()

	s.logger.Info("local server listening", "path", s.cfg.Endpoint.Path)
	close(s.ready)

	serveErr := make(chan error, 1)
	go func() { serveErr <- engine.Serve(ln) }()

	select {
	case err := <-serveErr:
		// Accepting stopped on its own: not restarted.
		s.stop()
		if err != nil {
			s.logger.Error("accept loop failed", "error", err)
		}
		return err

	case <-ctx.Done():
		sctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		err := s.Shutdown(sctx)
		<-serveErr
		return err
	}
}

// Shutdown stops accepting, closes event streams and drains in-flight
// requests until ctx expires, after which remaining connections are closed.
// It is safe to call more than once.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	engine := s.engine
	s.mu.Unlock()
	if engine == nil {
		s.state.Store(int32(StateStopped))
		return nil
	}

	s.shutdownOnce.Do(func() {
		s.logger.Info("local server shutting down")

		var errs []error
		if s.cfg.Stream != nil {
			if err := s.cfg.Stream.CloseAll(ctx); err != nil {
				errs = append(errs, err)
			}
		}
		if err := engine.Shutdown(ctx); err != nil {
			s.logger.Warn("drain timed out, closing connections", "error", err)
			_ = engine.Close()
			errs = append(errs, err)
		}
		s.stop()
		s.shutdownErr = errors.Join(errs...)
	})
	return s.shutdownErr
}

func (s *Server) stop() {
	if s.state.Swap(int32(StateStopped)) != int32(StateStopped) {
		s.logger.Info("local server stopped")
	}
}

// connContext runs the Factory for each accepted connection.
func (s *Server) connContext(ctx context.Context, c net.Conn) context.Context {
	id := connID(c)
	svc := s.factory.New(id, c.RemoteAddr())

	ctx = withService(ctx, svc)
	return logger.WithConnLogger(ctx, id, svc.Logger)
}

func (s *Server) connState(c net.Conn, state http.ConnState) {
	switch state {
	case http.StateNew:
		s.active.Add(1)
		s.metrics.ConnOpened()
	case http.StateHijacked, http.StateClosed:
		s.active.Add(-1)
		s.metrics.ConnClosed()
	}
}

func (s *Server) connectionFailed(err *ConnectionError) {
	s.metrics.ConnError(err.Op)
	s.logger.Warn("connection failed", "conn_id", err.ConnID, "op", err.Op, "error", err.Err)
}
