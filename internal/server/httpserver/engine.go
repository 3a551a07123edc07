package httpserver

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"time"
)

// Default engine timeouts.
const (
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
)

// EngineConfig configures an Engine.
type EngineConfig struct {
	// Handler serves every request.
	Handler http.Handler

	// ConnContext derives the per-connection context.
	ConnContext func(ctx context.Context, c net.Conn) context.Context

	// ConnState observes connection state changes.
	ConnState func(c net.Conn, state http.ConnState)

	// ErrorLog receives protocol errors net/http cannot attribute to a
	// handler.
	ErrorLog *log.Logger

	ReadHeaderTimeout time.Duration
	IdleTimeout       time.Duration
}

// Engine drives HTTP/1.1 request/response cycles, including protocol
// upgrades, on connections from an arbitrary listener.
type Engine struct {
	httpServer *http.Server
}

// NewEngine creates an engine.
func NewEngine(cfg EngineConfig) *Engine {
	if cfg.ReadHeaderTimeout <= 0 {
		cfg.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = DefaultIdleTimeout
	}

	return &Engine{
		httpServer: &http.Server{
			Handler:           cfg.Handler,
			ConnContext:       cfg.ConnContext,
			ConnState:         cfg.ConnState,
			ErrorLog:          cfg.ErrorLog,
			ReadHeaderTimeout: cfg.ReadHeaderTimeout,
			IdleTimeout:       cfg.IdleTimeout,
		},
	}
}

// Serve accepts connections until the listener fails or the engine is shut
// down. A clean shutdown returns nil.
func (e *Engine) Serve(ln net.Listener) error {
	err := e.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting and waits for active requests, bounded by ctx.
// Hijacked connections are not tracked.
func (e *Engine) Shutdown(ctx context.Context) error {
	return e.httpServer.Shutdown(ctx)
}

// Close closes the listener and every tracked connection immediately.
func (e *Engine) Close() error {
	return e.httpServer.Close()
}
