package httpserver

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/yndnr/corelink-go/internal/core/service"
	"github.com/yndnr/corelink-go/internal/server/httpserver/handler"
	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

// RouterConfig holds configuration for the control API router.
type RouterConfig struct {
	// Core is the lifecycle client behind the /core routes.
	Core service.Lifecycle

	// Logger for request logging.
	Logger *slog.Logger

	// Metrics backs the Metrics middleware and GET /metrics. May be nil.
	Metrics *metric.Registry

	// MetricsEnabled exposes GET /metrics.
	MetricsEnabled bool

	// RateLimit is the per-connection request rate. Zero disables it.
	RateLimit float64

	// RateBurst is the per-connection burst size.
	RateBurst int

	// EnableAudit enables audit logging for all requests.
	EnableAudit bool

	// Connections and Sessions feed GET /status. May be nil.
	Connections func() int64
	Sessions    func() int

	// StartedAt is the service start time reported by GET /status.
	StartedAt time.Time
}

// DefaultRouterConfig returns default router configuration.
func DefaultRouterConfig() *RouterConfig {
	return &RouterConfig{
		MetricsEnabled: true,
		RateLimit:      50,
		RateBurst:      100,
		EnableAudit:    true,
	}
}

// NewRouter creates the control API router with all routes and middleware.
// The returned handler is immutable and shared by every connection.
func NewRouter(cfg *RouterConfig) http.Handler {
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}

	h := handler.New(handler.Config{
		Core:        cfg.Core,
		Logger:      log,
		Metrics:     cfg.Metrics,
		Connections: cfg.Connections,
		Sessions:    cfg.Sessions,
		StartedAt:   cfg.StartedAt,
	})
	if cfg.MetricsEnabled {
		h.Handle("GET /metrics", cfg.Metrics.Handler())
	}

	// Order: Recover -> RequestID -> RateLimit -> Audit -> Metrics -> Handler
	middlewares := []Middleware{Recover(log), RequestID()}
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = 1
		}
		middlewares = append(middlewares, RateLimit(cfg.RateLimit, burst))
	}
	if cfg.EnableAudit {
		middlewares = append(middlewares, Audit(log))
	}
	middlewares = append(middlewares, Metrics(cfg.Metrics))

	return Chain(h, middlewares...)
}
