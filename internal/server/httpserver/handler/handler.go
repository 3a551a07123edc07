package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/core/service"
	"github.com/yndnr/corelink-go/internal/telemetry/logger"
	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

// Config configures a Handler.
type Config struct {
	// Core is the lifecycle client the core routes drive. Required.
	Core service.Lifecycle

	Logger *slog.Logger

	// Metrics records core operations. May be nil.
	Metrics *metric.Registry

	// Connections reports open local connections for /status. May be nil.
	Connections func() int64

	// Sessions reports open event stream sessions for /status. May be nil.
	Sessions func() int

	// StartedAt is the service start time. Zero means handler creation.
	StartedAt time.Time
}

// Handler routes control requests. Routes are registered once in New and the
// mux is never modified while serving.
type Handler struct {
	core        service.Lifecycle
	logger      *slog.Logger
	metrics     *metric.Registry
	connections func() int64
	sessions    func() int
	startedAt   time.Time
	mux         *http.ServeMux
}

// New creates a Handler with every control route registered.
func New(cfg Config) *Handler {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.StartedAt.IsZero() {
		cfg.StartedAt = time.Now()
	}

	h := &Handler{
		core:        cfg.Core,
		logger:      cfg.Logger,
		metrics:     cfg.Metrics,
		connections: cfg.Connections,
		sessions:    cfg.Sessions,
		startedAt:   cfg.StartedAt,
		mux:         http.NewServeMux(),
	}

	h.registerRoutes()
	return h
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// Handle registers an extra route. It must be called before serving.
func (h *Handler) Handle(pattern string, handler http.Handler) {
	h.mux.Handle(pattern, handler)
}

func (h *Handler) registerRoutes() {
	h.mux.HandleFunc("GET /health", h.handleHealth)
	h.mux.HandleFunc("GET /status", h.handleStatus)
	h.mux.HandleFunc("GET /version", h.handleVersion)

	h.mux.HandleFunc("POST /core/start", h.handleStart)
	h.mux.HandleFunc("POST /core/stop", h.handleStop)
	h.mux.HandleFunc("POST /core/restart", h.handleRestart)
	h.mux.HandleFunc("GET /core/logs", h.handleLogs)
}

// writeJSON writes a success envelope.
func (h *Handler) writeJSON(w http.ResponseWriter, r *http.Request, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(Success(data)); err != nil {
		logger.L(r.Context()).Error("failed to encode response", "error", err)
	}
}

// writeError writes an error envelope whose message is err's text.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	code := domain.GetErrorCode(err)
	if code == "" {
		code = domain.ErrInternal.Code
	}
	if status >= http.StatusInternalServerError {
		logger.L(r.Context()).Warn("request failed", "code", code, "error", err)
	}
	WriteError(w, status, code, err.Error())
}

// WriteError writes an error envelope. It is shared with the middleware.
func WriteError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	if code != "" {
		w.Header().Set("X-Error-Code", code)
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Failure(message))
}

// StatusForCode maps an error code to an HTTP status by its numeric suffix.
func StatusForCode(code string) int {
	switch {
	case strings.HasSuffix(code, "-4000"), strings.HasSuffix(code, "-4001"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "-4040"), strings.HasSuffix(code, "-4041"):
		return http.StatusNotFound
	case strings.HasSuffix(code, "-4090"), strings.HasSuffix(code, "-4091"), strings.HasSuffix(code, "-4092"):
		return http.StatusConflict
	case strings.HasSuffix(code, "-4290"):
		return http.StatusTooManyRequests
	case strings.HasPrefix(code, "CL-ARG-"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
