package eventstream

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/oklog/ulid/v2"

	"github.com/yndnr/corelink-go/internal/core/event"
	"github.com/yndnr/corelink-go/internal/telemetry/logger"
	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

// Default session settings.
const (
	DefaultPingInterval = 30 * time.Second
	DefaultWriteTimeout = 10 * time.Second
)

// Observer is notified of every session state transition. It runs on the
// session goroutine and must not close the session synchronously.
type Observer func(s *Session, state State)

// Config configures a Handler.
type Config struct {
	// Bus supplies events. Required.
	Bus *event.Bus

	PingInterval time.Duration
	WriteTimeout time.Duration

	// Metrics may be nil.
	Metrics *metric.Registry

	Logger *slog.Logger

	// Observer may be nil.
	Observer Observer
}

// Handler upgrades requests into Sessions.
type Handler struct {
	cfg      Config
	upgrader websocket.Upgrader
	metrics  *metric.Registry
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]*Session
	wg       sync.WaitGroup
}

// NewHandler creates an event stream handler.
func NewHandler(cfg Config) *Handler {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultPingInterval
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	return &Handler{
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Peers are local processes reached through a permissioned
			// socket; there is no browser origin to check.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		metrics:  cfg.Metrics,
		logger:   cfg.Logger.With("component", "eventstream"),
		sessions: make(map[string]*Session),
	}
}

// ServeHTTP upgrades the request and blocks until the session closes. A
// request that is not a valid WebSocket handshake is answered with an HTTP
// error by the upgrader and the connection stays in request/response mode.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.metrics.ConnError("upgrade")
		logger.L(r.Context()).Debug("event stream handshake rejected", "error", err)
		return
	}

	connID := logger.ConnIDFromContext(r.Context())
	s := &Session{
		ID:       ulid.Make().String(),
		ConnID:   connID,
		conn:     conn,
		bus:      h.cfg.Bus,
		handler:  h,
		replies:  make(chan event.Event, 8),
		readDone: make(chan struct{}),
	}
	s.logger = h.logger.With("session_id", s.ID, "conn_id", connID)

	h.wg.Add(1)
	defer h.wg.Done()

	h.mu.Lock()
	h.sessions[s.ID] = s
	h.mu.Unlock()

	s.setState(StatePending)
	if !s.open() {
		return
	}
	_ = s.run(r.Context())
}

// Active returns the number of sessions not yet closed.
func (h *Handler) Active() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// CloseAll closes every session and waits for their goroutines, bounded by
// ctx. Upgraded connections are hijacked, so http.Server.Shutdown does not
// track them.
func (h *Handler) CloseAll(ctx context.Context) error {
	h.mu.Lock()
	sessions := make([]*Session, 0, len(h.sessions))
	for _, s := range h.sessions {
		sessions = append(sessions, s)
	}
	h.mu.Unlock()

	for _, s := range sessions {
		msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		s.close(nil)
	}

	done := make(chan struct{})
	go func() {
		h.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) remove(s *Session) {
	h.mu.Lock()
	delete(h.sessions, s.ID)
	h.mu.Unlock()
}

func (h *Handler) observe(s *Session, st State) {
	if h.cfg.Observer != nil {
		h.cfg.Observer(s, st)
	}
}
