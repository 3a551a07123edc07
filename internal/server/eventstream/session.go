package eventstream

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/corelink-go/internal/core/event"
)

// State is the lifecycle state of a Session.
type State int32

// Session states.
const (
	StatePending State = iota
	StateOpen
	StateClosed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateOpen:
		return "open"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Inbound and reply message types understood by the reader.
const (
	TypePing = "ping"
	TypePong = "pong"
)

// maxInboundSize caps client frames; clients only send small control
// messages.
const maxInboundSize = 4096

// inbound is the subset of the envelope read from clients.
type inbound struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
}

// Session is one upgraded event stream connection.
type Session struct {
	ID     string
	ConnID string

	conn    *websocket.Conn
	bus     *event.Bus
	logger  *slog.Logger
	handler *Handler

	// mu guards sub and closed so open and close cannot interleave.
	mu     sync.Mutex
	sub    *event.Subscription
	closed bool

	state     atomic.Int32
	replies   chan event.Event
	readDone  chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// State returns the current state.
func (s *Session) State() State {
	return State(s.state.Load())
}

func (s *Session) setState(st State) {
	s.state.Store(int32(st))
	s.handler.observe(s, st)
}

// open attaches the bus subscription. It reports false when the session was
// closed while pending; otherwise callers must follow with run.
func (s *Session) open() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}
	s.sub = s.bus.Subscribe()
	s.setState(StateOpen)
	s.handler.metrics.SessionOpened()
	s.logger.Debug("event stream opened")
	return true
}

// run drives the session until the peer leaves, an I/O error occurs or ctx
// is cancelled. It always closes the session before returning.
func (s *Session) run(ctx context.Context) error {
	go s.readPump()
	err := s.writePump(ctx)
	s.close(err)
	return err
}

// writePump is the only goroutine writing data frames.
func (s *Session) writePump(ctx context.Context) error {
	cfg := s.handler.cfg
	ticker := time.NewTicker(cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case ev, ok := <-s.sub.C():
			if !ok {
				return errSubscriptionClosed
			}
			if err := s.writeJSON(ev); err != nil {
				return err
			}
			s.handler.metrics.EventSent()

		case ev := <-s.replies:
			if err := s.writeJSON(ev); err != nil {
				return err
			}

		case <-ticker.C:
			deadline := time.Now().Add(cfg.WriteTimeout)
			if err := s.conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return err
			}

		case <-s.readDone:
			return nil

		case <-ctx.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
			_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(cfg.WriteTimeout))
			return nil
		}
	}
}

func (s *Session) writeJSON(v any) error {
	_ = s.conn.SetWriteDeadline(time.Now().Add(s.handler.cfg.WriteTimeout))
	return s.conn.WriteJSON(v)
}

// readPump is the only goroutine reading frames.
func (s *Session) readPump() {
	defer close(s.readDone)

	cfg := s.handler.cfg
	pongWait := 2 * cfg.PingInterval

	s.conn.SetReadLimit(maxInboundSize)
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		typ, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) {
				s.logger.Debug("event stream read failed", "error", err)
			}
			return
		}
		_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))

		if typ != websocket.TextMessage {
			continue
		}

		var msg inbound
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		switch msg.Type {
		case TypePing:
			reply := event.New(TypePong, nil)
			select {
			case s.replies <- reply:
			default:
				// Writer is behind; the client will ping again.
			}
		default:
		}
	}
}

// close is idempotent.
func (s *Session) close(cause error) {
	s.closeOnce.Do(func() {
		s.closeErr = cause

		s.mu.Lock()
		s.closed = true
		sub := s.sub
		s.mu.Unlock()

		if sub != nil {
			sub.Close()
			s.handler.metrics.SessionClosed()
		}
		_ = s.conn.Close()
		s.setState(StateClosed)
		s.handler.remove(s)

		if cause != nil && !errors.Is(cause, errSubscriptionClosed) {
			s.logger.Debug("event stream closed", "error", cause)
		} else {
			s.logger.Debug("event stream closed")
		}
	})
}

var errSubscriptionClosed = errors.New("eventstream: subscription closed")
