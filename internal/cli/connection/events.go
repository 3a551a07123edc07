package connection

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/yndnr/corelink-go/internal/core/event"
)

// eventsURL addresses the reserved stream path.
const eventsURL = "ws://corelink/ws"

// EventStream is an open /ws session.
type EventStream struct {
	conn *websocket.Conn
}

// Events opens the event stream.
func (c *HTTPClient) Events(ctx context.Context) (*EventStream, error) {
	dialer := websocket.Dialer{
		NetDialContext:   c.dial,
		HandshakeTimeout: 10 * time.Second,
	}

	conn, _, err := dialer.DialContext(ctx, eventsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("open event stream: %w", err)
	}
	return &EventStream{conn: conn}, nil
}

// Next blocks for the next event.
func (s *EventStream) Next() (event.Event, error) {
	var ev event.Event
	if err := s.conn.ReadJSON(&ev); err != nil {
		return event.Event{}, err
	}
	return ev, nil
}

// Ping asks the service for an application level pong event.
func (s *EventStream) Ping() error {
	return s.conn.WriteJSON(map[string]string{"type": "ping"})
}

// Close sends a normal close frame and closes the connection.
func (s *EventStream) Close() error {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = s.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	return s.conn.Close()
}

// IsNormalClose reports whether err ends a stream cleanly.
func IsNormalClose(err error) bool {
	return websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway)
}
