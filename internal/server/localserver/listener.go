package localserver

import (
	"errors"
	"io"
	"net"
	"os"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/yndnr/corelink-go/internal/telemetry/metric"
)

// acceptor wraps the provisioned listener. It tags each connection with an
// ID and classifies accept failures.
type acceptor struct {
	net.Listener
	metrics *metric.Registry
	onError func(*ConnectionError)
}

// Accept returns the next connection. Errors after Close pass through so
// net/http can report a clean stop; anything else becomes an *AcceptError.
func (a *acceptor) Accept() (net.Conn, error) {
	c, err := a.Listener.Accept()
	if err != nil {
		if errors.Is(err, net.ErrClosed) {
			return nil, err
		}
		a.metrics.AcceptError()
		return nil, &AcceptError{Err: err}
	}
	return &conn{Conn: c, id: ulid.Make().String(), onError: a.onError}, nil
}

// conn is an accepted connection with an ID. The first unexpected read or
// write failure is reported as a *ConnectionError.
type conn struct {
	net.Conn
	id      string
	onError func(*ConnectionError)
	once    sync.Once
}

// ID returns the connection ID.
func (c *conn) ID() string { return c.id }

func (c *conn) Read(p []byte) (int, error) {
	n, err := c.Conn.Read(p)
	if err != nil {
		c.report("read", err)
	}
	return n, err
}

func (c *conn) Write(p []byte) (int, error) {
	n, err := c.Conn.Write(p)
	if err != nil {
		c.report("write", err)
	}
	return n, err
}

// CloseWrite lets net/http half-close Unix sockets.
func (c *conn) CloseWrite() error {
	if cw, ok := c.Conn.(interface{ CloseWrite() error }); ok {
		return cw.CloseWrite()
	}
	return nil
}

func (c *conn) report(op string, err error) {
	if !isConnectionFailure(err) || c.onError == nil {
		return
	}
	c.once.Do(func() {
		c.onError(&ConnectionError{ConnID: c.id, Op: op, Err: err})
	})
}

// isConnectionFailure filters out the ordinary ways a connection ends:
// peer EOF, local close and the deadlines net/http uses for idle and
// shutdown handling.
func isConnectionFailure(err error) bool {
	switch {
	case errors.Is(err, io.EOF),
		errors.Is(err, net.ErrClosed),
		errors.Is(err, os.ErrDeadlineExceeded):
		return false
	}
	return true
}

// connID returns the ID of a connection produced by acceptor.
func connID(c net.Conn) string {
	if tc, ok := c.(*conn); ok {
		return tc.id
	}
	return ulid.Make().String()
}
