package localserver

import (
	"errors"
	"fmt"
)

var (
	// ErrEndpointInUse means a live process answered on the socket path.
	ErrEndpointInUse = errors.New("endpoint is in use by a running instance")

	// ErrNotSocket means the socket path is occupied by something that is
	// not a socket and is left untouched.
	ErrNotSocket = errors.New("path exists and is not a socket")

	// ErrServerStarted is returned by a second ListenAndServe call.
	ErrServerStarted = errors.New("localserver: server already started")
)

// TransportError is a fatal endpoint provisioning failure.
type TransportError struct {
	Op   string
	Path string
	Err  error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// AcceptError is a failure of the accept loop. It deliberately does not
// implement net.Error, so net/http stops serving instead of retrying.
type AcceptError struct {
	Err error
}

func (e *AcceptError) Error() string {
	return "accept: " + e.Err.Error()
}

func (e *AcceptError) Unwrap() error { return e.Err }

// ConnectionError is an I/O failure confined to one connection.
type ConnectionError struct {
	ConnID string
	Op     string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connection %s %s: %v", e.ConnID, e.Op, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }
