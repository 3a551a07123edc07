package localserver

import (
	"log/slog"
	"net"
)

// accessControl applies the platform permission policy around bind.
type accessControl interface {
	// prepare runs before bind: stale artifact handling on Unix,
	// descriptor validation on Windows.
	prepare(ep Endpoint) error

	// apply runs after bind: ownership and mode on Unix.
	apply(ep Endpoint) error
}

// bindFunc creates the listener for a prepared endpoint.
type bindFunc func(ep Endpoint) (net.Listener, error)

// provision creates, secures and returns the endpoint listener. Every
// failure is a *TransportError.
func provision(ep Endpoint, ac accessControl, bind bindFunc, logger *slog.Logger) (net.Listener, error) {
	if err := ac.prepare(ep); err != nil {
		return nil, err
	}

	ln, err := bind(ep)
	if err != nil {
		return nil, &TransportError{Op: "listen", Path: ep.Path, Err: err}
	}

	if err := ac.apply(ep); err != nil {
		_ = ln.Close()
		return nil, err
	}

	logger.Debug("endpoint provisioned", "path", ep.Path)
	return ln, nil
}
