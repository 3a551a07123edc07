package localserver

import (
	"errors"
	"os"

	"github.com/yndnr/corelink-go/internal/server/config"
)

// Endpoint describes the local socket or named pipe.
type Endpoint struct {
	Name string
	Path string

	// Mode and Group apply to Unix sockets.
	Mode  os.FileMode
	Group string

	// SecurityDescriptor is the SDDL for Windows pipes.
	SecurityDescriptor string
}

// NewEndpoint resolves cfg into an Endpoint, deriving the path from the
// name when no explicit path is set.
func NewEndpoint(cfg config.LocalConfig) (Endpoint, error) {
	mode, err := cfg.FileMode()
	if err != nil {
		return Endpoint{}, err
	}

	ep := Endpoint{
		Name:               cfg.Name,
		Path:               cfg.Path,
		Mode:               mode,
		Group:              cfg.Group,
		SecurityDescriptor: cfg.SecurityDescriptor,
	}
	if ep.Path == "" {
		if ep.Name == "" {
			return Endpoint{}, errors.New("endpoint name or path is required")
		}
		ep.Path = DefaultPath(ep.Name)
	}

	if err := validatePath(ep.Path); err != nil {
		return Endpoint{}, err
	}
	return ep, nil
}
