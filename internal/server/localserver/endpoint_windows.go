//go:build windows

package localserver

import (
	"fmt"
	"strings"
)

const pipePrefix = `\\.\pipe\`

// DefaultPath returns the named pipe path for a logical endpoint name.
func DefaultPath(name string) string {
	return pipePrefix + name
}

func validatePath(path string) error {
	if !strings.HasPrefix(strings.ToLower(path), pipePrefix) {
		return fmt.Errorf("pipe path %q must start with %s", path, pipePrefix)
	}
	return nil
}
