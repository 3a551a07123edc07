//go:build unix

package localserver

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// maxSocketPath is the portable sun_path limit (macOS is the smallest).
const maxSocketPath = 103

// DefaultPath returns the socket path for a logical endpoint name: under
// /var/run for root, otherwise under the user's runtime directory.
func DefaultPath(name string) string {
	file := name + ".sock"
	if os.Geteuid() == 0 {
		return filepath.Join("/var/run", file)
	}
	if xdg.RuntimeDir != "" {
		return filepath.Join(xdg.RuntimeDir, file)
	}
	return filepath.Join(os.TempDir(), file)
}

func validatePath(path string) error {
	if len(path) > maxSocketPath {
		return fmt.Errorf("socket path %q exceeds %d bytes", path, maxSocketPath)
	}
	return nil
}
