//go:build unix

package localserver

import (
	"net"
	"sync"

	"golang.org/x/sys/unix"
)

// umaskMu serializes the process-wide umask change around bind.
var umaskMu sync.Mutex

// bind creates the socket with ep.Mode already in effect, so there is no
// window in which it is reachable with looser permissions. The Go runtime
// puts the socket in non-blocking mode for its netpoller.
func bind(ep Endpoint) (net.Listener, error) {
	umaskMu.Lock()
	old := unix.Umask(int(^ep.Mode & 0o777))
	ln, err := net.ListenUnix("unix", &net.UnixAddr{Name: ep.Path, Net: "unix"})
	unix.Umask(old)
	umaskMu.Unlock()

	if err != nil {
		return nil, err
	}
	ln.SetUnlinkOnClose(true)
	return ln, nil
}
