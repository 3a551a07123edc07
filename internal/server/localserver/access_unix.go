//go:build unix

package localserver

import (
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"os"
	"os/user"
	"path/filepath"
	"strconv"
	"time"
)

// fileOps is the file system surface used by unixAccess.
type fileOps interface {
	Lstat(path string) (fs.FileInfo, error)
	Remove(path string) error
	MkdirAll(path string, perm fs.FileMode) error
	Chmod(path string, mode fs.FileMode) error
	Chown(path string, uid, gid int) error
	LookupGroup(name string) (gid int, err error)
}

type osFileOps struct{}

func (osFileOps) Lstat(path string) (fs.FileInfo, error)       { return os.Lstat(path) }
func (osFileOps) Remove(path string) error                     { return os.Remove(path) }
func (osFileOps) MkdirAll(path string, perm fs.FileMode) error { return os.MkdirAll(path, perm) }
func (osFileOps) Chmod(path string, mode fs.FileMode) error    { return os.Chmod(path, mode) }
func (osFileOps) Chown(path string, uid, gid int) error        { return os.Chown(path, uid, gid) }

func (osFileOps) LookupGroup(name string) (int, error) {
	g, err := user.LookupGroup(name)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(g.Gid)
}

// probeTimeout bounds the liveness dial against an existing socket.
const probeTimeout = 500 * time.Millisecond

// unixAccess handles stale sockets, ownership and mode.
type unixAccess struct {
	ops    fileOps
	dial   func(path string) (net.Conn, error)
	logger *slog.Logger
}

func newAccessControl(logger *slog.Logger) accessControl {
	return &unixAccess{
		ops: osFileOps{},
		dial: func(path string) (net.Conn, error) {
			return net.DialTimeout("unix", path, probeTimeout)
		},
		logger: logger,
	}
}

// prepare creates the parent directory and clears a stale socket. A socket
// that still accepts connections belongs to a live instance and is kept.
func (a *unixAccess) prepare(ep Endpoint) error {
	if err := a.ops.MkdirAll(filepath.Dir(ep.Path), 0o755); err != nil {
		return &TransportError{Op: "mkdir", Path: ep.Path, Err: err}
	}

	fi, err := a.ops.Lstat(ep.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &TransportError{Op: "stat", Path: ep.Path, Err: err}
	}
	if fi.Mode()&fs.ModeSocket == 0 {
		return &TransportError{Op: "stat", Path: ep.Path, Err: ErrNotSocket}
	}

	if conn, err := a.dial(ep.Path); err == nil {
		_ = conn.Close()
		return &TransportError{Op: "probe", Path: ep.Path, Err: ErrEndpointInUse}
	}

	if err := a.ops.Remove(ep.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &TransportError{Op: "remove", Path: ep.Path, Err: err}
	}
	a.logger.Info("removed stale socket", "path", ep.Path)
	return nil
}

// apply hands the socket to the configured group and re-applies the mode.
// A group that does not exist is skipped so the service still starts for a
// single user.
func (a *unixAccess) apply(ep Endpoint) error {
	if ep.Group != "" {
		gid, err := a.ops.LookupGroup(ep.Group)
		if err != nil {
			a.logger.Warn("socket group not found, socket accessible to owner only",
				"group", ep.Group, "error", err)
		} else if err := a.ops.Chown(ep.Path, -1, gid); err != nil {
			return &TransportError{Op: "chown", Path: ep.Path, Err: err}
		}
	}

	if err := a.ops.Chmod(ep.Path, ep.Mode); err != nil {
		return &TransportError{Op: "chmod", Path: ep.Path, Err: err}
	}
	return nil
}
