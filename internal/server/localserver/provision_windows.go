//go:build windows

package localserver

import (
	"net"

	"github.com/Microsoft/go-winio"
)

const pipeBufferSize = 64 * 1024

// bind creates the first instance of the pipe. A second service using the
// same name fails here because go-winio requests the first instance.
func bind(ep Endpoint) (net.Listener, error) {
	return winio.ListenPipe(ep.Path, &winio.PipeConfig{
		SecurityDescriptor: ep.SecurityDescriptor,
		InputBufferSize:    pipeBufferSize,
		OutputBufferSize:   pipeBufferSize,
	})
}
