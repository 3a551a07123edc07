// Package connection provides the corelink-cli client for the local
// control endpoint.
//
//   - http.go: request/response client over the Unix socket or named pipe
//   - events.go: WebSocket client for the /ws event stream
//   - dial_*.go: platform dialers
//
// Both clients dial the same endpoint path the service listens on; the
// host part of the URLs is ignored.
package connection
