// Package main provides the entry point for corelink-service.
//
// The service is a local control plane for a proxy core process. It
// provides:
//
//   - HTTP control routes over a Unix domain socket or Windows named pipe
//   - A WebSocket event stream on the reserved /ws path
//   - Lifecycle management of the core process
//
// Usage:
//
//	corelink-service [flags]
//	corelink-service -config /etc/corelink/service.yaml
//
// The service loads configuration, provisions the endpoint with its access
// control, and serves until SIGINT or SIGTERM.
package main
