// Package handler provides the HTTP handlers for the corelink control API.
//
// This package contains handlers for all control routes:
//
//   - core.go: core start, stop, restart and log tail
//   - health.go: health, status and version
//
// All handlers follow a consistent pattern:
//
//   - Decode the request
//   - Call the core Lifecycle
//   - Write a {type: "success"} or {type: "error"} envelope
//
// Error responses carry the domain error code in the X-Error-Code header.
package handler
