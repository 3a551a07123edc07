// Package httpserver provides the HTTP layer of the corelink control API.
//
// This package implements request handling on top of stdlib net/http:
//
//   - Engine: an http.Server that serves any net.Listener, used by the
//     local socket server
//   - Router: the control routes (/health, /status, /version, /core/*,
//     /metrics) behind the middleware chain
//
// Middleware chain: Recover, RequestID, RateLimit (per connection), Audit,
// Metrics.
package httpserver
