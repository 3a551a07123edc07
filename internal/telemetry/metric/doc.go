// Package metric provides Prometheus metrics for corelink.
//
// This package implements metrics collection and exposition:
//
//   - prometheus.go: the service registry, its instruments and HTTP handler
//   - collector.go: a pull collector for core and event bus state
//
// The registry is private to the process (not the global default registry)
// and is exposed at GET /metrics on the local endpoint.
package metric
