package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "corelink"

// Registry holds all application metrics.
//
// A nil *Registry is valid: every recording method is a no-op, so components
// can be built without metrics.
type Registry struct {
	reg *prometheus.Registry

	// Transport metrics
	ConnectionsActive prometheus.Gauge
	ConnectionsTotal  prometheus.Counter
	ConnectionErrors  *prometheus.CounterVec
	AcceptErrors      prometheus.Counter

	// Request metrics
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Event stream metrics
	SessionsActive prometheus.Gauge
	SessionsTotal  prometheus.Counter
	EventsSent     prometheus.Counter
	EventsDropped  *prometheus.CounterVec

	// Core metrics
	CoreOperations *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		ConnectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "connections_active",
			Help:      "Currently open local connections",
		}),
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "connections_total",
			Help:      "Accepted local connections",
		}),
		ConnectionErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "connection_errors_total",
			Help:      "Connection-scoped protocol and I/O failures",
		}, []string{"kind"}),
		AcceptErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "transport",
			Name:      "accept_errors_total",
			Help:      "Listener-level accept failures",
		}),

		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Handled requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Request handling latency",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}, []string{"route"}),

		SessionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "sessions_active",
			Help:      "Open event stream sessions",
		}),
		SessionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "sessions_total",
			Help:      "Event stream sessions opened",
		}),
		EventsSent: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "sent_total",
			Help:      "Events written to event stream sessions",
		}),
		EventsDropped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "events",
			Name:      "dropped_total",
			Help:      "Events missed by slow subscribers",
		}, []string{"type"}),

		CoreOperations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "core",
			Name:      "operations_total",
			Help:      "Core lifecycle operations by outcome",
		}, []string{"op", "result"}),
	}

	r.reg.MustRegister(
		r.ConnectionsActive,
		r.ConnectionsTotal,
		r.ConnectionErrors,
		r.AcceptErrors,
		r.RequestsTotal,
		r.RequestDuration,
		r.SessionsActive,
		r.SessionsTotal,
		r.EventsSent,
		r.EventsDropped,
		r.CoreOperations,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return r
}

// Prometheus returns the underlying registry.
func (r *Registry) Prometheus() *prometheus.Registry {
	if r == nil {
		return nil
	}
	return r.reg
}

// MustRegister registers additional collectors.
func (r *Registry) MustRegister(cs ...prometheus.Collector) {
	if r == nil {
		return
	}
	r.reg.MustRegister(cs...)
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// ConnOpened records an accepted connection.
func (r *Registry) ConnOpened() {
	if r == nil {
		return
	}
	r.ConnectionsTotal.Inc()
	r.ConnectionsActive.Inc()
}

// ConnClosed records a closed or hijacked connection.
func (r *Registry) ConnClosed() {
	if r == nil {
		return
	}
	r.ConnectionsActive.Dec()
}

// ConnError records a connection-scoped failure.
func (r *Registry) ConnError(kind string) {
	if r == nil {
		return
	}
	r.ConnectionErrors.WithLabelValues(kind).Inc()
}

// AcceptError records a listener failure.
func (r *Registry) AcceptError() {
	if r == nil {
		return
	}
	r.AcceptErrors.Inc()
}

// ObserveRequest records one handled request.
func (r *Registry) ObserveRequest(method, route string, status int, d time.Duration) {
	if r == nil {
		return
	}
	r.RequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.RequestDuration.WithLabelValues(route).Observe(d.Seconds())
}

// SessionOpened records an event stream session entering the open state.
func (r *Registry) SessionOpened() {
	if r == nil {
		return
	}
	r.SessionsTotal.Inc()
	r.SessionsActive.Inc()
}

// SessionClosed records an open session closing.
func (r *Registry) SessionClosed() {
	if r == nil {
		return
	}
	r.SessionsActive.Dec()
}

// EventSent records one event written to a session.
func (r *Registry) EventSent() {
	if r == nil {
		return
	}
	r.EventsSent.Inc()
}

// EventDropped records one event a full subscription missed.
func (r *Registry) EventDropped(typ string) {
	if r == nil {
		return
	}
	r.EventsDropped.WithLabelValues(typ).Inc()
}

// CoreOperation records the outcome of a lifecycle call.
func (r *Registry) CoreOperation(op string, err error) {
	if r == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	r.CoreOperations.WithLabelValues(op, result).Inc()
}
