package metric

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry() returned nil")
	}
	if r.Prometheus() == nil {
		t.Error("Prometheus() returned nil")
	}
	if r.ConnectionsActive == nil || r.RequestsTotal == nil || r.CoreOperations == nil {
		t.Error("instruments should be initialized")
	}
}

func TestRegistry_Handler(t *testing.T) {
	r := NewRegistry()
	r.ConnOpened()
	r.ObserveRequest(http.MethodPost, "/core/start", http.StatusOK, 2*time.Millisecond)
	r.CoreOperation("start", nil)
	r.CoreOperation("start", errors.New("already running"))
	r.EventDropped("core_log")

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}

	body, _ := io.ReadAll(rec.Body)
	content := string(body)

	for _, want := range []string{
		"corelink_transport_connections_active 1",
		`corelink_http_requests_total{method="POST",route="/core/start",status="200"} 1`,
		`corelink_core_operations_total{op="start",result="error"} 1`,
		`corelink_core_operations_total{op="start",result="success"} 1`,
		`corelink_events_dropped_total{type="core_log"} 1`,
		"go_goroutines",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestRegistry_NilSafe(t *testing.T) {
	var r *Registry

	// None of these may panic.
	r.ConnOpened()
	r.ConnClosed()
	r.ConnError("protocol")
	r.AcceptError()
	r.ObserveRequest(http.MethodGet, "/health", http.StatusOK, time.Millisecond)
	r.SessionOpened()
	r.SessionClosed()
	r.EventSent()
	r.EventDropped("core_log")
	r.CoreOperation("stop", nil)
	r.MustRegister()

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("nil registry handler status = %d, want 404", rec.Code)
	}
}

func TestCollector(t *testing.T) {
	r := NewRegistry()
	r.MustRegister(NewCollector(func() Stats {
		return Stats{CoreRunning: true, CoreRestarts: 2, EventSubscribers: 3}
	}))

	rec := httptest.NewRecorder()
	r.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	content := rec.Body.String()

	for _, want := range []string{
		"corelink_core_up 1",
		"corelink_core_restarts 2",
		"corelink_events_subscribers 3",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}
