package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/yndnr/corelink-go/internal/core/domain"
	"github.com/yndnr/corelink-go/internal/telemetry/logger"
)

// fakeLifecycle records calls and returns canned errors.
type fakeLifecycle struct {
	mu sync.Mutex

	startErr   error
	stopErr    error
	restartErr error

	startCalls []StartRequest
	stopCalls  int
	restarts   int
	logsN      int

	status domain.CoreStatus
	logs   []domain.LogLine
}

func (f *fakeLifecycle) Start(_ context.Context, coreType domain.CoreType, configFile string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.startCalls = append(f.startCalls, StartRequest{CoreType: string(coreType), ConfigFile: configFile})
	return f.startErr
}

func (f *fakeLifecycle) Stop(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopCalls++
	return f.stopErr
}

func (f *fakeLifecycle) Restart(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.restarts++
	return f.restartErr
}

func (f *fakeLifecycle) Status() domain.CoreStatus {
	return f.status
}

func (f *fakeLifecycle) Logs(n int) []domain.LogLine {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logsN = n
	return f.logs
}

func newTestHandler(core *fakeLifecycle) *Handler {
	return New(Config{Core: core, Logger: logger.Discard()})
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var got map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("response is not JSON: %v (%q)", err, rec.Body.String())
	}
	return got
}

func TestHandleStart_Success(t *testing.T) {
	core := &fakeLifecycle{}
	h := newTestHandler(core)

	rec := do(h, http.MethodPost, "/core/start", `{"core_type":"mihomo","config_file":"/etc/mihomo/config.yaml"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != `{"type":"success"}` {
		t.Errorf("body = %s, want {\"type\":\"success\"}", body)
	}
	if len(core.startCalls) != 1 {
		t.Fatalf("Start called %d times, want 1", len(core.startCalls))
	}
	want := StartRequest{CoreType: "mihomo", ConfigFile: "/etc/mihomo/config.yaml"}
	if core.startCalls[0] != want {
		t.Errorf("Start args = %+v, want %+v", core.startCalls[0], want)
	}
}

func TestHandleStart_AlreadyRunning(t *testing.T) {
	core := &fakeLifecycle{startErr: domain.ErrCoreAlreadyRunning}
	h := newTestHandler(core)

	rec := do(h, http.MethodPost, "/core/start", `{"core_type":"clash","config_file":"/c.yaml"}`)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	got := decode(t, rec)
	if got["type"] != TypeError || got["message"] != "already running" {
		t.Errorf("body = %v, want {type:error, message:already running}", got)
	}
	if code := rec.Header().Get("X-Error-Code"); code != "CL-CORE-4090" {
		t.Errorf("X-Error-Code = %q, want CL-CORE-4090", code)
	}
	if len(core.startCalls) != 1 {
		t.Errorf("Start called %d times, want 1", len(core.startCalls))
	}
}

func TestHandleStart_PassesFieldsUnvalidated(t *testing.T) {
	core := &fakeLifecycle{startErr: domain.ErrUnknownCoreType}
	h := newTestHandler(core)

	rec := do(h, http.MethodPost, "/core/start", `{"core_type":"","config_file":""}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if len(core.startCalls) != 1 || core.startCalls[0] != (StartRequest{}) {
		t.Errorf("Start calls = %+v, want one call with empty fields", core.startCalls)
	}
}

func TestHandleStart_PlainError(t *testing.T) {
	core := &fakeLifecycle{startErr: errors.New("boom")}
	h := newTestHandler(core)

	rec := do(h, http.MethodPost, "/core/start", `{}`)

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", rec.Code)
	}
	if got := decode(t, rec); got["message"] != "boom" {
		t.Errorf("message = %v, want boom", got["message"])
	}
	if code := rec.Header().Get("X-Error-Code"); code != "CL-SYS-5000" {
		t.Errorf("X-Error-Code = %q, want CL-SYS-5000", code)
	}
}

func TestHandleStart_BadJSON(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "core_type=clash"},
		{"truncated", `{"core_type":`},
		{"empty", ""},
		{"wrong type", `{"core_type":42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			core := &fakeLifecycle{}
			h := newTestHandler(core)

			rec := do(h, http.MethodPost, "/core/start", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
			if got := decode(t, rec); got["type"] != TypeError {
				t.Errorf("type = %v, want error", got["type"])
			}
			if len(core.startCalls) != 0 {
				t.Errorf("Start called %d times, want 0", len(core.startCalls))
			}
		})
	}
}

func TestHandleStart_WrongMethod(t *testing.T) {
	core := &fakeLifecycle{}
	rec := do(newTestHandler(core), http.MethodGet, "/core/start", "")

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want 405", rec.Code)
	}
	if len(core.startCalls) != 0 {
		t.Error("Start should not be called")
	}
}

func TestHandleStopRestart(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		core    *fakeLifecycle
		want    int
		message string
	}{
		{"stop ok", "/core/stop", &fakeLifecycle{}, http.StatusOK, ""},
		{"stop not running", "/core/stop", &fakeLifecycle{stopErr: domain.ErrCoreNotRunning}, http.StatusInternalServerError, "core is not running"},
		{"restart ok", "/core/restart", &fakeLifecycle{}, http.StatusOK, ""},
		{"restart failure", "/core/restart", &fakeLifecycle{restartErr: domain.ErrCoreSpawnFailed}, http.StatusInternalServerError, "failed to spawn core"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(newTestHandler(tt.core), http.MethodPost, tt.path, "")
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d", rec.Code, tt.want)
			}
			got := decode(t, rec)
			if tt.message == "" {
				if got["type"] != TypeSuccess {
					t.Errorf("type = %v, want success", got["type"])
				}
				return
			}
			if got["message"] != tt.message {
				t.Errorf("message = %v, want %q", got["message"], tt.message)
			}
		})
	}
}

func TestHandleLogs(t *testing.T) {
	core := &fakeLifecycle{logs: []domain.LogLine{{Stream: "stdout", Line: "hello"}}}
	h := newTestHandler(core)

	rec := do(h, http.MethodGet, "/core/logs?lines=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if core.logsN != 5 {
		t.Errorf("Logs(n) n = %d, want 5", core.logsN)
	}

	var resp struct {
		Type string       `json:"type"`
		Data LogsResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Data.Lines) != 1 || resp.Data.Lines[0].Line != "hello" {
		t.Errorf("lines = %+v", resp.Data.Lines)
	}

	for _, bad := range []string{"-1", "ten"} {
		rec := do(h, http.MethodGet, "/core/logs?lines="+bad, "")
		if rec.Code != http.StatusBadRequest {
			t.Errorf("lines=%s: status = %d, want 400", bad, rec.Code)
		}
	}
}

func TestHandleLogs_Empty(t *testing.T) {
	rec := do(newTestHandler(&fakeLifecycle{}), http.MethodGet, "/core/logs", "")
	if !strings.Contains(rec.Body.String(), `"lines":[]`) {
		t.Errorf("body = %s, want empty lines array", rec.Body.String())
	}
}

func TestHandleHealth(t *testing.T) {
	rec := do(newTestHandler(&fakeLifecycle{}), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	got := decode(t, rec)
	data, _ := got["data"].(map[string]any)
	if got["type"] != TypeSuccess || data["status"] != "healthy" {
		t.Errorf("body = %v", got)
	}
}

func TestHandleStatus(t *testing.T) {
	core := &fakeLifecycle{status: domain.CoreStatus{State: domain.CoreStateRunning, CoreType: domain.CoreClash, PID: 42}}
	h := New(Config{
		Core:        core,
		Logger:      logger.Discard(),
		Connections: func() int64 { return 3 },
		Sessions:    func() int { return 1 },
	})

	rec := do(h, http.MethodGet, "/status", "")

	var resp struct {
		Data StatusResponse `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Data.Connections != 3 || resp.Data.Sessions != 1 {
		t.Errorf("connections/sessions = %d/%d, want 3/1", resp.Data.Connections, resp.Data.Sessions)
	}
	if resp.Data.Core.State != domain.CoreStateRunning || resp.Data.Core.PID != 42 {
		t.Errorf("core = %+v", resp.Data.Core)
	}
	if resp.Data.PID == 0 {
		t.Error("service pid should be set")
	}
}

func TestHandleVersion(t *testing.T) {
	rec := do(newTestHandler(&fakeLifecycle{}), http.MethodGet, "/version", "")
	got := decode(t, rec)
	data, _ := got["data"].(map[string]any)
	if data == nil || data["version"] == "" || data["go_version"] == "" {
		t.Errorf("version data = %v", data)
	}
}

func TestHandle_ExtraRoute(t *testing.T) {
	h := newTestHandler(&fakeLifecycle{})
	h.Handle("GET /metrics", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	if rec := do(h, http.MethodGet, "/metrics", ""); rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if rec := do(h, http.MethodGet, "/nope", ""); rec.Code != http.StatusNotFound {
		t.Errorf("unknown route status = %d, want 404", rec.Code)
	}
}

func TestStatusForCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{"CL-ARG-4000", http.StatusBadRequest},
		{"CL-CORE-4001", http.StatusBadRequest},
		{"CL-CORE-4040", http.StatusNotFound},
		{"CL-CORE-4090", http.StatusConflict},
		{"CL-ARG-4290", http.StatusTooManyRequests},
		{"CL-SYS-5000", http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := StatusForCode(tt.code); got != tt.want {
			t.Errorf("StatusForCode(%q) = %d, want %d", tt.code, got, tt.want)
		}
	}
}
