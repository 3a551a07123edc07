package handler

import (
	"net/http"
	"os"
	"time"

	"github.com/yndnr/corelink-go/internal/infra/buildinfo"
)

// handleHealth handles GET /health.
func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, HealthResponse{
		Status: "healthy",
		Time:   time.Now().UTC(),
	})
}

// handleStatus handles GET /status.
func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := StatusResponse{
		Version:       buildinfo.Version,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(h.startedAt).Seconds()),
		Core:          h.core.Status(),
	}
	if h.connections != nil {
		resp.Connections = h.connections()
	}
	if h.sessions != nil {
		resp.Sessions = h.sessions()
	}

	h.writeJSON(w, r, http.StatusOK, resp)
}

// handleVersion handles GET /version.
func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, buildinfo.Get())
}
