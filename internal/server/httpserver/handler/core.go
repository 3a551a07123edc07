package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/yndnr/corelink-go/internal/core/domain"
)

// maxStartBody bounds the POST /core/start body.
const maxStartBody = 64 * 1024

// handleStart handles POST /core/start.
//
// The request is passed to the lifecycle client as is. Every lifecycle
// failure is reported as 500 with the error text, so callers see messages
// such as "already running" verbatim.
func (h *Handler) handleStart(w http.ResponseWriter, r *http.Request) {
	var req StartRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxStartBody)).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			err = errors.New("empty request body")
		}
		h.writeError(w, r, http.StatusBadRequest, domain.ErrBadRequest.WithDetails(err.Error()))
		return
	}

	err := h.core.Start(r.Context(), domain.CoreType(req.CoreType), req.ConfigFile)
	h.metrics.CoreOperation("start", err)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleStop handles POST /core/stop.
func (h *Handler) handleStop(w http.ResponseWriter, r *http.Request) {
	err := h.core.Stop(r.Context())
	h.metrics.CoreOperation("stop", err)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleRestart handles POST /core/restart.
func (h *Handler) handleRestart(w http.ResponseWriter, r *http.Request) {
	err := h.core.Restart(r.Context())
	h.metrics.CoreOperation("restart", err)
	if err != nil {
		h.writeError(w, r, http.StatusInternalServerError, err)
		return
	}
	h.writeJSON(w, r, http.StatusOK, nil)
}

// handleLogs handles GET /core/logs?lines=N. Without lines, every captured
// line is returned.
func (h *Handler) handleLogs(w http.ResponseWriter, r *http.Request) {
	n := 0
	if s := r.URL.Query().Get("lines"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			h.writeError(w, r, http.StatusBadRequest,
				domain.ErrBadRequest.WithDetails("lines must be a non-negative integer"))
			return
		}
		n = v
	}

	lines := h.core.Logs(n)
	if lines == nil {
		lines = []domain.LogLine{}
	}
	h.writeJSON(w, r, http.StatusOK, LogsResponse{Lines: lines})
}
