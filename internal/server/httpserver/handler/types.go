package handler

import (
	"time"

	"github.com/yndnr/corelink-go/internal/core/domain"
)

// Envelope types.
const (
	TypeSuccess = "success"
	TypeError   = "error"
)

// Response is the envelope of every JSON response except /metrics.
type Response struct {
	Type    string `json:"type"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

// Success creates a success envelope. data may be nil.
func Success(data any) *Response {
	return &Response{Type: TypeSuccess, Data: data}
}

// Failure creates an error envelope.
func Failure(message string) *Response {
	return &Response{Type: TypeError, Message: message}
}

// StartRequest is the request body for POST /core/start.
type StartRequest struct {
	CoreType   string `json:"core_type"`
	ConfigFile string `json:"config_file"`
}

// HealthResponse is the data of GET /health.
type HealthResponse struct {
	Status string    `json:"status"`
	Time   time.Time `json:"time"`
}

// StatusResponse is the data of GET /status.
type StatusResponse struct {
	Version       string            `json:"version"`
	PID           int               `json:"pid"`
	UptimeSeconds int64             `json:"uptime_seconds"`
	Connections   int64             `json:"connections"`
	Sessions      int               `json:"sessions"`
	Core          domain.CoreStatus `json:"core"`
}

// LogsResponse is the data of GET /core/logs.
type LogsResponse struct {
	Lines []domain.LogLine `json:"lines"`
}
