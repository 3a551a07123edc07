package domain

import "time"

// CoreState is the lifecycle state of the managed core.
type CoreState string

const (
	CoreStateStopped  CoreState = "stopped"
	CoreStateStarting CoreState = "starting"
	CoreStateRunning  CoreState = "running"
	CoreStateStopping CoreState = "stopping"
)

// CoreStatus is a point-in-time snapshot of the managed core.
type CoreStatus struct {
	State      CoreState `json:"state"`
	CoreType   CoreType  `json:"core_type,omitempty"`
	ConfigFile string    `json:"config_file,omitempty"`
	PID        int       `json:"pid,omitempty"`
	StartedAt  time.Time `json:"started_at,omitzero"`
	LastError  string    `json:"last_error,omitempty"`
	Restarts   int       `json:"restarts"`
}

// Running reports whether the core holds a live process.
func (s CoreStatus) Running() bool {
	return s.State == CoreStateRunning
}

// LogLine is a single line captured from the core's output streams.
type LogLine struct {
	Time   time.Time `json:"time"`
	Stream string    `json:"stream"`
	Line   string    `json:"line"`
}
