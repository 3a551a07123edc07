package config

import "time"

// ServiceConfig is the root configuration for corelink-service.
type ServiceConfig struct {
	Server  ServerSection  `koanf:"server"`
	Core    CoreSection    `koanf:"core"`
	Events  EventsSection  `koanf:"events"`
	Log     LogSection     `koanf:"log"`
	Metrics MetricsSection `koanf:"metrics"`
}

// ServerSection configures the local control endpoint.
type ServerSection struct {
	Local LocalConfig `koanf:"local"`

	// ShutdownTimeout bounds connection draining on shutdown.
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`

	// ReadHeaderTimeout bounds how long a connection may take to send
	// request headers.
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`

	RateLimit RateLimitConfig `koanf:"rate_limit"`
}

// LocalConfig describes the socket or named pipe.
type LocalConfig struct {
	// Name is the logical endpoint name. The path is derived from it
	// unless Path is set.
	Name string `koanf:"name"`

	// Path overrides the derived socket path (Unix) or pipe name (Windows).
	Path string `koanf:"path"`

	// Mode is the octal socket file mode, e.g. "0664". Unix only.
	Mode string `koanf:"mode"`

	// Group owns the socket file. A group that does not exist is skipped
	// with a warning. Unix only.
	Group string `koanf:"group"`

	// SecurityDescriptor is the SDDL applied to the pipe. Windows only.
	SecurityDescriptor string `koanf:"security_descriptor"`
}

// RateLimitConfig limits requests per connection.
type RateLimitConfig struct {
	Enabled bool    `koanf:"enabled"`
	RPS     float64 `koanf:"rps"`
	Burst   int     `koanf:"burst"`
}

// CoreSection configures the managed core process.
type CoreSection struct {
	// BinaryDir holds one executable per core type.
	BinaryDir string `koanf:"binary_dir"`

	// Binaries maps a core type to an explicit executable path.
	Binaries map[string]string `koanf:"binaries"`

	// WorkDir is the core home directory. Empty uses the directory of the
	// configuration file passed to start.
	WorkDir string `koanf:"work_dir"`

	StopTimeout time.Duration `koanf:"stop_timeout"`

	// LogLines is how many output lines are kept for /core/logs.
	LogLines int `koanf:"log_lines"`
}

// EventsSection configures the /ws event stream.
type EventsSection struct {
	// BufferSize is the per-subscriber queue length. Events beyond it are
	// dropped for that subscriber.
	BufferSize int `koanf:"buffer_size"`

	PingInterval time.Duration `koanf:"ping_interval"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// MetricsSection toggles the /metrics route.
type MetricsSection struct {
	Enabled bool `koanf:"enabled"`
}
