package config

import "time"

// Default configuration values.
const (
	DefaultLocalName          = "corelink-service"
	DefaultSocketMode         = "0664"
	DefaultSocketGroup        = "corelink"
	DefaultSecurityDescriptor = "D:P(A;;GA;;;SY)(A;;GA;;;BA)(A;;GRGW;;;IU)"
	DefaultShutdownTimeout    = 10 * time.Second
	DefaultReadHeaderTimeout  = 5 * time.Second
	DefaultRateLimitRPS       = 50
	DefaultRateLimitBurst     = 100
	DefaultCoreStopTimeout    = 10 * time.Second
	DefaultCoreLogLines       = 1000
	DefaultEventsBufferSize   = 256
	DefaultEventsPingInterval = 30 * time.Second
	DefaultLogLevel           = "info"
	DefaultLogFormat          = "json"
)

// Default returns the default service configuration.
func Default() *ServiceConfig {
	return &ServiceConfig{
		Server: ServerSection{
			Local: LocalConfig{
				Name:               DefaultLocalName,
				Mode:               DefaultSocketMode,
				Group:              DefaultSocketGroup,
				SecurityDescriptor: DefaultSecurityDescriptor,
			},
			ShutdownTimeout:   DefaultShutdownTimeout,
			ReadHeaderTimeout: DefaultReadHeaderTimeout,
			RateLimit: RateLimitConfig{
				Enabled: true,
				RPS:     DefaultRateLimitRPS,
				Burst:   DefaultRateLimitBurst,
			},
		},
		Core: CoreSection{
			StopTimeout: DefaultCoreStopTimeout,
			LogLines:    DefaultCoreLogLines,
		},
		Events: EventsSection{
			BufferSize:   DefaultEventsBufferSize,
			PingInterval: DefaultEventsPingInterval,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsSection{
			Enabled: true,
		},
	}
}
