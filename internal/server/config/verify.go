package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/yndnr/corelink-go/internal/core/domain"
)

// Verify validates the configuration.
func Verify(cfg *ServiceConfig) error {
	if err := verifyServer(&cfg.Server); err != nil {
		return err
	}
	if err := verifyCore(&cfg.Core); err != nil {
		return err
	}
	if err := verifyEvents(&cfg.Events); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

// FileMode parses Mode as an octal permission set.
func (c LocalConfig) FileMode() (os.FileMode, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(c.Mode, "0o"), 8, 32)
	if err != nil {
		return 0, fmt.Errorf("server.local.mode %q is not an octal mode", c.Mode)
	}
	if v > 0o777 {
		return 0, fmt.Errorf("server.local.mode %q exceeds 0777", c.Mode)
	}
	return os.FileMode(v), nil
}

func verifyServer(cfg *ServerSection) error {
	if cfg.Local.Name == "" && cfg.Local.Path == "" {
		return errors.New("server.local.name or server.local.path is required")
	}
	if strings.ContainsAny(cfg.Local.Name, `/\`) {
		return fmt.Errorf("server.local.name %q must not contain path separators", cfg.Local.Name)
	}
	if _, err := cfg.Local.FileMode(); err != nil {
		return err
	}
	if cfg.ShutdownTimeout <= 0 {
		return errors.New("server.shutdown_timeout must be positive")
	}
	if cfg.ReadHeaderTimeout < 0 {
		return errors.New("server.read_header_timeout must not be negative")
	}
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.RPS <= 0 {
			return errors.New("server.rate_limit.rps must be positive")
		}
		if cfg.RateLimit.Burst < 1 {
			return errors.New("server.rate_limit.burst must be at least 1")
		}
	}
	return nil
}

func verifyCore(cfg *CoreSection) error {
	for name := range cfg.Binaries {
		if _, err := domain.ParseCoreType(name); err != nil {
			return fmt.Errorf("core.binaries: %w", err)
		}
	}
	if cfg.StopTimeout <= 0 {
		return errors.New("core.stop_timeout must be positive")
	}
	if cfg.LogLines < 1 {
		return errors.New("core.log_lines must be at least 1")
	}
	return nil
}

func verifyEvents(cfg *EventsSection) error {
	if cfg.BufferSize < 1 {
		return errors.New("events.buffer_size must be at least 1")
	}
	if cfg.PingInterval <= 0 {
		return errors.New("events.ping_interval must be positive")
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	switch strings.ToLower(cfg.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch strings.ToLower(cfg.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format %q is not one of json, text", cfg.Format)
	}
	return nil
}
