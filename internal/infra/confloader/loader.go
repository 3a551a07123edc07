package confloader

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "CORELINK_"

// envSectionSep separates nesting levels in environment variable names so
// that keys containing underscores survive, e.g.
// CORELINK_SERVER__SHUTDOWN_TIMEOUT -> server.shutdown_timeout.
const envSectionSep = "__"

// Loader loads configuration from multiple sources.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
	filePath  string
	overrides map[string]any
}

// Option is a function that configures the Loader.
type Option func(*Loader)

// WithConfigFile sets the configuration file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) {
		l.filePath = path
	}
}

// WithOverrides sets flat dotted keys applied after the environment.
func WithOverrides(values map[string]any) Option {
	return func(l *Loader) {
		l.overrides = values
	}
}

// NewLoader creates a new configuration loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}

	for _, opt := range opts {
		opt(l)
	}

	return l
}

// Load reads file, environment and overrides, then unmarshals into target.
// Fields of target that no source sets keep their current value, so callers
// pass a struct pre-filled with defaults.
func (l *Loader) Load(target any) error {
	if err := l.loadFile(l.filePath); err != nil {
		return fmt.Errorf("load config file: %w", err)
	}

	if err := l.loadEnv(); err != nil {
		return err
	}

	if len(l.overrides) > 0 {
		if err := l.loadMap(l.overrides); err != nil {
			return err
		}
	}

	if err := l.unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// loadFile reads a YAML file. An empty path is a no-op.
func (l *Loader) loadFile(path string) error {
	if path == "" {
		return nil
	}

	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load file %s: %w", path, err)
	}
	return nil
}

// loadEnv reads prefixed environment variables.
func (l *Loader) loadEnv() error {
	provider := env.Provider(l.envPrefix, ".", func(s string) string {
		return envKey(l.envPrefix, s)
	})
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// envKey maps CORELINK_CORE__STOP_TIMEOUT to core.stop_timeout.
func envKey(prefix, name string) string {
	name = strings.TrimPrefix(name, prefix)
	name = strings.ToLower(name)
	return strings.ReplaceAll(name, envSectionSep, ".")
}

// loadMap reads flat dotted keys.
func (l *Loader) loadMap(data map[string]any) error {
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load map: %w", err)
	}
	return nil
}

func (l *Loader) unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}
