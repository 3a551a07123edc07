package config

import (
	"fmt"
	"time"
)

// CLIConfig is the configuration for corelink-cli.
type CLIConfig struct {
	// Endpoint is the service socket or pipe path.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// Output is the default format: table, json, yaml.
	Output string `yaml:"output,omitempty" json:"output,omitempty"`

	// Timeout bounds each request, e.g. "10s".
	Timeout string `yaml:"timeout,omitempty" json:"timeout,omitempty"`
}

// Default returns the default CLI configuration. Empty fields defer to the
// flag defaults.
func Default() *CLIConfig {
	return &CLIConfig{}
}

// Keys lists the settable keys in display order.
var Keys = []string{"endpoint", "output", "timeout"}

// Get returns the value of key.
func (c *CLIConfig) Get(key string) (string, error) {
	switch key {
	case "endpoint":
		return c.Endpoint, nil
	case "output":
		return c.Output, nil
	case "timeout":
		return c.Timeout, nil
	default:
		return "", fmt.Errorf("unknown key %q", key)
	}
}

// Set assigns key after validating value. An empty value clears the key.
func (c *CLIConfig) Set(key, value string) error {
	switch key {
	case "endpoint":
		c.Endpoint = value
	case "output":
		switch value {
		case "", "table", "json", "yaml":
		default:
			return fmt.Errorf("output %q is not one of table, json, yaml", value)
		}
		c.Output = value
	case "timeout":
		if value != "" {
			d, err := time.ParseDuration(value)
			if err != nil || d <= 0 {
				return fmt.Errorf("timeout %q is not a positive duration", value)
			}
		}
		c.Timeout = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}
