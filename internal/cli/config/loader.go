package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath returns the default CLI config file path.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "corelink", "cli.yaml")
}

// Load reads the file at path. A missing file yields Default.
func Load(path string) (*CLIConfig, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cli config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse cli config %s: %w", path, err)
	}
	for _, key := range Keys {
		v, _ := cfg.Get(key)
		if err := cfg.Set(key, v); err != nil {
			return nil, fmt.Errorf("cli config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Save writes cfg to path with owner-only permissions.
func Save(cfg *CLIConfig, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode cli config: %w", err)
	}

	// Write then rename so a crash never leaves a truncated file.
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write cli config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("write cli config: %w", err)
	}
	return nil
}
