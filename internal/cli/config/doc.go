// Package config provides the corelink-cli configuration file.
//
//   - spec.go: CLIConfig struct ($XDG_CONFIG_HOME/corelink/cli.yaml)
//   - loader.go: loading and saving
//
// Values in the file are defaults; flags and CORELINK_* environment
// variables take precedence.
package config
