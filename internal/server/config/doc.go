// Package config provides the corelink-service configuration.
//
//   - spec.go: ServiceConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Validation (modes, durations, log settings)
//
// Configuration is loaded via internal/infra/confloader from a YAML file
// and CORELINK_ prefixed environment variables.
package config
