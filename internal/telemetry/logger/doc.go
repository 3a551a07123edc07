// Package logger builds the service's log/slog logger.
//
//   - logger.go: handler construction and the runtime-adjustable level
//   - context.go: request and connection IDs carried in context.Context
//   - redact.go: masking of sensitive attributes
package logger
