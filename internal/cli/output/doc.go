// Package output provides output formatting for corelink-cli.
//
// This package handles all CLI output formatting:
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned tables for values implementing Tabular
//   - json.go: JSON output formatting
//   - yaml.go: YAML output formatting
//   - spinner.go: progress animation for core transitions
//
// Values without a table form are printed as YAML in table mode.
package output
