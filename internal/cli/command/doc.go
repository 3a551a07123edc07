// Package command provides CLI command definitions for corelink-cli.
//
// This package defines all CLI commands using urfave/cli/v2:
//
//   - root.go: application, global flags, shared helpers
//   - core.go: core lifecycle subcommand group
//   - events.go: event stream follower
//   - system.go: health, status and version
//   - views.go: table forms of service responses
//
// Commands follow a consistent pattern of parsing flags, calling the
// service over the local endpoint, and formatting output.
package command
