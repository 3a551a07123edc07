// Package service provides domain services for corelink.
//
// CoreManager is the lifecycle client of the managed core process. It is
// constructed once per process and shared by every connection; all
// mutating operations are serialized internally, so callers may invoke it
// concurrently.
//
//   - Start launches a core variant with a configuration file
//   - Stop terminates it (interrupt, then kill after a timeout)
//   - Restart replays the last start parameters
//   - Status and Logs expose a snapshot and the captured output
//
// State transitions and captured output are published on the event bus.
package service
