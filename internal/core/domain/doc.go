// Package domain defines the core domain models for corelink.
//
// Domain models are pure value objects without any IO dependencies:
//
//   - CoreType: the managed core variants the service can launch
//   - CoreState and CoreStatus: lifecycle snapshot of the managed core
//   - Errors: domain error definitions with stable error codes
package domain
