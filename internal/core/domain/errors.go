package domain

import (
	"errors"
)

// DomainError represents a business domain error with a structured error code.
//
// The error string carries only the human readable message so that it can be
// surfaced to local clients verbatim; the code travels separately.
type DomainError struct {
	Code    string // Error code (e.g., "CL-CORE-4090")
	Message string // Human-readable message
	Details string // Optional additional details
	Cause   error  // Underlying error (if any)
}

// Error implements the error interface.
func (e *DomainError) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Unwrap() support.
func (e *DomainError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is a DomainError with the same code.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new DomainError with the given code and message.
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WithDetails returns a copy of the error with additional details.
func (e *DomainError) WithDetails(details string) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
		Cause:   e.Cause,
	}
}

// WithCause returns a copy of the error wrapping the given cause.
func (e *DomainError) WithCause(cause error) *DomainError {
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
		Cause:   cause,
	}
}

// GetErrorCode returns the code of the first DomainError in err's chain, or
// "" when there is none.
func GetErrorCode(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// Core lifecycle errors.
var (
	// ErrCoreAlreadyRunning indicates a start was requested while a core runs.
	ErrCoreAlreadyRunning = NewDomainError("CL-CORE-4090", "already running")

	// ErrCoreNotRunning indicates a stop or restart with no running core.
	ErrCoreNotRunning = NewDomainError("CL-CORE-4091", "core is not running")

	// ErrCoreBusy indicates the core is in the middle of a transition.
	ErrCoreBusy = NewDomainError("CL-CORE-4092", "core is busy")

	// ErrUnknownCoreType indicates the requested core variant is not supported.
	ErrUnknownCoreType = NewDomainError("CL-CORE-4001", "unknown core type")

	// ErrCoreBinaryNotFound indicates the core executable could not be located.
	ErrCoreBinaryNotFound = NewDomainError("CL-CORE-4040", "core binary not found")

	// ErrConfigFileNotFound indicates the core configuration file is missing.
	ErrConfigFileNotFound = NewDomainError("CL-CORE-4041", "config file not found")

	// ErrCoreSpawnFailed indicates the operating system refused to launch the core.
	ErrCoreSpawnFailed = NewDomainError("CL-CORE-5000", "failed to spawn core")

	// ErrCoreStopFailed indicates the core could not be terminated.
	ErrCoreStopFailed = NewDomainError("CL-CORE-5001", "failed to stop core")
)

// Request errors.
var (
	// ErrBadRequest indicates a malformed request.
	ErrBadRequest = NewDomainError("CL-ARG-4000", "bad request")

	// ErrRateLimited indicates too many requests on one connection.
	ErrRateLimited = NewDomainError("CL-ARG-4290", "too many requests")

	// ErrInternal indicates an unexpected internal failure.
	ErrInternal = NewDomainError("CL-SYS-5000", "internal error")
)
