// Package errors provides the coded error type shared by every adbkit package.
// Errors carry a category, the failing operation and an optional cause, and
// work with the standard errors.Is and errors.As helpers.
package errors

import (
	"errors"
	"fmt"
)

// Code represents error categories for classifying different types of failures.
type Code int

const (
	// Unknown indicates an unclassified error.
	Unknown Code = iota
	// Spawn indicates the OS refused to create a process.
	Spawn
	// IO indicates a stream or wait operation failed at the OS level.
	IO
	// Command indicates a process ran and exited with a failure status.
	Command
	// Timeout indicates an operation exceeded its time limit.
	Timeout
	// Cancelled indicates an operation was cancelled by the caller.
	Cancelled
	// PipeContract indicates two commands were chained without a piped stdout.
	PipeContract
	// Configuration indicates a configuration error.
	Configuration
	// Validation indicates invalid input.
	Validation
	// NotFound indicates a required resource was not found.
	NotFound
	// Connection indicates a device could not be reached.
	Connection
	// Parse indicates tool output could not be understood.
	Parse
	// Unsupported indicates an unsupported operation or platform.
	Unsupported
)

// String returns the string representation of the error code.
func (c Code) String() string {
	switch c {
	case Unknown:
		return "Unknown"
	case Spawn:
		return "Spawn"
	case IO:
		return "IO"
	case Command:
		return "Command"
	case Timeout:
		return "Timeout"
	case Cancelled:
		return "Cancelled"
	case PipeContract:
		return "PipeContract"
	case Configuration:
		return "Configuration"
	case Validation:
		return "Validation"
	case NotFound:
		return "NotFound"
	case Connection:
		return "Connection"
	case Parse:
		return "Parse"
	case Unsupported:
		return "Unsupported"
	default:
		return fmt.Sprintf("Code(%d)", c)
	}
}

// Error is a structured error with code, message, operation and cause.
type Error struct {
	Code    Code   // Error category
	Message string // Human-readable error message
	Op      string // Operation that failed (e.g., "proc.Spawn")
	Cause   error  // Underlying error, if any
}

// New creates a new Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a new Error with a formatted message.
func Newf(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap wraps an existing error with additional context.
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, Cause: cause}
}

// Wrapf wraps an existing error with a formatted message.
func Wrapf(code Code, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// WithOp sets the operation and returns the same error for chaining.
func (e *Error) WithOp(op string) *Error {
	e.Op = op
	return e
}

// Error implements the error interface.
// The format varies based on whether Op and Cause are set:
//   - With Op and Cause: "op: message: cause"
//   - With Op only: "op: message"
//   - With Cause only: "message: cause"
//   - Message only: "message"
func (e *Error) Error() string {
	if e.Op != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %s: %v", e.Op, e.Message, e.Cause)
		}
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// GetCode extracts the error code from an error.
// Returns Unknown if the error is not an *Error type.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Unknown
}

// IsCode checks if an error has a specific code.
func IsCode(err error, code Code) bool {
	return GetCode(err) == code
}

// As is errors.As, re-exported so callers importing this package under the
// name "errors" keep access to it.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Is is errors.Is, re-exported for the same reason as As.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Sentinel errors for common cases.
var (
	// ErrAlreadySpawned indicates a command specification was spawned twice.
	ErrAlreadySpawned = New(Validation, "command already spawned")
	// ErrStdoutNotPiped indicates an upstream command cannot feed a pipe.
	ErrStdoutNotPiped = New(PipeContract, "upstream stdout is not piped")
	// ErrAdbNotFound indicates the adb binary could not be located.
	ErrAdbNotFound = New(NotFound, "adb binary not found")
	// ErrNotConnected indicates the device did not report a connected state.
	ErrNotConnected = New(Connection, "device not connected")
	// ErrTimeout indicates an operation exceeded its allowed time.
	ErrTimeout = New(Timeout, "operation timed out")
	// ErrCancelled indicates an operation was cancelled by the user.
	ErrCancelled = New(Cancelled, "operation cancelled")
)
