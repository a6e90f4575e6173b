// Package errors provides centralized error definitions and error handling utilities
// for padlog. It defines the capture pipeline's error taxonomy, semantic error types,
// error constructors with context wrapping, and error classification helpers.
//
// # Error Types
//
// Domain-specific errors represent failures of a pipeline stage:
//   - DeviceError: the controller could not be opened or stopped responding
//   - SessionError: a lifecycle request was invalid for the session's state
//   - SerializationError: the terminal flush could not write the output file
//
// Semantic errors represent common error conditions:
//   - NotFoundError: resource not found
//   - ValidationError: invalid input or configuration
//
// # Usage
//
//	err := errors.NewDeviceError("no joystick found", errors.ErrDeviceUnavailable).
//		WithPath("/dev/input/js0")
//
//	if errors.Is(err, errors.ErrDeviceUnavailable) { ... }
//
//	var serErr *errors.SerializationError
//	if errors.As(err, &serErr) { ... }
//
// # Classification
//
// Every padlog error carries a Severity, used by the logger to pick a level,
// and a user-facing flag, used by the CLI to decide how an error is reported.
// Nothing in the capture core retries, so errors carry no retry hint.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
	// SeverityCritical is for errors that lose or risk losing captured data.
	SeverityCritical
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Capture pipeline sentinel errors
var (
	// ErrDeviceUnavailable indicates that no compatible controller is present.
	ErrDeviceUnavailable = New("device unavailable")
	// ErrReadFailure indicates that the device stopped responding mid-capture.
	ErrReadFailure = New("device read failed")
	// ErrSerializationFailure indicates that records could not be written to disk.
	ErrSerializationFailure = New("serialization failed")
	// ErrConfigLoad indicates that the configuration could not be loaded.
	// It is recovered by falling back to defaults and never reaches the core.
	ErrConfigLoad = New("config load failed")
)

// General sentinel errors
var (
	// ErrInvalidState indicates a lifecycle request that the current state does not allow.
	ErrInvalidState = New("invalid session state")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrNotFound indicates that a resource could not be found.
	ErrNotFound = New("not found")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// PadlogError is the base interface for all padlog errors.
type PadlogError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// format renders "<kind> [k=v, ...]: message: cause".
func (e *baseError) format(kind string, parts []string) string {
	prefix := kind
	if len(parts) > 0 {
		prefix = fmt.Sprintf("%s [%s]", kind, strings.Join(parts, ", "))
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// DeviceError represents errors opening or reading a controller.
//
// Example:
//
//	err := errors.NewDeviceError("joystick vanished", errors.ErrReadFailure).WithPath("/dev/input/js0")
//	fmt.Println(err) // "device error [path=/dev/input/js0]: joystick vanished: device read failed"
type DeviceError struct {
	baseError
	Path string
}

// NewDeviceError creates a new DeviceError.
func NewDeviceError(message string, cause error) *DeviceError {
	return &DeviceError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPath adds the device node path to the error context.
func (e *DeviceError) WithPath(path string) *DeviceError {
	e.Path = path
	return e
}

// WithSeverity sets the error severity.
func (e *DeviceError) WithSeverity(s Severity) *DeviceError {
	e.severity = s
	return e
}

// Error returns the formatted error message.
func (e *DeviceError) Error() string {
	var parts []string
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	return e.format("device error", parts)
}

// SessionError represents invalid lifecycle requests against a capture session.
type SessionError struct {
	baseError
	SessionID string
	State     string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithSessionID adds a session ID to the error context.
func (e *SessionError) WithSessionID(id string) *SessionError {
	e.SessionID = id
	return e
}

// WithState adds the session state observed when the error occurred.
func (e *SessionError) WithState(state string) *SessionError {
	e.State = state
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	var parts []string
	if e.SessionID != "" {
		parts = append(parts, fmt.Sprintf("session=%s", e.SessionID))
	}
	if e.State != "" {
		parts = append(parts, fmt.Sprintf("state=%s", e.State))
	}
	return e.format("session error", parts)
}

// SerializationError represents a failed terminal flush.
type SerializationError struct {
	baseError
	Path    string
	Format  string
	Records int
}

// NewSerializationError creates a new SerializationError. The cause is joined
// with ErrSerializationFailure so that errors.Is matches the sentinel and the
// underlying I/O error alike.
func NewSerializationError(message string, cause error) *SerializationError {
	if cause == nil {
		cause = ErrSerializationFailure
	} else if !Is(cause, ErrSerializationFailure) {
		cause = Join(ErrSerializationFailure, cause)
	}
	return &SerializationError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityCritical,
			userFacing: true,
		},
	}
}

// WithPath adds the output path to the error context.
func (e *SerializationError) WithPath(path string) *SerializationError {
	e.Path = path
	return e
}

// WithFormat adds the output format to the error context.
func (e *SerializationError) WithFormat(format string) *SerializationError {
	e.Format = format
	return e
}

// WithRecords records how many records the failed write held.
func (e *SerializationError) WithRecords(n int) *SerializationError {
	e.Records = n
	return e
}

// Error returns the formatted error message.
func (e *SerializationError) Error() string {
	var parts []string
	if e.Format != "" {
		parts = append(parts, fmt.Sprintf("format=%s", e.Format))
	}
	if e.Path != "" {
		parts = append(parts, fmt.Sprintf("path=%s", e.Path))
	}
	if e.Records > 0 {
		parts = append(parts, fmt.Sprintf("records=%d", e.Records))
	}
	return e.format("serialization error", parts)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError indicates that a named resource does not exist.
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s not found: %s", resourceType, resourceID),
			cause:      ErrNotFound,
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return e.message
}

// ValidationError indicates invalid input or configuration.
type ValidationError struct {
	baseError
	Field string
	Value any
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			cause:      ErrInvalidInput,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField sets the offending field name.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// WithValue sets the offending value.
func (e *ValidationError) WithValue(value any) *ValidationError {
	e.Value = value
	return e
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation error: %s", e.message)
	}
	if e.Value != nil {
		return fmt.Sprintf("validation error [%s]: %s (got: %v)", e.Field, e.message, e.Value)
	}
	return fmt.Sprintf("validation error [%s]: %s", e.Field, e.message)
}

// -----------------------------------------------------------------------------
// Classification
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end users.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	var padErr PadlogError
	if As(err, &padErr) {
		return padErr.IsUserFacing()
	}
	return false
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement PadlogError. For
// joined errors it returns the highest severity among them.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		highest := SeverityDebug
		for _, e := range joined.Unwrap() {
			highest = max(highest, GetSeverity(e))
		}
		return highest
	}
	var padErr PadlogError
	if As(err, &padErr) {
		return padErr.Severity()
	}
	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
