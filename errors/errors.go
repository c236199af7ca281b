// Package errors provides unified error handling for the flume toolkit.
// It implements structured error types with machine-readable codes and
// retryable detection, shared by the pipeline engine and its adapters.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Error is the unified toolkit error type.
type Error struct {
	// Code classifies the failure for programmatic handling.
	Code ErrorCode `json:"code"`
	// Message describes the failure for humans.
	Message string `json:"message"`
	// Retryable marks failures worth another attempt.
	Retryable bool `json:"retryable"`
	// Details carries structured context, such as the field or
	// service involved.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the wrapped underlying error, if any.
	Cause error `json:"-"`
}

// Error formats as "CODE: message", appending the cause when present.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap exposes the cause to errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Cause }

// WithCause attaches the underlying error and returns the receiver
// for chaining.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// WithDetails merges the given entries into Details.
func (e *Error) WithDetails(details map[string]any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail records one detail entry.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new Error with automatic retryable detection.
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// IsRetryable reports whether err carries a retryable toolkit error.
// Non-toolkit errors are not retryable.
func IsRetryable(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Retryable
	}
	return false
}

// CodeOf returns the toolkit error code carried by err, or the empty
// code if err is not a toolkit error.
func CodeOf(err error) ErrorCode {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Code
	}
	return ""
}

// --- Constructors used across the toolkit ---

// InvalidComposition creates a new Error for a pipe pairing outside the
// role table. The operand descriptions identify both sides of the
// rejected connection.
func InvalidComposition(upstream, downstream string) *Error {
	return &Error{
		Code:    ErrCodeInvalidComposition,
		Message: fmt.Sprintf("cannot connect %s to %s", upstream, downstream),
		Details: map[string]any{"upstream": upstream, "downstream": downstream},
	}
}

// InvalidRunState creates a new Error for a pipeline that produced
// output while being driven to completion.
func InvalidRunState(state string) *Error {
	return &Error{
		Code:    ErrCodeInvalidRunState,
		Message: fmt.Sprintf("pipeline still in state %s when driven to completion", state),
		Details: map[string]any{"state": state},
	}
}

// Cycle creates a new Error for a cyclic pipeline definition.
func Cycle(path []string) *Error {
	return &Error{
		Code:    ErrCodeCycle,
		Message: "pipeline definitions reference each other in a cycle",
		Details: map[string]any{"path": path},
	}
}

// Unavailable creates a new Error for a service that is temporarily unavailable.
func Unavailable(service string) *Error {
	return &Error{
		Code: ErrCodeUnavailable, Message: fmt.Sprintf("the %s service is temporarily unavailable", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// ConnectionFailed creates a new Error for a failed connection to a service.
func ConnectionFailed(service string) *Error {
	return &Error{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("unable to connect to %s", service),
		Retryable: true,
		Details:   map[string]any{"service": service},
	}
}

// Timeout creates a new Error for an operation that timed out.
func Timeout(operation string) *Error {
	return &Error{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s took too long", operation),
		Retryable: true,
		Details:   map[string]any{"operation": operation},
	}
}

// NotFound creates a new Error for a resource that was not found.
func NotFound(resource, name string) *Error {
	details := map[string]any{"resource": resource}
	if name != "" {
		details["name"] = name
	}
	return &Error{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("the requested %s was not found", resource),
		Retryable: false, Details: details,
	}
}

// AlreadyExists creates a new Error for a resource that already exists.
func AlreadyExists(resource string) *Error {
	return &Error{
		Code: ErrCodeAlreadyExists, Message: fmt.Sprintf("a %s with this name already exists", resource),
		Retryable: false,
		Details:   map[string]any{"resource": resource},
	}
}

// InvalidInput creates a new Error for invalid input.
func InvalidInput(field, reason string) *Error {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &Error{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("invalid input: %s", reason),
		Retryable: false, Details: details,
	}
}

// Validation creates a new Error for validation errors.
func Validation(message string) *Error {
	return &Error{
		Code: ErrCodeInvalidInput, Message: message,
		Retryable: false,
	}
}

// MissingField creates a new Error for a missing required field.
func MissingField(field string) *Error {
	return &Error{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("missing required field: %s", field),
		Retryable: false,
		Details:   map[string]any{"field": field},
	}
}

// InvalidFormat creates a new Error for an invalid field format.
func InvalidFormat(field, expectedFormat string) *Error {
	return &Error{
		Code: ErrCodeInvalidFormat, Message: fmt.Sprintf("invalid format for %s, expected %s", field, expectedFormat),
		Retryable: false,
		Details:   map[string]any{"field": field, "expected_format": expectedFormat},
	}
}

// Internal creates a new Error for an unexpected internal error.
func Internal(cause error) *Error {
	return &Error{
		Code: ErrCodeInternal, Message: "an unexpected error occurred",
		Retryable: false, Cause: cause,
	}
}
