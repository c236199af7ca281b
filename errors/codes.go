package errors

// ErrorCode classifies a failure so callers can branch on it without
// parsing messages.
type ErrorCode string

// Pipeline composition errors (programmer errors, never retryable)
const (
	// ErrCodeInvalidComposition indicates two pipes were connected in a
	// combination the role table does not allow.
	ErrCodeInvalidComposition ErrorCode = "INVALID_COMPOSITION"
	// ErrCodeInvalidRunState indicates a pipeline still produced output
	// when it was driven to completion.
	ErrCodeInvalidRunState ErrorCode = "INVALID_RUN_STATE"
	// ErrCodeCycle indicates a pipeline definition references itself,
	// directly or through other definitions.
	ErrCodeCycle ErrorCode = "PIPELINE_CYCLE"
)

// Broker and store availability errors (retryable)
const (
	// ErrCodeUnavailable means a backing service cannot serve right now.
	ErrCodeUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed means a connection to a backing service
	// could not be established.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout means an operation ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
)

// Resource errors
const (
	// ErrCodeNotFound means the named resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists means the name is already taken.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Validation errors
const (
	// ErrCodeInvalidInput rejects input that fails a semantic check.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField rejects input lacking a required field.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
	// ErrCodeInvalidFormat rejects a field whose shape is wrong.
	ErrCodeInvalidFormat ErrorCode = "INVALID_FORMAT"
)

// Internal errors
const (
	// ErrCodeInternal covers failures with no better classification.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeUnavailable:      true,
	ErrCodeConnectionFailed: true,
	ErrCodeTimeout:          true,
	ErrCodeInternal:         false,
}

// IsRetryableCode reports whether errors with this code are worth
// another attempt.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
