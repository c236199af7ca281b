// Package errors provides unified error handling for the flume toolkit.
// It implements structured error types with machine-readable codes and
// retryable detection.
//
// The pipeline engine reports composition and run-state violations through
// this package; adapters wrap driver failures with connection and timeout
// codes so callers (and the resilience package) can decide whether an
// operation is worth retrying.
package errors
