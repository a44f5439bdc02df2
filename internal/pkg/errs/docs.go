// Package errs provides standardized error types for the fulfillment application.
// It implements a consistent pattern for error creation, formatting, and unwrapping
// that is used throughout the application.
//
// The package includes error types for common scenarios:
//   - ValueIsRequiredError: for when a required value is missing
//   - ValueIsInvalidError: for when a value is invalid
//   - ObjectNotFoundError: for when an object cannot be found
//   - StageOutOfOrderError: for stage transitions that violate the fulfillment sequence
//   - ConcurrentModificationError: for conditional writes that lost a race
//   - StorageUnavailableError / EventSinkUnavailableError: for infrastructure failures
//
// Each error type follows a consistent pattern:
//   - A sentinel error variable (e.g. ErrValueIsRequired)
//   - A struct type with fields for error details
//   - Constructor functions with and without cause
//   - Error() method for formatting the error message
//   - Unwrap() method for error wrapping/unwrapping support
//
// Retryability is an explicit property of the error value rather than something
// inferred from its type name: errors that are safe to retry implement
// Retryable() bool, and IsRetryable walks the wrap chain to answer the
// retry-vs-abort question for callers and drivers.
package errs
