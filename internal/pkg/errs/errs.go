package errs

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors used as the unwrap targets for the typed errors below.
// Callers classify failures with errors.Is against these values.
var (
	ErrValueIsRequired        = errors.New("value is required")
	ErrValueIsInvalid         = errors.New("value is invalid")
	ErrObjectNotFound         = errors.New("object not found")
	ErrStageOutOfOrder        = errors.New("stage out of order")
	ErrConcurrentModification = errors.New("concurrent modification")
	ErrStorageUnavailable     = errors.New("storage unavailable")
	ErrEventSinkUnavailable   = errors.New("event sink unavailable")
)

// retryable is implemented by error types that a caller may safely retry.
type retryable interface {
	Retryable() bool
}

// IsRetryable reports whether err (or any error it wraps) is safe to retry.
// Concurrent modification and infrastructure unavailability are retryable;
// validation failures, missing objects and sequencing violations are not.
func IsRetryable(err error) bool {
	for err != nil {
		if r, ok := err.(retryable); ok {
			return r.Retryable()
		}
		err = errors.Unwrap(err)
	}
	return false
}

// sanitize collapses newlines so formatted parameter values cannot
// break log lines.
func sanitize(s string) string {
	return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "\r", " ")
}

// ValueIsRequiredError indicates a required value was not provided.
type ValueIsRequiredError struct {
	ParamName string
	Cause     error
}

// NewValueIsRequiredError creates a ValueIsRequiredError for the named parameter.
func NewValueIsRequiredError(paramName string) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName}
}

// NewValueIsRequiredErrorWithCause creates a ValueIsRequiredError wrapping an underlying cause.
func NewValueIsRequiredErrorWithCause(paramName string, cause error) *ValueIsRequiredError {
	return &ValueIsRequiredError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsRequiredError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsRequired, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsRequired, e.ParamName))
}

func (e *ValueIsRequiredError) Unwrap() error {
	return ErrValueIsRequired
}

// ValueIsInvalidError indicates a provided value failed validation.
type ValueIsInvalidError struct {
	ParamName string
	Cause     error
}

// NewValueIsInvalidError creates a ValueIsInvalidError for the named parameter.
func NewValueIsInvalidError(paramName string) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName}
}

// NewValueIsInvalidErrorWithCause creates a ValueIsInvalidError wrapping an underlying cause.
func NewValueIsInvalidErrorWithCause(paramName string, cause error) *ValueIsInvalidError {
	return &ValueIsInvalidError{ParamName: paramName, Cause: cause}
}

func (e *ValueIsInvalidError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrValueIsInvalid, e.ParamName, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrValueIsInvalid, e.ParamName))
}

func (e *ValueIsInvalidError) Unwrap() error {
	return ErrValueIsInvalid
}

// ObjectNotFoundError indicates a lookup by identifier found nothing.
type ObjectNotFoundError struct {
	ParamName string
	ID        any
	Cause     error
}

// NewObjectNotFoundError creates an ObjectNotFoundError for the named parameter and identifier.
func NewObjectNotFoundError(paramName string, id any) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id}
}

// NewObjectNotFoundErrorWithCause creates an ObjectNotFoundError wrapping an underlying cause.
func NewObjectNotFoundErrorWithCause(paramName string, id any, cause error) *ObjectNotFoundError {
	return &ObjectNotFoundError{ParamName: paramName, ID: id, Cause: cause}
}

func (e *ObjectNotFoundError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s (cause: %s)",
			ErrObjectNotFound, e.ParamName, e.ID, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrObjectNotFound, e.ID))
}

func (e *ObjectNotFoundError) Unwrap() error {
	return ErrObjectNotFound
}

// StageOutOfOrderError indicates a requested stage transition violates the
// linear stage sequence. It signals a sequencing bug in the driver and is
// never retryable: retrying the same call would fail the same way.
type StageOutOfOrderError struct {
	OrderID      string
	CurrentStage string
	TargetStage  string
}

// NewStageOutOfOrderError creates a StageOutOfOrderError describing the
// rejected transition.
func NewStageOutOfOrderError(orderID, currentStage, targetStage string) *StageOutOfOrderError {
	return &StageOutOfOrderError{
		OrderID:      orderID,
		CurrentStage: currentStage,
		TargetStage:  targetStage,
	}
}

func (e *StageOutOfOrderError) Error() string {
	return sanitize(fmt.Sprintf("%s: order %s is at %s, cannot move to %s",
		ErrStageOutOfOrder, e.OrderID, e.CurrentStage, e.TargetStage))
}

func (e *StageOutOfOrderError) Unwrap() error {
	return ErrStageOutOfOrder
}

func (e *StageOutOfOrderError) Retryable() bool {
	return false
}

// ConcurrentModificationError indicates a conditional write lost a race with
// another writer. The caller should re-read and retry immediately.
type ConcurrentModificationError struct {
	ParamName string
	ID        any
}

// NewConcurrentModificationError creates a ConcurrentModificationError for the
// named parameter and identifier.
func NewConcurrentModificationError(paramName string, id any) *ConcurrentModificationError {
	return &ConcurrentModificationError{ParamName: paramName, ID: id}
}

func (e *ConcurrentModificationError) Error() string {
	return sanitize(fmt.Sprintf("%s: param is: %s, ID is: %s", ErrConcurrentModification, e.ParamName, e.ID))
}

func (e *ConcurrentModificationError) Unwrap() error {
	return ErrConcurrentModification
}

func (e *ConcurrentModificationError) Retryable() bool {
	return true
}

// StorageUnavailableError indicates the record store could not serve a request.
// Conditional and idempotent writes make retries safe, so the caller may retry
// with backoff.
type StorageUnavailableError struct {
	Op    string
	Cause error
}

// NewStorageUnavailableError creates a StorageUnavailableError wrapping the
// store failure for the named operation.
func NewStorageUnavailableError(op string, cause error) *StorageUnavailableError {
	return &StorageUnavailableError{Op: op, Cause: cause}
}

func (e *StorageUnavailableError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrStorageUnavailable, e.Op, e.Cause))
}

func (e *StorageUnavailableError) Unwrap() error {
	return ErrStorageUnavailable
}

func (e *StorageUnavailableError) Retryable() bool {
	return true
}

// EventSinkUnavailableError indicates event publication failed. The committed
// state transition is the source of truth, so this is reported, not rolled back.
type EventSinkUnavailableError struct {
	EventType string
	Cause     error
}

// NewEventSinkUnavailableError creates an EventSinkUnavailableError for the
// named event type.
func NewEventSinkUnavailableError(eventType string, cause error) *EventSinkUnavailableError {
	return &EventSinkUnavailableError{EventType: eventType, Cause: cause}
}

func (e *EventSinkUnavailableError) Error() string {
	return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrEventSinkUnavailable, e.EventType, e.Cause))
}

func (e *EventSinkUnavailableError) Unwrap() error {
	return ErrEventSinkUnavailable
}

func (e *EventSinkUnavailableError) Retryable() bool {
	return true
}
