// Package ledger provides the append-only step ledger entries that record
// each stage of an order's fulfillment. For every (order, stage) pair the
// ledger holds at most one IN_PROGRESS and one DONE record; the DONE record
// is the idempotency checkpoint that makes retried transitions safe.
// Records are never overwritten or deleted.
package ledger

import (
	"errors"
	"fmt"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrStepRecordIsNotConstructed is returned when a StepRecord was not created
// through one of the factory functions.
var ErrStepRecordIsNotConstructed = errors.New(
	"StepRecord must be created via NewInProgressRecord, NewDoneRecord, or RestoreStepRecord")

// StepState is the state of a single ledger record.
type StepState int

const (
	// StepUnknown represents an invalid or undefined step state.
	StepUnknown StepState = iota

	// StepInProgress records that stage work has started.
	StepInProgress

	// StepDone records that stage work completed. Once a DONE record exists
	// for a (order, stage) pair, no further records for that pair are created.
	StepDone
)

// getStepStateStrings returns a map of StepState values to their wire names.
func getStepStateStrings() map[StepState]string {
	return map[StepState]string{
		StepUnknown:    "UNKNOWN",
		StepInProgress: "IN_PROGRESS",
		StepDone:       "DONE",
	}
}

// StepStateFromString parses a wire name such as "DONE" into a StepState.
func StepStateFromString(s string) (StepState, error) {
	switch s {
	case "IN_PROGRESS":
		return StepInProgress, nil
	case "DONE":
		return StepDone, nil
	default:
		return StepUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stepState",
			fmt.Errorf("%q is not a valid step state", s),
		)
	}
}

// Validate checks if the StepState value is valid.
func (s StepState) Validate() error {
	if s != StepInProgress && s != StepDone {
		return errs.NewValueIsInvalidErrorWithCause(
			"stepState",
			fmt.Errorf("%d is not a valid step state", s),
		)
	}
	return nil
}

// String returns the uppercase wire name of the step state.
func (s StepState) String() string {
	if str, ok := getStepStateStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// StepRecord is one append-only ledger entry: an order entered or finished a
// fulfillment stage. Records are keyed by (order, stage, state) and ordered
// by StartedAt for history reconstruction.
type StepRecord struct {
	orderID    kernel.UUID
	stage      order.Stage
	state      StepState
	startedAt  time.Time
	finishedAt *time.Time

	isConstructed bool
}

// NewInProgressRecord creates the record written when stage work starts.
func NewInProgressRecord(orderID kernel.UUID, stage order.Stage, startedAt time.Time) (StepRecord, error) {
	return newStepRecord(orderID, stage, StepInProgress, startedAt, nil)
}

// NewDoneRecord creates the record written when stage work completes.
// startedAt carries over from the IN_PROGRESS phase so history reconstruction
// orders both records together.
func NewDoneRecord(orderID kernel.UUID, stage order.Stage, startedAt, finishedAt time.Time) (StepRecord, error) {
	return newStepRecord(orderID, stage, StepDone, startedAt, &finishedAt)
}

// RestoreStepRecord reconstructs a ledger entry from persisted state.
func RestoreStepRecord(
	orderID kernel.UUID,
	stage order.Stage,
	state StepState,
	startedAt time.Time,
	finishedAt *time.Time,
) (StepRecord, error) {
	return newStepRecord(orderID, stage, state, startedAt, finishedAt)
}

func newStepRecord(
	orderID kernel.UUID,
	stage order.Stage,
	state StepState,
	startedAt time.Time,
	finishedAt *time.Time,
) (StepRecord, error) {
	if err := errors.Join(
		orderID.Validate(),
		stage.Validate(),
		state.Validate(),
	); err != nil {
		return StepRecord{}, err
	}

	if startedAt.IsZero() {
		return StepRecord{}, errs.NewValueIsRequiredError("startedAt")
	}

	if state == StepDone && finishedAt == nil {
		return StepRecord{}, errs.NewValueIsRequiredError("finishedAt")
	}

	return StepRecord{
		orderID:       orderID,
		stage:         stage,
		state:         state,
		startedAt:     startedAt,
		finishedAt:    finishedAt,
		isConstructed: true,
	}, nil
}

// Validate ensures the record was created through a factory function.
func (r StepRecord) Validate() error {
	if !r.isConstructed {
		return ErrStepRecordIsNotConstructed
	}
	return nil
}

// OrderID returns the order the record belongs to.
func (r StepRecord) OrderID() kernel.UUID {
	return r.orderID
}

// Stage returns the fulfillment stage the record describes.
func (r StepRecord) Stage() order.Stage {
	return r.stage
}

// State returns IN_PROGRESS or DONE.
func (r StepRecord) State() StepState {
	return r.state
}

// StartedAt returns when stage work began.
func (r StepRecord) StartedAt() time.Time {
	return r.startedAt
}

// FinishedAt returns when stage work completed, or nil for IN_PROGRESS records.
func (r StepRecord) FinishedAt() *time.Time {
	return r.finishedAt
}

// IsDone reports whether this is the completion record for its stage.
func (r StepRecord) IsDone() bool {
	return r.state == StepDone
}
