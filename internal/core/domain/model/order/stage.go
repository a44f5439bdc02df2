package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Stage represents one step in the fixed fulfillment sequence of an order.
// It implements a strictly linear state machine: each stage has exactly one
// successor and transitions never move backwards or skip ahead.
//
// Stage sequence:
//
//	Created -> Cooking -> Packaging -> Delivery -> Delivered
//
// Stage is a value object. Its string form is the uppercase wire name used in
// ledger records, persisted rows, and published events.
type Stage int

const (
	// StageUnknown represents an invalid or undefined stage.
	// This value (0) helps catch uninitialized Stage values.
	StageUnknown Stage = iota

	// StageCreated is the initial stage set at order creation.
	// It is never a transition target; fulfillment begins with Cooking.
	StageCreated

	// StageCooking is the first fulfillment stage.
	StageCooking

	// StagePackaging follows Cooking.
	StagePackaging

	// StageDelivery follows Packaging; the order is on its way.
	StageDelivery

	// StageDelivered is the terminal stage. No transition leaves it.
	StageDelivered
)

// getStageStrings returns a map of Stage values to their wire names.
// All stages are included for string conversion.
func getStageStrings() map[Stage]string {
	return map[Stage]string{
		StageUnknown:   "UNKNOWN",
		StageCreated:   "CREATED",
		StageCooking:   "COOKING",
		StagePackaging: "PACKAGING",
		StageDelivery:  "DELIVERY",
		StageDelivered: "DELIVERED",
	}
}

// getValidStageStrings returns a map of only valid Stage values.
// Only valid stages are included to support validation and parsing.
func getValidStageStrings() map[Stage]string {
	//nolint:exhaustive // StageUnknown is intentionally excluded as it's invalid
	return map[Stage]string{
		StageCreated:   "CREATED",
		StageCooking:   "COOKING",
		StagePackaging: "PACKAGING",
		StageDelivery:  "DELIVERY",
		StageDelivered: "DELIVERED",
	}
}

// StageFromString parses a wire name such as "COOKING" into a Stage.
// Returns an error for names outside the fulfillment sequence.
func StageFromString(s string) (Stage, error) {
	for stage, name := range getValidStageStrings() {
		if name == s {
			return stage, nil
		}
	}
	return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
		"stage",
		fmt.Errorf("%q is not a valid stage", s),
	)
}

// Validate checks if the Stage value is part of the fulfillment sequence.
// StageUnknown (0) and any other values are invalid.
func (s Stage) Validate() error {
	if _, ok := getValidStageStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%d is not a valid stage", s),
		)
	}
	return nil
}

// String returns the uppercase wire name of the stage.
// Returns "UNKNOWN" for invalid stage values. Implements fmt.Stringer.
func (s Stage) String() string {
	if str, ok := getStageStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsFinal reports whether the stage is the terminal Delivered stage.
func (s Stage) IsFinal() bool {
	return s == StageDelivered
}

// Next returns the immediate successor in the fulfillment sequence.
//
// Returns an error when called on Delivered (terminal) or on an invalid stage.
func (s Stage) Next() (Stage, error) {
	if err := s.Validate(); err != nil {
		return StageUnknown, err
	}

	if s.IsFinal() {
		return StageUnknown, errs.NewValueIsInvalidErrorWithCause(
			"stage",
			fmt.Errorf("%s is terminal and has no next stage", s.String()),
		)
	}

	return s + 1, nil
}

// IsSuccessorOf reports whether s is the immediate successor of prev.
// This is the only legal forward move for a stage transition.
func (s Stage) IsSuccessorOf(prev Stage) bool {
	next, err := prev.Next()
	if err != nil {
		return false
	}
	return s == next
}
