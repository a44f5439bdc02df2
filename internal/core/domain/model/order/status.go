package order

import (
	"fmt"

	"fulfillment/internal/pkg/errs"
)

// Status represents the coarse lifecycle state of an order as seen by
// read-side consumers. Unlike Stage, which tracks the exact fulfillment step,
// Status collapses the in-flight stages into a single IN_PROGRESS value.
//
// Status is always derived from the current stage via StatusFor; it is never
// set independently.
type Status int

const (
	// StatusUnknown represents an invalid or undefined status.
	StatusUnknown Status = iota

	// StatusCreated is the status of a freshly created order whose
	// fulfillment has not started.
	StatusCreated

	// StatusInProgress covers every stage between creation and delivery.
	StatusInProgress

	// StatusDelivered is the final status, set when the order reaches
	// the Delivered stage.
	StatusDelivered
)

// getStatusStrings returns a map of Status values to their wire names.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		StatusUnknown:    "UNKNOWN",
		StatusCreated:    "CREATED",
		StatusInProgress: "IN_PROGRESS",
		StatusDelivered:  "DELIVERED",
	}
}

// getValidStatusStrings returns a map of only valid Status values.
func getValidStatusStrings() map[Status]string {
	//nolint:exhaustive // StatusUnknown is intentionally excluded as it's invalid
	return map[Status]string{
		StatusCreated:    "CREATED",
		StatusInProgress: "IN_PROGRESS",
		StatusDelivered:  "DELIVERED",
	}
}

// StatusFor derives the order status from a fulfillment stage.
// Created maps to CREATED, Delivered to DELIVERED, and every stage in
// between to IN_PROGRESS.
func StatusFor(stage Stage) Status {
	switch stage {
	case StageCreated:
		return StatusCreated
	case StageDelivered:
		return StatusDelivered
	case StageCooking, StagePackaging, StageDelivery:
		return StatusInProgress
	default:
		return StatusUnknown
	}
}

// Validate checks if the Status value is valid.
// StatusUnknown (0) and any other values are invalid.
func (s Status) Validate() error {
	if _, ok := getValidStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("%d is not a valid status", s),
		)
	}
	return nil
}

// String returns the uppercase wire name of the status.
// Returns "UNKNOWN" for invalid status values. Implements fmt.Stringer.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}
