package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
		"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
	)
)

// GetOrderHistoryQuery retrieves the step ledger of one order: every
// IN_PROGRESS and DONE record, in start order. This is the audit view of
// what happened to the order and when.
type GetOrderHistoryQuery struct {
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrderHistoryQuery creates a query for an order's step history.
// Returns an error when the identifier is invalid.
func NewGetOrderHistoryQuery(orderID kernel.UUID) (GetOrderHistoryQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetOrderHistoryQuery{}, err
	}

	return GetOrderHistoryQuery{
		orderID: orderID,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

// OrderID returns the order whose history is being read.
func (q GetOrderHistoryQuery) OrderID() kernel.UUID {
	return q.orderID
}

// StepRecordResponse is one ledger row in the read model. FinishedAt is nil
// for IN_PROGRESS rows.
type StepRecordResponse struct {
	Stage      string
	State      string
	StartedAt  time.Time
	FinishedAt *time.Time
}

// GetOrderHistoryQueryResponse is the order history read model.
type GetOrderHistoryQueryResponse struct {
	OrderID      kernel.UUID
	CurrentStage string
	Records      []StepRecordResponse
}
