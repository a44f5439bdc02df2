package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"

	"github.com/shopspring/decimal"
)

var (
	ErrGetOrdersByCustomerQueryIsNotConstructed = errors.New(
		"GetOrdersByCustomerQuery must be created via NewGetOrdersByCustomerQuery constructor",
	)
)

// GetOrdersByCustomerQuery retrieves all orders of one customer, oldest
// first, with their lines.
type GetOrdersByCustomerQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetOrdersByCustomerQuery creates a query for a customer's orders.
// Returns an error when the identifier is invalid.
func NewGetOrdersByCustomerQuery(customerID kernel.UUID) (GetOrdersByCustomerQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetOrdersByCustomerQuery{}, err
	}

	return GetOrdersByCustomerQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetOrdersByCustomerQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersByCustomerQueryIsNotConstructed)
}

// CustomerID returns the customer whose orders are being listed.
func (q GetOrdersByCustomerQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// OrderItemResponse is one order line in the read model. The price stays
// fixed-point; the transport layer decides the wire representation.
type OrderItemResponse struct {
	ProductID string
	Quantity  int
	UnitPrice decimal.Decimal
}

// GetOrdersByCustomerQueryResponse is the order read model.
type GetOrdersByCustomerQueryResponse struct {
	ID           kernel.UUID
	TenantID     string
	CurrentStage string
	Status       string
	Total        decimal.Decimal
	CreatedAt    time.Time
	Items        []OrderItemResponse
}
