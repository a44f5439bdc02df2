package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrGetCustomerQueryIsNotConstructed = errors.New(
		"GetCustomerQuery must be created via NewGetCustomerQuery constructor",
	)
)

// GetCustomerQuery retrieves a single customer by identifier.
//
// Example:
//
//	query, err := NewGetCustomerQuery(customerID)
//	if err != nil {
//	    return err
//	}
//
//	customer, err := handler.Handle(ctx, query)
type GetCustomerQuery struct {
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

// NewGetCustomerQuery creates a query for one customer.
// Returns an error when the identifier is invalid.
func NewGetCustomerQuery(customerID kernel.UUID) (GetCustomerQuery, error) {
	if err := customerID.Validate(); err != nil {
		return GetCustomerQuery{}, err
	}

	return GetCustomerQuery{
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the query was created through the constructor.
func (q GetCustomerQuery) Validate() error {
	return q.guard.Validate(ErrGetCustomerQueryIsNotConstructed)
}

// CustomerID returns the identifier being looked up.
func (q GetCustomerQuery) CustomerID() kernel.UUID {
	return q.customerID
}

// GetCustomerQueryResponse is the customer read model.
type GetCustomerQueryResponse struct {
	ID        kernel.UUID
	TenantID  string
	Name      string
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
}
