package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
)

// CustomerRepository defines the persistence contract for customers.
type CustomerRepository interface {
	// Add persists a new customer. Customers are immutable after creation.
	Add(ctx context.Context, aggregate *customer.Customer) error

	// Get retrieves a customer by its unique identifier.
	// Returns ObjectNotFoundError when no such customer exists.
	Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error)
}
