package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
// The store is key-addressed with conditional-write support; correctness of
// concurrent stage transitions relies on UpdateStageGuarded, not on locking.
type OrderRepository interface {
	// Add persists a new order aggregate to storage.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns ObjectNotFoundError when no such order exists.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// UpdateStageGuarded persists the aggregate's current stage and status
	// with a conditional write guarded on expectedPriorStage, the stage value
	// read before the transition. Returns ConcurrentModificationError when
	// another writer already advanced the order past expectedPriorStage.
	UpdateStageGuarded(ctx context.Context, aggregate *order.Order, expectedPriorStage order.Stage) error

	// GetByCustomer retrieves all orders placed by a customer.
	// Read-only and eventually consistent.
	GetByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error)
}
