package ports

import (
	"context"

	"fulfillment/internal/core/domain/events"
)

// EventPublisher defines the contract for the at-least-once event sink.
// Publication order across events is not guaranteed, and a failed publish
// never rolls back committed state; downstream consumers are expected to be
// idempotent.
type EventPublisher interface {
	// Publish sends one domain event to the sink.
	// Returns EventSinkUnavailableError when the sink cannot accept it.
	Publish(ctx context.Context, event events.DomainEvent) error
}
