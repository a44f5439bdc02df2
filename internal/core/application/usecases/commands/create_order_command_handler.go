package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// CreateOrderCommandHandler handles the business logic for order creation.
// Verifies the customer exists, builds the aggregate with its computed total,
// persists it, and announces it with an OrderCreated event.
//
// The event is published only after the durable write: a failed store write
// must never produce a phantom "created" notification for an order that does
// not exist. A failed publish after the commit is logged and swallowed — the
// persisted order is the source of truth and the sink is at-least-once with
// idempotent consumers.
type CreateOrderCommandHandler struct {
	orderRepo    ports.OrderRepository
	customerRepo ports.CustomerRepository
	publisher    ports.EventPublisher
	logger       *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for order creation operations.
func NewCreateOrderCommandHandler(
	orderRepo ports.OrderRepository,
	customerRepo ports.CustomerRepository,
	publisher ports.EventPublisher,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		publisher:    publisher,
		logger:       logger.With("component", "create_order_handler"),
	}
}

// Handle processes the order creation command and returns the new order's
// identifier. The identifier is time-ordered so order rows cluster by recency.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	if _, err := h.customerRepo.Get(ctx, cmd.CustomerID()); err != nil {
		return kernel.UUID{}, err
	}

	orderID := kernel.NewTimeOrderedUUID()
	aggregate, err := order.NewOrder(orderID, cmd.TenantID(), cmd.CustomerID(), cmd.Items(), time.Now().UTC())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.orderRepo.Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	if err = h.publisher.Publish(ctx, events.NewOrderCreated(aggregate)); err != nil {
		h.logger.ErrorContext(ctx, "order created event publish failed",
			"orderId", orderID.String(), "error", err)
	}

	return orderID, nil
}
