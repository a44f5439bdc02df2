package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
)

// CreateOrderCommand represents a request to create a new order for a
// customer. Line items arrive already validated as domain values; the
// float-to-decimal conversion happens at the transport boundary, before the
// command is built.
//
// Example:
//
//	item, _ := order.NewItem("p1", 2, price)
//	cmd, err := NewCreateOrderCommand(customerID, "pardos", []order.Item{item})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID kernel.UUID
	tenantID   string
	items      []order.Item

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand creates a command to register a new order.
// Validates that the customer ID is valid, the tenant is set, and at least
// one item is present. Returns an error if any validation fails.
func NewCreateOrderCommand(customerID kernel.UUID, tenantID string, items []order.Item) (CreateOrderCommand, error) {
	orderCommand := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		orderCommand.setCustomerID(customerID),
		orderCommand.setTenantID(tenantID),
		orderCommand.setItems(items),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return orderCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrCreateOrderCommandIsNotConstructed if validation fails.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// CustomerID returns the identifier of the ordering customer.
func (c CreateOrderCommand) CustomerID() kernel.UUID {
	return c.customerID
}

// TenantID returns the tenant the order belongs to.
func (c CreateOrderCommand) TenantID() string {
	return c.tenantID
}

// Items returns the validated order lines.
func (c CreateOrderCommand) Items() []order.Item {
	return c.items
}

func (c *CreateOrderCommand) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}

	c.customerID = customerID
	return nil
}

func (c *CreateOrderCommand) setTenantID(tenantID string) error {
	if tenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}

	c.tenantID = tenantID
	return nil
}

func (c *CreateOrderCommand) setItems(items []order.Item) error {
	if len(items) == 0 {
		return order.ErrItemsAreRequired
	}

	c.items = items
	return nil
}
