package order

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// the NewOrder or RestoreOrder factory methods. This ensures all orders are properly validated.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder or RestoreOrder")

	// ErrItemsAreRequired is returned when an order is created without line items.
	ErrItemsAreRequired = errors.New("order must contain at least one item")
)

// Order represents a customer order moving through fulfillment. It is the
// aggregate root that owns the current stage, and its stage only ever moves
// forward through AdvanceTo.
//
// Order follows these invariants:
//   - Must have a valid unique identifier, tenant, and customer
//   - Must contain at least one validated line item
//   - Total equals the sum of quantity x unit price over its items
//   - The current stage is monotonically non-decreasing
//   - Status is always derived from the current stage
//   - Can only be created through NewOrder or RestoreOrder
//
// The struct uses private fields to ensure encapsulation and maintains its
// invariants through validated methods.
type Order struct {
	// id is the unique identifier for the order
	id kernel.UUID

	// tenantID namespaces the order within its tenant
	tenantID string

	// customerID references the customer who placed the order
	customerID kernel.UUID

	// status is the coarse lifecycle state, derived from currentStage
	status Status

	// currentStage is the order's position in the fulfillment sequence
	currentStage Stage

	// items are the order lines; never empty
	items []Item

	// total is the fixed-point sum of all line subtotals
	total kernel.Money

	// createdAt is the creation timestamp
	createdAt time.Time

	// isConstructed ensures the order was created via a factory method
	isConstructed bool
}

// NewOrder creates a new Order with validation. The order starts at the
// Created stage with status CREATED, and its total is computed from the items.
//
// Example:
//
//	orderID := kernel.NewTimeOrderedUUID()
//	item, _ := order.NewItem("p1", 2, price)
//	o, err := order.NewOrder(orderID, "pardos", customerID, []order.Item{item}, time.Now().UTC())
//	if err != nil {
//	    // handle validation error
//	}
func NewOrder(
	id kernel.UUID,
	tenantID string,
	customerID kernel.UUID,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	o := &Order{
		currentStage:  StageCreated,
		status:        StatusCreated,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setTenantID(tenantID),
		o.setCustomerID(customerID),
		o.setItems(items),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// RestoreOrder reconstructs an Order from persisted state. Unlike NewOrder it
// accepts any valid stage, and it recomputes the derived status so a row with
// an inconsistent status column cannot resurrect an invalid aggregate.
func RestoreOrder(
	id kernel.UUID,
	tenantID string,
	customerID kernel.UUID,
	stage Stage,
	items []Item,
	createdAt time.Time,
) (*Order, error) {
	if err := stage.Validate(); err != nil {
		return nil, err
	}

	o, err := NewOrder(id, tenantID, customerID, items, createdAt)
	if err != nil {
		return nil, err
	}

	o.currentStage = stage
	o.status = StatusFor(stage)
	return o, nil
}

// Validate ensures the Order instance was properly constructed through a
// factory method. This prevents bypassing validation by directly
// instantiating the struct.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}

	return nil
}

// IsEqual compares two orders by their unique identifiers.
func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

// ID returns the order's unique identifier.
func (o *Order) ID() kernel.UUID {
	return o.id
}

// TenantID returns the tenant the order belongs to.
func (o *Order) TenantID() string {
	return o.tenantID
}

// CustomerID returns the identifier of the ordering customer.
func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Status returns the coarse lifecycle status of the order.
func (o *Order) Status() Status {
	return o.status
}

// CurrentStage returns the order's position in the fulfillment sequence.
func (o *Order) CurrentStage() Stage {
	return o.currentStage
}

// Items returns a copy of the order lines.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

// Total returns the fixed-point order total.
func (o *Order) Total() kernel.Money {
	return o.total
}

// CreatedAt returns the creation timestamp.
func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

// IsDelivered reports whether the order has reached the terminal stage.
func (o *Order) IsDelivered() bool {
	return o.currentStage.IsFinal()
}

// AdvanceTo moves the order to the target stage. This is the only stage
// mutator on the aggregate.
//
// Business rules enforced:
//   - target must be a valid stage
//   - target must be the immediate successor of the current stage
//   - status is re-derived from the new stage
//
// A violation returns a StageOutOfOrderError and leaves the order unmodified.
// Idempotent handling of a target equal to the current stage is the
// orchestrator's responsibility; the aggregate itself only moves forward.
func (o *Order) AdvanceTo(target Stage) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if !target.IsSuccessorOf(o.currentStage) {
		return errs.NewStageOutOfOrderError(o.id.String(), o.currentStage.String(), target.String())
	}

	o.currentStage = target
	o.status = StatusFor(target)
	return nil
}

// setID validates and sets the order's unique identifier.
// This is a private method used only during construction.
func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

// setTenantID validates and sets the owning tenant.
func (o *Order) setTenantID(tenantID string) error {
	if tenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}
	o.tenantID = tenantID
	return nil
}

// setCustomerID validates and sets the ordering customer.
func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return err
	}
	o.customerID = customerID
	return nil
}

// setItems validates the lines and computes the order total.
func (o *Order) setItems(items []Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}

	total := kernel.ZeroMoney()
	for _, item := range items {
		// Zero-value items bypass NewItem; reject them here.
		if item.productID == "" {
			return errs.NewValueIsRequiredError("productId")
		}
		total = total.Add(item.Subtotal())
	}

	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.total = total
	return nil
}
