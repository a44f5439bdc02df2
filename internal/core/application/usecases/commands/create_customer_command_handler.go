package commands

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
)

// CreateCustomerCommandHandler handles customer registration. Customers are
// immutable after creation and no event is published for them; order events
// carry the customer identifier for downstream consumers.
type CreateCustomerCommandHandler struct {
	customerRepo ports.CustomerRepository
}

// NewCreateCustomerCommandHandler creates a handler for customer registration.
func NewCreateCustomerCommandHandler(customerRepo ports.CustomerRepository) CreateCustomerCommandHandler {
	return CreateCustomerCommandHandler{customerRepo: customerRepo}
}

// Handle processes the customer registration command and returns the new
// customer's identifier.
func (h *CreateCustomerCommandHandler) Handle(ctx context.Context, cmd CreateCustomerCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	customerID := kernel.NewUUID()
	aggregate, err := customer.NewCustomer(
		customerID, cmd.TenantID(), cmd.Name(), cmd.Email(), cmd.Phone(), cmd.Address(), time.Now().UTC())
	if err != nil {
		return kernel.UUID{}, err
	}

	if err = h.customerRepo.Add(ctx, aggregate); err != nil {
		return kernel.UUID{}, err
	}

	return customerID, nil
}
