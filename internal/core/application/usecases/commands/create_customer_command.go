package commands

import (
	"errors"

	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateCustomerCommandIsNotConstructed = errors.New(
		"CreateCustomerCommand must be created via NewCreateCustomerCommand constructor",
	)
)

// CreateCustomerCommand represents a request to register a new customer.
// Name and email are required; phone and address are optional contact details.
type CreateCustomerCommand struct { //nolint:recvcheck //using for validation
	tenantID string
	name     string
	email    string
	phone    string
	address  string

	guard guard.ConstructorGuard
}

// NewCreateCustomerCommand creates a command to register a new customer.
// Validates that tenant, name, and email are present.
func NewCreateCustomerCommand(tenantID, name, email, phone, address string) (CreateCustomerCommand, error) {
	customerCommand := CreateCustomerCommand{
		phone:   phone,
		address: address,
		guard:   guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		customerCommand.setTenantID(tenantID),
		customerCommand.setName(name),
		customerCommand.setEmail(email),
	); err != nil {
		return CreateCustomerCommand{}, err
	}

	return customerCommand, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateCustomerCommand) Validate() error {
	return c.guard.Validate(ErrCreateCustomerCommandIsNotConstructed)
}

// TenantID returns the tenant the customer belongs to.
func (c CreateCustomerCommand) TenantID() string {
	return c.tenantID
}

// Name returns the customer's display name.
func (c CreateCustomerCommand) Name() string {
	return c.name
}

// Email returns the customer's contact email.
func (c CreateCustomerCommand) Email() string {
	return c.email
}

// Phone returns the optional contact phone. May be empty.
func (c CreateCustomerCommand) Phone() string {
	return c.phone
}

// Address returns the optional delivery address. May be empty.
func (c CreateCustomerCommand) Address() string {
	return c.address
}

func (c *CreateCustomerCommand) setTenantID(tenantID string) error {
	if tenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}

	c.tenantID = tenantID
	return nil
}

func (c *CreateCustomerCommand) setName(name string) error {
	if name == "" {
		return errs.NewValueIsRequiredError("name")
	}

	c.name = name
	return nil
}

func (c *CreateCustomerCommand) setEmail(email string) error {
	if email == "" {
		return errs.NewValueIsRequiredError("email")
	}

	c.email = email
	return nil
}
