// Package customer provides the Customer entity. Customers are created once
// and are immutable in this core; profile updates are out of scope.
package customer

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
)

// ErrCustomerIsNotConstructed is returned when a Customer instance was not created
// through the NewCustomer or RestoreCustomer factory methods.
var ErrCustomerIsNotConstructed = errors.New("Customer must be created via NewCustomer or RestoreCustomer")

// Customer represents a customer who places orders. Identity is the customer
// ID scoped to a tenant. Name and email are required; phone and address are
// optional contact details carried for notification consumers.
type Customer struct {
	id        kernel.UUID
	tenantID  string
	name      string
	email     string
	phone     string
	address   string
	createdAt time.Time

	isConstructed bool
}

// NewCustomer creates a validated Customer.
// Name and email are required; phone and address may be empty.
func NewCustomer(
	id kernel.UUID,
	tenantID string,
	name string,
	email string,
	phone string,
	address string,
	createdAt time.Time,
) (*Customer, error) {
	c := &Customer{
		phone:         phone,
		address:       address,
		createdAt:     createdAt,
		isConstructed: true,
	}

	if err := errors.Join(
		c.setID(id),
		c.setTenantID(tenantID),
		c.setName(name),
		c.setEmail(email),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCustomer reconstructs a Customer from persisted state.
func RestoreCustomer(
	id kernel.UUID,
	tenantID string,
	name string,
	email string,
	phone string,
	address string,
	createdAt time.Time,
) (*Customer, error) {
	return NewCustomer(id, tenantID, name, email, phone, address, createdAt)
}

// Validate ensures the Customer was properly constructed through a factory method.
func (c *Customer) Validate() error {
	if c == nil || !c.isConstructed {
		return ErrCustomerIsNotConstructed
	}
	return nil
}

// ID returns the customer's unique identifier.
func (c *Customer) ID() kernel.UUID {
	return c.id
}

// TenantID returns the tenant the customer belongs to.
func (c *Customer) TenantID() string {
	return c.tenantID
}

// Name returns the customer's display name.
func (c *Customer) Name() string {
	return c.name
}

// Email returns the customer's contact email.
func (c *Customer) Email() string {
	return c.email
}

// Phone returns the optional contact phone number. May be empty.
func (c *Customer) Phone() string {
	return c.phone
}

// Address returns the optional delivery address. May be empty.
func (c *Customer) Address() string {
	return c.address
}

// CreatedAt returns the creation timestamp.
func (c *Customer) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Customer) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Customer) setTenantID(tenantID string) error {
	if tenantID == "" {
		return errs.NewValueIsRequiredError("tenantId")
	}
	c.tenantID = tenantID
	return nil
}

func (c *Customer) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("name")
	}
	c.name = name
	return nil
}

func (c *Customer) setEmail(email string) error {
	if strings.TrimSpace(email) == "" {
		return errs.NewValueIsRequiredError("email")
	}
	c.email = email
	return nil
}
