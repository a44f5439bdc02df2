// Package customerrepo provides data transfer objects and mapping functions
// for customer persistence.
package customerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CustomerDTO represents the database structure for persisting customers.
type CustomerDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID  string    `gorm:"type:varchar(64);not null;index"`
	Name      string    `gorm:"type:varchar(255);not null"`
	Email     string    `gorm:"type:varchar(255);not null"`
	Phone     string    `gorm:"type:varchar(32)"`
	Address   string    `gorm:"type:varchar(512)"`
	CreatedAt time.Time `gorm:"not null"`
}

// TableName specifies the database table name for customer entities.
func (CustomerDTO) TableName() string {
	return "customers"
}

func fromDomain(aggregate *customer.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        aggregate.ID().Bytes(),
		TenantID:  aggregate.TenantID(),
		Name:      aggregate.Name(),
		Email:     aggregate.Email(),
		Phone:     aggregate.Phone(),
		Address:   aggregate.Address(),
		CreatedAt: aggregate.CreatedAt(),
	}
}

func toDomain(dto CustomerDTO) (*customer.Customer, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return customer.RestoreCustomer(id, dto.TenantID, dto.Name, dto.Email, dto.Phone, dto.Address, dto.CreatedAt)
}
