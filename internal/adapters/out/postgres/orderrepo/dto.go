// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// This package implements the repository pattern for the order domain aggregate, handling
// the conversion between domain entities and database representations.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderDTO represents the database structure for persisting order aggregates.
// The stage column drives the conditional stage update, so it is stored as
// the canonical stage string rather than the enum ordinal.
type OrderDTO struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey"`
	TenantID     string          `gorm:"type:varchar(64);not null;index"`
	CustomerID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	CurrentStage string          `gorm:"type:varchar(16);not null"`
	Status       string          `gorm:"type:varchar(16);not null;index"`
	Total        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt    time.Time       `gorm:"not null"`
	Items        []OrderItemDTO  `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
// Overrides GORM's default naming convention to use "orders".
func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO represents one order line. Lines are value objects: they carry
// no domain identity, only a surrogate key for the relational model.
type OrderItemDTO struct {
	ID        int64           `gorm:"primaryKey;autoIncrement"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID string          `gorm:"type:varchar(255);not null"`
	Quantity  int             `gorm:"type:int;not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
}

// TableName specifies the database table name for order line entities.
func (OrderItemDTO) TableName() string {
	return "order_items"
}

// fromDomain converts an order domain aggregate to its database representation.
func fromDomain(aggregate *order.Order) OrderDTO {
	orderID := aggregate.ID().Bytes()
	items := make([]OrderItemDTO, 0, len(aggregate.Items()))

	for _, item := range aggregate.Items() {
		items = append(items, OrderItemDTO{
			OrderID:   orderID,
			ProductID: item.ProductID(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice().Decimal(),
		})
	}

	return OrderDTO{
		ID:           orderID,
		TenantID:     aggregate.TenantID(),
		CustomerID:   aggregate.CustomerID().Bytes(),
		CurrentStage: aggregate.CurrentStage().String(),
		Status:       aggregate.Status().String(),
		Total:        aggregate.Total().Decimal(),
		CreatedAt:    aggregate.CreatedAt(),
		Items:        items,
	}
}

// toDomain converts a database DTO to an order domain aggregate.
// RestoreOrder recomputes the total and the derived status, so a row with a
// drifted denormalized column cannot resurrect an inconsistent aggregate.
func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	stage, err := order.StageFromString(dto.CurrentStage)
	if err != nil {
		return nil, err
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDto := range dto.Items {
		price, priceErr := kernel.MoneyFromDecimal(itemDto.UnitPrice)
		if priceErr != nil {
			return nil, priceErr
		}

		item, itemErr := order.NewItem(itemDto.ProductID, itemDto.Quantity, price)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(id, dto.TenantID, customerID, stage, items, dto.CreatedAt)
}
