package orderrepo

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormOrderRepository implements OrderRepository using GORM.
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GORM order repository.
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// Add saves a new order with its lines to the database.
func (r *GormOrderRepository) Add(ctx context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return errs.NewStorageUnavailableError("order.add", err)
	}

	return nil
}

// Get retrieves an order with its lines by ID.
func (r *GormOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto OrderDTO
	if err := r.db.WithContext(ctx).Preload("Items").First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("order", id.String())
		}
		return nil, errs.NewStorageUnavailableError("order.get", err)
	}

	return toDomain(dto)
}

// UpdateStageGuarded advances the stored stage only when the row is still at
// the expected prior stage. A lost race returns ConcurrentModificationError
// so the caller can re-read and retry.
func (r *GormOrderRepository) UpdateStageGuarded(
	ctx context.Context,
	aggregate *order.Order,
	expectedPriorStage order.Stage,
) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Model(&OrderDTO{}).
		Where("id = ? AND current_stage = ?", aggregate.ID().Bytes(), expectedPriorStage.String()).
		Updates(map[string]any{
			"current_stage": aggregate.CurrentStage().String(),
			"status":        aggregate.Status().String(),
		})
	if result.Error != nil {
		return errs.NewStorageUnavailableError("order.update_stage", result.Error)
	}

	if result.RowsAffected == 0 {
		return errs.NewConcurrentModificationError("order", aggregate.ID().String())
	}

	return nil
}

// GetByCustomer retrieves all orders of a customer, oldest first.
func (r *GormOrderRepository) GetByCustomer(ctx context.Context, customerID kernel.UUID) ([]*order.Order, error) {
	if err := customerID.Validate(); err != nil {
		return nil, err
	}

	var dtos []OrderDTO
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("customer_id = ?", customerID.Bytes()).
		Order("created_at").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewStorageUnavailableError("order.get_by_customer", err)
	}

	orders := make([]*order.Order, 0, len(dtos))
	for _, dto := range dtos {
		o, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		orders = append(orders, o)
	}

	return orders, nil
}
