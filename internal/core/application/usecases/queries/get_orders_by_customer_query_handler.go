package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetOrdersByCustomerQueryHandler retrieves a customer's orders from the
// database. Orders and their lines are read in two queries and stitched in
// memory to avoid per-order round trips.
type GetOrdersByCustomerQueryHandler struct {
	db *gorm.DB
}

// NewGetOrdersByCustomerQueryHandler creates a handler for customer order queries.
func NewGetOrdersByCustomerQueryHandler(db *gorm.DB) GetOrdersByCustomerQueryHandler {
	return GetOrdersByCustomerQueryHandler{db: db}
}

// Handle executes the query for all orders of the customer, oldest first.
// A customer with no orders yields an empty slice, not an error.
func (h GetOrdersByCustomerQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByCustomerQuery,
) ([]GetOrdersByCustomerQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	orders, index, err := h.readOrders(ctx, query.CustomerID())
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return orders, nil
	}

	if err = h.attachItems(ctx, query.CustomerID(), orders, index); err != nil {
		return nil, err
	}

	return orders, nil
}

func (h GetOrdersByCustomerQueryHandler) readOrders(
	ctx context.Context,
	customerID kernel.UUID,
) ([]GetOrdersByCustomerQueryResponse, map[uuid.UUID]int, error) {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tenant_id,
			current_stage,
			status,
			total,
			created_at
		FROM orders
		WHERE customer_id = ?
		ORDER BY created_at, id
	`, customerID.Bytes()).Rows()
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	orders := make([]GetOrdersByCustomerQueryResponse, 0)
	index := make(map[uuid.UUID]int)

	for rows.Next() {
		var (
			id           uuid.UUID
			tenantID     string
			currentStage string
			status       string
			total        decimal.Decimal
			createdAt    time.Time
		)
		if err = rows.Scan(&id, &tenantID, &currentStage, &status, &total, &createdAt); err != nil {
			return nil, nil, err
		}

		orderID, idErr := kernel.UUIDFromBytes(id[:])
		if idErr != nil {
			return nil, nil, idErr
		}

		index[id] = len(orders)
		orders = append(orders, GetOrdersByCustomerQueryResponse{
			ID:           orderID,
			TenantID:     tenantID,
			CurrentStage: currentStage,
			Status:       status,
			Total:        total,
			CreatedAt:    createdAt,
			Items:        make([]OrderItemResponse, 0),
		})
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	return orders, index, nil
}

func (h GetOrdersByCustomerQueryHandler) attachItems(
	ctx context.Context,
	customerID kernel.UUID,
	orders []GetOrdersByCustomerQueryResponse,
	index map[uuid.UUID]int,
) error {
	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			i.order_id,
			i.product_id,
			i.quantity,
			i.unit_price
		FROM order_items i
		JOIN orders o ON o.id = i.order_id
		WHERE o.customer_id = ?
		ORDER BY i.id
	`, customerID.Bytes()).Rows()
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID   uuid.UUID
			productID string
			quantity  int
			unitPrice decimal.Decimal
		)
		if err = rows.Scan(&orderID, &productID, &quantity, &unitPrice); err != nil {
			return err
		}

		pos, ok := index[orderID]
		if !ok {
			continue
		}

		orders[pos].Items = append(orders[pos].Items, OrderItemResponse{
			ProductID: productID,
			Quantity:  quantity,
			UnitPrice: unitPrice,
		})
	}

	return rows.Err()
}
