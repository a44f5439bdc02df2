package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetCustomerQueryHandler retrieves customer information from the database.
type GetCustomerQueryHandler struct {
	db *gorm.DB
}

// NewGetCustomerQueryHandler creates a handler for customer lookup queries.
func NewGetCustomerQueryHandler(db *gorm.DB) GetCustomerQueryHandler {
	return GetCustomerQueryHandler{db: db}
}

// Handle executes the query for one customer.
// Returns ObjectNotFoundError when the customer does not exist.
func (h GetCustomerQueryHandler) Handle(
	ctx context.Context,
	query GetCustomerQuery,
) (GetCustomerQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetCustomerQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			tenant_id,
			name,
			email,
			phone,
			address,
			created_at
		FROM customers
		WHERE id = ?
	`, query.CustomerID().Bytes()).Row()

	var (
		id        uuid.UUID
		tenantID  string
		name      string
		email     string
		phone     string
		address   string
		createdAt time.Time
	)
	if err := row.Scan(&id, &tenantID, &name, &email, &phone, &address, &createdAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetCustomerQueryResponse{}, errs.NewObjectNotFoundError(
				"customer", query.CustomerID().String())
		}
		return GetCustomerQueryResponse{}, err
	}

	customerID, err := kernel.UUIDFromBytes(id[:])
	if err != nil {
		return GetCustomerQueryResponse{}, err
	}

	return GetCustomerQueryResponse{
		ID:        customerID,
		TenantID:  tenantID,
		Name:      name,
		Email:     email,
		Phone:     phone,
		Address:   address,
		CreatedAt: createdAt,
	}, nil
}
