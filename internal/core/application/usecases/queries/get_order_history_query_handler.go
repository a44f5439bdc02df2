package queries

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
)

// GetOrderHistoryQueryHandler retrieves the step ledger of an order from the
// database.
type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderHistoryQueryHandler creates a handler for order history queries.
func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

// Handle executes the history query. A freshly created order that has not
// transitioned yet yields an empty record list; an unknown order yields
// ObjectNotFoundError.
func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) (GetOrderHistoryQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	var currentStage string
	row := h.db.WithContext(ctx).Raw(`
		SELECT current_stage FROM orders WHERE id = ?
	`, query.OrderID().Bytes()).Row()
	if err := row.Scan(&currentStage); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderHistoryQueryResponse{}, errs.NewObjectNotFoundError(
				"order", query.OrderID().String())
		}
		return GetOrderHistoryQueryResponse{}, err
	}

	rows, err := h.db.WithContext(ctx).Raw(`
		SELECT
			stage,
			state,
			started_at,
			finished_at
		FROM step_records
		WHERE order_id = ?
		ORDER BY started_at, id
	`, query.OrderID().Bytes()).Rows()
	if err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}
	defer rows.Close()

	records := make([]StepRecordResponse, 0)
	for rows.Next() {
		var (
			stage      string
			state      string
			startedAt  time.Time
			finishedAt sql.NullTime
		)
		if err = rows.Scan(&stage, &state, &startedAt, &finishedAt); err != nil {
			return GetOrderHistoryQueryResponse{}, err
		}

		record := StepRecordResponse{
			Stage:     stage,
			State:     state,
			StartedAt: startedAt,
		}
		if finishedAt.Valid {
			finished := finishedAt.Time
			record.FinishedAt = &finished
		}
		records = append(records, record)
	}

	if err = rows.Err(); err != nil {
		return GetOrderHistoryQueryResponse{}, err
	}

	return GetOrderHistoryQueryResponse{
		OrderID:      query.OrderID(),
		CurrentStage: currentStage,
		Records:      records,
	}, nil
}
