// Package ledgerrepo provides data transfer objects and mapping functions for
// the append-only step ledger. One row per (order, stage, state); the unique
// index is what makes the DONE write a put-if-absent.
package ledgerrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// StepRecordDTO represents one ledger row.
type StepRecordDTO struct {
	ID         int64      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_step_order_stage_state;index"`
	Stage      string     `gorm:"type:varchar(16);not null;uniqueIndex:idx_step_order_stage_state"`
	State      string     `gorm:"type:varchar(16);not null;uniqueIndex:idx_step_order_stage_state"`
	StartedAt  time.Time  `gorm:"not null"`
	FinishedAt *time.Time `gorm:""`
}

// TableName specifies the database table name for ledger rows.
func (StepRecordDTO) TableName() string {
	return "step_records"
}

func fromDomain(record ledger.StepRecord) StepRecordDTO {
	return StepRecordDTO{
		OrderID:    record.OrderID().Bytes(),
		Stage:      record.Stage().String(),
		State:      record.State().String(),
		StartedAt:  record.StartedAt(),
		FinishedAt: record.FinishedAt(),
	}
}

func toDomain(dto StepRecordDTO) (ledger.StepRecord, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return ledger.StepRecord{}, err
	}

	stage, err := order.StageFromString(dto.Stage)
	if err != nil {
		return ledger.StepRecord{}, err
	}

	state, err := ledger.StepStateFromString(dto.State)
	if err != nil {
		return ledger.StepRecord{}, err
	}

	return ledger.RestoreStepRecord(orderID, stage, state, dto.StartedAt, dto.FinishedAt)
}
