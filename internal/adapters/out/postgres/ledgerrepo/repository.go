package ledgerrepo

import (
	"context"
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var stepConflictTarget = []clause.Column{
	{Name: "order_id"}, {Name: "stage"}, {Name: "state"},
}

// GormStepLedger implements StepLedger using GORM.
type GormStepLedger struct {
	db *gorm.DB
}

// NewGormStepLedger creates a new GORM step ledger.
func NewGormStepLedger(db *gorm.DB) *GormStepLedger {
	return &GormStepLedger{db: db}
}

// AppendInProgress records the start of a stage. A retry of an interrupted
// transition overwrites the start time rather than failing on the unique index.
func (l *GormStepLedger) AppendInProgress(ctx context.Context, record ledger.StepRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   stepConflictTarget,
		DoUpdates: clause.AssignmentColumns([]string{"started_at"}),
	}).Create(&dto).Error
	if err != nil {
		return errs.NewStorageUnavailableError("ledger.append_in_progress", err)
	}

	return nil
}

// AppendDoneIfAbsent records stage completion exactly once. When a DONE row
// for the same (order, stage) already exists the insert is a no-op and the
// call still succeeds: the first writer won and this one is a duplicate.
func (l *GormStepLedger) AppendDoneIfAbsent(ctx context.Context, record ledger.StepRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}

	dto := fromDomain(record)
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   stepConflictTarget,
		DoNothing: true,
	}).Create(&dto).Error
	if err != nil {
		return errs.NewStorageUnavailableError("ledger.append_done", err)
	}

	return nil
}

// FindDone looks up the completion record for a stage.
func (l *GormStepLedger) FindDone(
	ctx context.Context,
	orderID kernel.UUID,
	stage order.Stage,
) (ledger.StepRecord, bool, error) {
	return l.find(ctx, orderID, stage, ledger.StepDone)
}

// FindInProgress looks up the start record for a stage.
func (l *GormStepLedger) FindInProgress(
	ctx context.Context,
	orderID kernel.UUID,
	stage order.Stage,
) (ledger.StepRecord, bool, error) {
	return l.find(ctx, orderID, stage, ledger.StepInProgress)
}

func (l *GormStepLedger) find(
	ctx context.Context,
	orderID kernel.UUID,
	stage order.Stage,
	state ledger.StepState,
) (ledger.StepRecord, bool, error) {
	if err := orderID.Validate(); err != nil {
		return ledger.StepRecord{}, false, err
	}

	var dto StepRecordDTO
	err := l.db.WithContext(ctx).
		First(&dto, "order_id = ? AND stage = ? AND state = ?",
			orderID.Bytes(), stage.String(), state.String()).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ledger.StepRecord{}, false, nil
		}
		return ledger.StepRecord{}, false, errs.NewStorageUnavailableError("ledger.find", err)
	}

	record, err := toDomain(dto)
	if err != nil {
		return ledger.StepRecord{}, false, err
	}

	return record, true, nil
}

// History returns every ledger row of an order in start order.
func (l *GormStepLedger) History(ctx context.Context, orderID kernel.UUID) ([]ledger.StepRecord, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dtos []StepRecordDTO
	err := l.db.WithContext(ctx).
		Where("order_id = ?", orderID.Bytes()).
		Order("started_at, id").
		Find(&dtos).Error
	if err != nil {
		return nil, errs.NewStorageUnavailableError("ledger.history", err)
	}

	records := make([]ledger.StepRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		records = append(records, record)
	}

	return records, nil
}

// FindStalledInProgress returns IN_PROGRESS records started before the cutoff
// whose stage never reached DONE. These are transitions interrupted between
// the start write and the completion write.
func (l *GormStepLedger) FindStalledInProgress(ctx context.Context, cutoff time.Time) ([]ledger.StepRecord, error) {
	var dtos []StepRecordDTO
	err := l.db.WithContext(ctx).Raw(`
		SELECT s.*
		FROM step_records s
		WHERE s.state = ?
		  AND s.started_at < ?
		  AND NOT EXISTS (
			SELECT 1
			FROM step_records d
			WHERE d.order_id = s.order_id
			  AND d.stage = s.stage
			  AND d.state = ?
		  )
		ORDER BY s.started_at
	`, ledger.StepInProgress.String(), cutoff, ledger.StepDone.String()).Scan(&dtos).Error
	if err != nil {
		return nil, errs.NewStorageUnavailableError("ledger.find_stalled", err)
	}

	records := make([]ledger.StepRecord, 0, len(dtos))
	for _, dto := range dtos {
		record, toErr := toDomain(dto)
		if toErr != nil {
			return nil, toErr
		}
		records = append(records, record)
	}

	return records, nil
}
