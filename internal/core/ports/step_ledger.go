package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
)

// StepLedger defines the persistence contract for the append-only step
// ledger. Entries are keyed by (orderID, stage, state) for lookup and ordered
// by startedAt for history reconstruction; they are never overwritten or
// deleted, except that re-appending an IN_PROGRESS record for the same key
// (a retried transition) replaces the previous attempt's record.
type StepLedger interface {
	// AppendInProgress records that stage work started. Unconditional:
	// a retried transition may write the same key again.
	AppendInProgress(ctx context.Context, record ledger.StepRecord) error

	// AppendDoneIfAbsent records stage completion with a put-if-absent write.
	// If a DONE record already exists for the (order, stage) key the call is
	// treated as success, which closes the completion race between two
	// concurrent duplicate transitions.
	AppendDoneIfAbsent(ctx context.Context, record ledger.StepRecord) error

	// FindDone looks up the DONE record for (order, stage).
	// The boolean reports whether the record exists.
	FindDone(ctx context.Context, orderID kernel.UUID, stage order.Stage) (ledger.StepRecord, bool, error)

	// FindInProgress looks up the IN_PROGRESS record for (order, stage).
	// The boolean reports whether the record exists.
	FindInProgress(ctx context.Context, orderID kernel.UUID, stage order.Stage) (ledger.StepRecord, bool, error)

	// History returns all ledger records for an order ordered by startedAt.
	History(ctx context.Context, orderID kernel.UUID) ([]ledger.StepRecord, error)

	// FindStalledInProgress returns IN_PROGRESS records started before cutoff
	// that have no matching DONE record: transitions interrupted between the
	// start and completion writes, awaiting an idempotent retry.
	FindStalledInProgress(ctx context.Context, cutoff time.Time) ([]ledger.StepRecord, error)
}
