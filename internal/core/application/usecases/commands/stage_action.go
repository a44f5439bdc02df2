package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// StageAction is the pluggable domain work performed for a stage between the
// IN_PROGRESS and DONE ledger writes. An interrupted transition re-executes
// the action on retry, so implementations must be idempotent or
// side-effect-free.
//
// The minimal core runs stages synchronously with NoopStageAction; a real
// kitchen or dispatch integration plugs in here without touching the
// transition engine.
type StageAction interface {
	Execute(ctx context.Context, orderID kernel.UUID, stage order.Stage) error
}

// StageActionFunc adapts a function to the StageAction interface.
type StageActionFunc func(ctx context.Context, orderID kernel.UUID, stage order.Stage) error

// Execute calls the wrapped function.
func (f StageActionFunc) Execute(ctx context.Context, orderID kernel.UUID, stage order.Stage) error {
	return f(ctx, orderID, stage)
}

// NoopStageAction returns the default action: work completes synchronously
// with nothing to do.
func NoopStageAction() StageAction {
	return StageActionFunc(func(context.Context, kernel.UUID, order.Stage) error {
		return nil
	})
}
