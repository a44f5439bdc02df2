package commands

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// concurrencyRetries bounds the re-read loop when a conditional stage write
// loses a race. Past this the conflict is returned to the driver, whose own
// retry policy takes over.
const concurrencyRetries = 3

// TransitionResult reports the outcome of one stage transition.
type TransitionResult struct {
	// OrderID is the advanced order.
	OrderID kernel.UUID

	// Stage is the stage the order now holds.
	Stage order.Stage

	// AlreadyCompleted is true when a DONE ledger record already existed and
	// the call was absorbed as an idempotent no-op: nothing was written and
	// no events were published.
	AlreadyCompleted bool
}

// TransitionStageCommandHandler is the step-transition engine. It drives one
// order through one stage transition, exactly-once in effect even under
// at-least-once invocation from the driver.
//
// The sequence for a fresh transition:
//
//  1. load the order and check the ledger for a DONE record of the target
//  2. DONE exists: absorb the duplicate, success, no writes, no events
//  3. target must be the immediate successor of the persisted stage,
//     otherwise StageOutOfOrder with order and ledger untouched
//  4. append an IN_PROGRESS ledger record, then advance the order with a
//     conditional write guarded on the previously-read stage
//  5. run the stage's domain work (idempotent)
//  6. append the DONE ledger record with a put-if-absent write; a concurrent
//     duplicate that got there first is treated as success
//  7. publish StageStarted and StageCompleted (plus OrderDelivered for the
//     terminal stage); publish failures are logged, never rolled back
//
// A transition interrupted after the order advanced but before the DONE write
// is resumed by a retry with the same target: the handler detects that the
// target equals the persisted stage, reuses the IN_PROGRESS record's start
// time, re-runs the work, and completes the DONE write.
//
// There is no lock anywhere: orders are independent units of concurrency, and
// two workers racing on the same order are serialized by the conditional
// writes of steps 4 and 6.
type TransitionStageCommandHandler struct {
	orderRepo  ports.OrderRepository
	stepLedger ports.StepLedger
	publisher  ports.EventPublisher
	action     StageAction
	logger     *slog.Logger
}

// NewTransitionStageCommandHandler creates the step-transition engine.
// Pass NoopStageAction() when stages complete synchronously with no
// domain work.
func NewTransitionStageCommandHandler(
	orderRepo ports.OrderRepository,
	stepLedger ports.StepLedger,
	publisher ports.EventPublisher,
	action StageAction,
	logger *slog.Logger,
) TransitionStageCommandHandler {
	return TransitionStageCommandHandler{
		orderRepo:  orderRepo,
		stepLedger: stepLedger,
		publisher:  publisher,
		action:     action,
		logger:     logger.With("component", "transition_stage_handler"),
	}
}

// Handle processes one stage transition. On a conditional-write conflict the
// handler re-reads and retries a few times before surfacing
// ConcurrentModification to the caller.
func (h *TransitionStageCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionStageCommand,
) (TransitionResult, error) {
	if err := cmd.Validate(); err != nil {
		return TransitionResult{}, err
	}

	var lastErr error
	for attempt := 0; attempt < concurrencyRetries; attempt++ {
		result, err := h.transitionOnce(ctx, cmd)
		if err != nil && errors.Is(err, errs.ErrConcurrentModification) {
			lastErr = err
			continue
		}
		return result, err
	}

	return TransitionResult{}, lastErr
}

func (h *TransitionStageCommandHandler) transitionOnce(
	ctx context.Context,
	cmd TransitionStageCommand,
) (TransitionResult, error) {
	orderID, target := cmd.OrderID(), cmd.Target()

	aggregate, err := h.orderRepo.Get(ctx, orderID)
	if err != nil {
		return TransitionResult{}, err
	}

	// Idempotent short-circuit: a DONE record means this exact transition
	// already happened. Absorb the duplicate without writes or events.
	if _, done, findErr := h.stepLedger.FindDone(ctx, orderID, target); findErr != nil {
		return TransitionResult{}, findErr
	} else if done {
		return TransitionResult{OrderID: orderID, Stage: target, AlreadyCompleted: true}, nil
	}

	var startedAt time.Time
	if target == aggregate.CurrentStage() {
		// The order already advanced but no DONE record exists: a previous
		// attempt was interrupted between the stage write and the completion
		// write. Resume it, keeping the original start time when available.
		startedAt, err = h.resumeStartTime(ctx, orderID, target)
		if err != nil {
			return TransitionResult{}, err
		}
	} else {
		startedAt = time.Now().UTC()
		if err = h.beginTransition(ctx, aggregate, target, startedAt); err != nil {
			return TransitionResult{}, err
		}
	}

	if err = h.action.Execute(ctx, orderID, target); err != nil {
		return TransitionResult{}, err
	}

	finishedAt := time.Now().UTC()
	doneRecord, err := ledger.NewDoneRecord(orderID, target, startedAt, finishedAt)
	if err != nil {
		return TransitionResult{}, err
	}

	if err = h.stepLedger.AppendDoneIfAbsent(ctx, doneRecord); err != nil {
		return TransitionResult{}, err
	}

	h.publishTransitionEvents(ctx, orderID, target, finishedAt)

	return TransitionResult{OrderID: orderID, Stage: target}, nil
}

// beginTransition validates the stage ordering, appends the IN_PROGRESS
// record, and advances the order with a stage-guarded conditional write.
func (h *TransitionStageCommandHandler) beginTransition(
	ctx context.Context,
	aggregate *order.Order,
	target order.Stage,
	startedAt time.Time,
) error {
	priorStage := aggregate.CurrentStage()

	// Rejects skips, backward moves, and transitions out of DELIVERED.
	// Nothing has been written yet, so a violation leaves no trace.
	if err := aggregate.AdvanceTo(target); err != nil {
		return err
	}

	inProgress, err := ledger.NewInProgressRecord(aggregate.ID(), target, startedAt)
	if err != nil {
		return err
	}

	if err = h.stepLedger.AppendInProgress(ctx, inProgress); err != nil {
		return err
	}

	return h.orderRepo.UpdateStageGuarded(ctx, aggregate, priorStage)
}

// resumeStartTime recovers the start time of an interrupted transition from
// its IN_PROGRESS record, falling back to now when the record is missing.
func (h *TransitionStageCommandHandler) resumeStartTime(
	ctx context.Context,
	orderID kernel.UUID,
	target order.Stage,
) (time.Time, error) {
	inProgress, found, err := h.stepLedger.FindInProgress(ctx, orderID, target)
	if err != nil {
		return time.Time{}, err
	}
	if !found {
		return time.Now().UTC(), nil
	}
	return inProgress.StartedAt(), nil
}

// publishTransitionEvents emits the events for a completed transition.
// The transition is already committed: a sink failure is logged and the
// result stays successful. Consumers are idempotent and the sink is
// at-least-once, so a later duplicate delivery fills the gap.
func (h *TransitionStageCommandHandler) publishTransitionEvents(
	ctx context.Context,
	orderID kernel.UUID,
	target order.Stage,
	finishedAt time.Time,
) {
	toPublish := []events.DomainEvent{
		events.NewStageStarted(orderID.String(), target),
		events.NewStageCompleted(orderID.String(), target, finishedAt),
	}
	if target.IsFinal() {
		toPublish = append(toPublish, events.NewOrderDelivered(orderID.String(), finishedAt))
	}

	for _, event := range toPublish {
		if err := h.publisher.Publish(ctx, event); err != nil {
			h.logger.ErrorContext(ctx, "event publish failed",
				"orderId", orderID.String(),
				"stage", target.String(),
				"eventType", event.EventType(),
				"error", err)
		}
	}
}
