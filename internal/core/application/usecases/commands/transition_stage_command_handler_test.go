package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/ledger"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTransitionOrderRepository struct{ mock.Mock }

func (m *MockTransitionOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockTransitionOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockTransitionOrderRepository) UpdateStageGuarded(
	ctx context.Context, o *order.Order, expectedPriorStage order.Stage,
) error {
	args := m.Called(ctx, o, expectedPriorStage)
	return args.Error(0)
}

func (m *MockTransitionOrderRepository) GetByCustomer(
	ctx context.Context, customerID kernel.UUID,
) ([]*order.Order, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

type MockStepLedger struct{ mock.Mock }

func (m *MockStepLedger) AppendInProgress(ctx context.Context, record ledger.StepRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStepLedger) AppendDoneIfAbsent(ctx context.Context, record ledger.StepRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockStepLedger) FindDone(
	ctx context.Context, orderID kernel.UUID, stage order.Stage,
) (ledger.StepRecord, bool, error) {
	args := m.Called(ctx, orderID, stage)
	return args.Get(0).(ledger.StepRecord), args.Bool(1), args.Error(2)
}

func (m *MockStepLedger) FindInProgress(
	ctx context.Context, orderID kernel.UUID, stage order.Stage,
) (ledger.StepRecord, bool, error) {
	args := m.Called(ctx, orderID, stage)
	return args.Get(0).(ledger.StepRecord), args.Bool(1), args.Error(2)
}

func (m *MockStepLedger) History(ctx context.Context, orderID kernel.UUID) ([]ledger.StepRecord, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.StepRecord), args.Error(1)
}

func (m *MockStepLedger) FindStalledInProgress(
	ctx context.Context, cutoff time.Time,
) ([]ledger.StepRecord, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ledger.StepRecord), args.Error(1)
}

// RecordingPublisher captures published events for assertions.
type RecordingPublisher struct {
	published []events.DomainEvent
	failWith  error
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.DomainEvent) error {
	if p.failWith != nil {
		return p.failWith
	}
	p.published = append(p.published, event)
	return nil
}

func (p *RecordingPublisher) eventTypes() []string {
	types := make([]string, 0, len(p.published))
	for _, e := range p.published {
		types = append(types, e.EventType())
	}
	return types
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func orderAtStage(t *testing.T, stage order.Stage) *order.Order {
	t.Helper()
	price, err := kernel.MoneyFromString("10.50")
	require.NoError(t, err)
	item, err := order.NewItem("p1", 2, price)
	require.NoError(t, err)

	o, err := order.RestoreOrder(
		kernel.NewTimeOrderedUUID(), "pardos", kernel.NewUUID(),
		stage, []order.Item{item}, time.Now().UTC())
	require.NoError(t, err)
	return o
}

func newTransitionHandler(
	orderRepo *MockTransitionOrderRepository,
	stepLedger *MockStepLedger,
	publisher *RecordingPublisher,
) commands.TransitionStageCommandHandler {
	return commands.NewTransitionStageCommandHandler(
		orderRepo, stepLedger, publisher, commands.NoopStageAction(), testLogger())
}

func TestTransitionStageCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	aggregate := orderAtStage(t, order.StageCreated)
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{}

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
		Return(ledger.StepRecord{}, false, nil)
	stepLedger.On("AppendInProgress", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)
	orderRepo.On("UpdateStageGuarded", ctx, aggregate, order.StageCreated).Return(nil)
	stepLedger.On("AppendDoneIfAbsent", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StageCooking, result.Stage)
	assert.False(t, result.AlreadyCompleted)
	assert.Equal(t, order.StageCooking, aggregate.CurrentStage())
	assert.Equal(t, order.StatusInProgress, aggregate.Status())
	assert.Equal(t, []string{events.TypeStageStarted, events.TypeStageCompleted}, publisher.eventTypes())
	orderRepo.AssertExpectations(t)
	stepLedger.AssertExpectations(t)
}

func TestTransitionStageCommandHandler_Handle_IdempotentShortCircuit(t *testing.T) {
	ctx := t.Context()

	aggregate := orderAtStage(t, order.StageCooking)
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{}

	startedAt := time.Now().UTC().Add(-time.Minute)
	doneRecord, err := ledger.NewDoneRecord(aggregate.ID(), order.StageCooking, startedAt, startedAt.Add(time.Second))
	require.NoError(t, err)

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
		Return(doneRecord, true, nil)

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.True(t, result.AlreadyCompleted)
	assert.Empty(t, publisher.published, "duplicate transition must not publish events")
	stepLedger.AssertNotCalled(t, "AppendInProgress", mock.Anything, mock.Anything)
	stepLedger.AssertNotCalled(t, "AppendDoneIfAbsent", mock.Anything, mock.Anything)
	orderRepo.AssertNotCalled(t, "UpdateStageGuarded", mock.Anything, mock.Anything, mock.Anything)
}

func TestTransitionStageCommandHandler_Handle_OrderNotFound(t *testing.T) {
	ctx := t.Context()

	orderID := kernel.NewUUID()
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{}

	orderRepo.On("Get", ctx, orderID).
		Return(nil, errs.NewObjectNotFoundError("order", orderID.String()))

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(orderID, order.StageCooking)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	assert.False(t, errs.IsRetryable(err))
}

func TestTransitionStageCommandHandler_Handle_StageOutOfOrder(t *testing.T) {
	t.Run("skipping a stage is rejected without writes", func(t *testing.T) {
		ctx := t.Context()

		aggregate := orderAtStage(t, order.StageCreated)
		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
		stepLedger.On("FindDone", ctx, aggregate.ID(), order.StagePackaging).
			Return(ledger.StepRecord{}, false, nil)

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StagePackaging)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStageOutOfOrder)
		assert.Equal(t, order.StageCreated, aggregate.CurrentStage(), "aggregate must stay unmodified")
		assert.Empty(t, publisher.published)
		stepLedger.AssertNotCalled(t, "AppendInProgress", mock.Anything, mock.Anything)
		orderRepo.AssertNotCalled(t, "UpdateStageGuarded", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("replaying an earlier stage after its DONE record exists is a no-op", func(t *testing.T) {
		// COOKING replayed after PACKAGING completed: the DONE record for
		// COOKING still exists, so the replay is absorbed, not rejected.
		ctx := t.Context()

		aggregate := orderAtStage(t, order.StagePackaging)
		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		startedAt := time.Now().UTC().Add(-time.Hour)
		cookingDone, err := ledger.NewDoneRecord(
			aggregate.ID(), order.StageCooking, startedAt, startedAt.Add(time.Minute))
		require.NoError(t, err)

		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
		stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
			Return(cookingDone, true, nil)

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
		require.NoError(t, err)

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, result.AlreadyCompleted)
		assert.Equal(t, order.StagePackaging, aggregate.CurrentStage())
	})

	t.Run("replaying an earlier stage with no DONE record is rejected", func(t *testing.T) {
		// Misordered redelivery where the ledger lost nothing: COOKING
		// arriving while the order is at PACKAGING is a sequencing bug.
		ctx := t.Context()

		aggregate := orderAtStage(t, order.StagePackaging)
		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
		stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
			Return(ledger.StepRecord{}, false, nil)

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStageOutOfOrder)
	})
}

func TestTransitionStageCommandHandler_Handle_DeliveredIsTerminal(t *testing.T) {
	t.Run("DELIVERED on an already-delivered order is an idempotent no-op", func(t *testing.T) {
		ctx := t.Context()

		aggregate := orderAtStage(t, order.StageDelivered)
		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		startedAt := time.Now().UTC().Add(-time.Hour)
		deliveredDone, err := ledger.NewDoneRecord(
			aggregate.ID(), order.StageDelivered, startedAt, startedAt.Add(time.Minute))
		require.NoError(t, err)

		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
		stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageDelivered).
			Return(deliveredDone, true, nil)

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageDelivered)
		require.NoError(t, err)

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.True(t, result.AlreadyCompleted)
	})

	t.Run("any other target on a delivered order fails", func(t *testing.T) {
		ctx := t.Context()

		aggregate := orderAtStage(t, order.StageDelivered)
		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
		stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
			Return(ledger.StepRecord{}, false, nil)

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStageOutOfOrder)
	})
}

func TestTransitionStageCommandHandler_Handle_ConcurrentModification(t *testing.T) {
	t.Run("persistent conflict surfaces after bounded retries", func(t *testing.T) {
		ctx := t.Context()

		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		// Fresh aggregate per read so each attempt sees CREATED again.
		aggregate := orderAtStage(t, order.StageCreated)
		orderID := aggregate.ID()
		orderRepo.On("Get", ctx, orderID).
			Return(aggregate, nil).Once()
		for i := 0; i < 2; i++ {
			next := orderAtStage(t, order.StageCreated)
			orderRepo.On("Get", ctx, orderID).Return(next, nil).Once()
		}
		stepLedger.On("FindDone", ctx, orderID, order.StageCooking).
			Return(ledger.StepRecord{}, false, nil)
		stepLedger.On("AppendInProgress", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)
		orderRepo.On("UpdateStageGuarded", ctx, mock.Anything, order.StageCreated).
			Return(errs.NewConcurrentModificationError("order", orderID.String()))

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(orderID, order.StageCooking)
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrConcurrentModification)
		assert.True(t, errs.IsRetryable(err))
		assert.Empty(t, publisher.published)
	})

	t.Run("conflict resolved by re-read succeeds", func(t *testing.T) {
		ctx := t.Context()

		orderRepo := new(MockTransitionOrderRepository)
		stepLedger := new(MockStepLedger)
		publisher := &RecordingPublisher{}

		first := orderAtStage(t, order.StageCreated)
		orderID := first.ID()

		// First attempt loses the race; the second read finds the order
		// already at COOKING with no DONE record and resumes it.
		orderRepo.On("Get", ctx, orderID).Return(first, nil).Once()
		stepLedger.On("FindDone", ctx, orderID, order.StageCooking).
			Return(ledger.StepRecord{}, false, nil)
		stepLedger.On("AppendInProgress", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)
		orderRepo.On("UpdateStageGuarded", ctx, first, order.StageCreated).
			Return(errs.NewConcurrentModificationError("order", orderID.String())).Once()

		second, err := order.RestoreOrder(
			orderID, "pardos", kernel.NewUUID(),
			order.StageCooking, first.Items(), first.CreatedAt())
		require.NoError(t, err)
		orderRepo.On("Get", ctx, orderID).Return(second, nil).Once()
		startedAt := time.Now().UTC()
		inProgress, err := ledger.NewInProgressRecord(orderID, order.StageCooking, startedAt)
		require.NoError(t, err)
		stepLedger.On("FindInProgress", ctx, orderID, order.StageCooking).
			Return(inProgress, true, nil)
		stepLedger.On("AppendDoneIfAbsent", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)

		handler := newTransitionHandler(orderRepo, stepLedger, publisher)
		cmd, err := commands.NewTransitionStageCommand(orderID, order.StageCooking)
		require.NoError(t, err)

		result, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		assert.Equal(t, order.StageCooking, result.Stage)
		assert.False(t, result.AlreadyCompleted)
	})
}

func TestTransitionStageCommandHandler_Handle_ResumesInterruptedTransition(t *testing.T) {
	// Crash window: the order row says COOKING but no DONE record exists.
	// A retry with the same target completes the transition, reusing the
	// original start time from the IN_PROGRESS record.
	ctx := t.Context()

	aggregate := orderAtStage(t, order.StageCooking)
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{}

	startedAt := time.Now().UTC().Add(-30 * time.Second)
	inProgress, err := ledger.NewInProgressRecord(aggregate.ID(), order.StageCooking, startedAt)
	require.NoError(t, err)

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
		Return(ledger.StepRecord{}, false, nil)
	stepLedger.On("FindInProgress", ctx, aggregate.ID(), order.StageCooking).
		Return(inProgress, true, nil)
	stepLedger.On("AppendDoneIfAbsent", ctx, mock.MatchedBy(func(rec ledger.StepRecord) bool {
		return rec.IsDone() && rec.StartedAt().Equal(startedAt)
	})).Return(nil)

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.False(t, result.AlreadyCompleted)
	// Resume never rewrites the stage row: it is already at the target.
	orderRepo.AssertNotCalled(t, "UpdateStageGuarded", mock.Anything, mock.Anything, mock.Anything)
	assert.Equal(t, []string{events.TypeStageStarted, events.TypeStageCompleted}, publisher.eventTypes())
}

func TestTransitionStageCommandHandler_Handle_DeliveredEmitsOrderDelivered(t *testing.T) {
	ctx := t.Context()

	aggregate := orderAtStage(t, order.StageDelivery)
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{}

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageDelivered).
		Return(ledger.StepRecord{}, false, nil)
	stepLedger.On("AppendInProgress", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)
	orderRepo.On("UpdateStageGuarded", ctx, aggregate, order.StageDelivery).Return(nil)
	stepLedger.On("AppendDoneIfAbsent", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageDelivered)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, order.StageDelivered, result.Stage)
	assert.Equal(t, order.StatusDelivered, aggregate.Status())
	assert.Equal(t,
		[]string{events.TypeStageStarted, events.TypeStageCompleted, events.TypeOrderDelivered},
		publisher.eventTypes())
}

func TestTransitionStageCommandHandler_Handle_PublishFailureDoesNotFailTransition(t *testing.T) {
	ctx := t.Context()

	aggregate := orderAtStage(t, order.StageCreated)
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{
		failWith: errs.NewEventSinkUnavailableError(events.TypeStageStarted, context.DeadlineExceeded),
	}

	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
		Return(ledger.StepRecord{}, false, nil)
	stepLedger.On("AppendInProgress", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)
	orderRepo.On("UpdateStageGuarded", ctx, aggregate, order.StageCreated).Return(nil)
	stepLedger.On("AppendDoneIfAbsent", ctx, mock.AnythingOfType("ledger.StepRecord")).Return(nil)

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
	require.NoError(t, err)

	result, err := handler.Handle(ctx, cmd)

	require.NoError(t, err, "committed transition must not fail on sink errors")
	assert.Equal(t, order.StageCooking, result.Stage)
}

func TestTransitionStageCommandHandler_Handle_StorageErrorPropagates(t *testing.T) {
	ctx := t.Context()

	aggregate := orderAtStage(t, order.StageCreated)
	orderRepo := new(MockTransitionOrderRepository)
	stepLedger := new(MockStepLedger)
	publisher := &RecordingPublisher{}

	storeErr := errs.NewStorageUnavailableError("ledger.find_done", context.DeadlineExceeded)
	orderRepo.On("Get", ctx, aggregate.ID()).Return(aggregate, nil)
	stepLedger.On("FindDone", ctx, aggregate.ID(), order.StageCooking).
		Return(ledger.StepRecord{}, false, storeErr)

	handler := newTransitionHandler(orderRepo, stepLedger, publisher)
	cmd, err := commands.NewTransitionStageCommand(aggregate.ID(), order.StageCooking)
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.True(t, errs.IsRetryable(err))
}
