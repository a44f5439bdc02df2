package commands_test

import (
	"context"
	"testing"
	"time"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/events"
	"fulfillment/internal/core/domain/model/customer"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCustomerRepository struct{ mock.Mock }

func (m *MockCustomerRepository) Add(ctx context.Context, aggregate *customer.Customer) error {
	args := m.Called(ctx, aggregate)
	return args.Error(0)
}

func (m *MockCustomerRepository) Get(ctx context.Context, id kernel.UUID) (*customer.Customer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.Customer), args.Error(1)
}

func registeredCustomer(t *testing.T) *customer.Customer {
	t.Helper()
	c, err := customer.NewCustomer(
		kernel.NewUUID(), "pardos", "Maria Quispe", "maria@example.com", "", "", time.Now().UTC())
	require.NoError(t, err)
	return c
}

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()

	existing := registeredCustomer(t)
	orderRepo := new(MockTransitionOrderRepository)
	customerRepo := new(MockCustomerRepository)
	publisher := &RecordingPublisher{}

	customerRepo.On("Get", ctx, existing.ID()).Return(existing, nil)

	var persisted *order.Order
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Run(func(args mock.Arguments) {
			persisted = args.Get(1).(*order.Order)
		}).
		Return(nil)

	handler := commands.NewCreateOrderCommandHandler(orderRepo, customerRepo, publisher, testLogger())
	cmd, err := commands.NewCreateOrderCommand(existing.ID(), "pardos", testItems(t))
	require.NoError(t, err)

	orderID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	require.NotNil(t, persisted)
	assert.True(t, persisted.ID().IsEqual(orderID))
	assert.Equal(t, order.StageCreated, persisted.CurrentStage())
	assert.Equal(t, order.StatusCreated, persisted.Status())

	expectedTotal, err := kernel.MoneyFromString("15.90")
	require.NoError(t, err)
	assert.True(t, persisted.Total().IsEqual(expectedTotal))

	require.Len(t, publisher.published, 1)
	created, ok := publisher.published[0].(events.OrderCreated)
	require.True(t, ok)
	assert.Equal(t, events.TypeOrderCreated, created.EventType())
	assert.Equal(t, orderID.String(), created.AggregateID())
	assert.Equal(t, "pardos", created.TenantID)
	assert.InDelta(t, 15.90, created.Total, 0.0001)
	orderRepo.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_UnknownCustomer(t *testing.T) {
	ctx := t.Context()

	customerID := kernel.NewUUID()
	orderRepo := new(MockTransitionOrderRepository)
	customerRepo := new(MockCustomerRepository)
	publisher := &RecordingPublisher{}

	customerRepo.On("Get", ctx, customerID).
		Return(nil, errs.NewObjectNotFoundError("customer", customerID.String()))

	handler := commands.NewCreateOrderCommandHandler(orderRepo, customerRepo, publisher, testLogger())
	cmd, err := commands.NewCreateOrderCommand(customerID, "pardos", testItems(t))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrObjectNotFound)
	orderRepo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
	assert.Empty(t, publisher.published)
}

func TestCreateOrderCommandHandler_Handle_StoreFailureSuppressesEvent(t *testing.T) {
	ctx := t.Context()

	existing := registeredCustomer(t)
	orderRepo := new(MockTransitionOrderRepository)
	customerRepo := new(MockCustomerRepository)
	publisher := &RecordingPublisher{}

	customerRepo.On("Get", ctx, existing.ID()).Return(existing, nil)
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).
		Return(errs.NewStorageUnavailableError("order.add", context.DeadlineExceeded))

	handler := commands.NewCreateOrderCommandHandler(orderRepo, customerRepo, publisher, testLogger())
	cmd, err := commands.NewCreateOrderCommand(existing.ID(), "pardos", testItems(t))
	require.NoError(t, err)

	_, err = handler.Handle(ctx, cmd)

	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	assert.Empty(t, publisher.published, "no event for an order that was never stored")
}

func TestCreateOrderCommandHandler_Handle_PublishFailureDoesNotFailCreation(t *testing.T) {
	ctx := t.Context()

	existing := registeredCustomer(t)
	orderRepo := new(MockTransitionOrderRepository)
	customerRepo := new(MockCustomerRepository)
	publisher := &RecordingPublisher{
		failWith: errs.NewEventSinkUnavailableError(events.TypeOrderCreated, context.DeadlineExceeded),
	}

	customerRepo.On("Get", ctx, existing.ID()).Return(existing, nil)
	orderRepo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil)

	handler := commands.NewCreateOrderCommandHandler(orderRepo, customerRepo, publisher, testLogger())
	cmd, err := commands.NewCreateOrderCommand(existing.ID(), "pardos", testItems(t))
	require.NoError(t, err)

	orderID, err := handler.Handle(ctx, cmd)

	require.NoError(t, err, "the stored order is the source of truth")
	require.NoError(t, orderID.Validate())
}

func TestCreateCustomerCommandHandler_Handle(t *testing.T) {
	t.Run("persists the customer and returns its id", func(t *testing.T) {
		ctx := t.Context()

		customerRepo := new(MockCustomerRepository)

		var persisted *customer.Customer
		customerRepo.On("Add", ctx, mock.AnythingOfType("*customer.Customer")).
			Run(func(args mock.Arguments) {
				persisted = args.Get(1).(*customer.Customer)
			}).
			Return(nil)

		handler := commands.NewCreateCustomerCommandHandler(customerRepo)
		cmd, err := commands.NewCreateCustomerCommand(
			"pardos", "Maria Quispe", "maria@example.com", "", "")
		require.NoError(t, err)

		customerID, err := handler.Handle(ctx, cmd)

		require.NoError(t, err)
		require.NotNil(t, persisted)
		assert.True(t, persisted.ID().IsEqual(customerID))
		assert.Equal(t, "Maria Quispe", persisted.Name())
	})

	t.Run("store failure surfaces", func(t *testing.T) {
		ctx := t.Context()

		customerRepo := new(MockCustomerRepository)
		customerRepo.On("Add", ctx, mock.AnythingOfType("*customer.Customer")).
			Return(errs.NewStorageUnavailableError("customer.add", context.DeadlineExceeded))

		handler := commands.NewCreateCustomerCommandHandler(customerRepo)
		cmd, err := commands.NewCreateCustomerCommand(
			"pardos", "Maria Quispe", "maria@example.com", "", "")
		require.NoError(t, err)

		_, err = handler.Handle(ctx, cmd)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrStorageUnavailable)
	})
}
