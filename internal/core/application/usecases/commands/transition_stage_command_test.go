package commands_test

import (
	"testing"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTransitionStageCommand(t *testing.T) {
	t.Run("should create command for fulfillment stages", func(t *testing.T) {
		for _, target := range []order.Stage{
			order.StageCooking, order.StagePackaging, order.StageDelivery, order.StageDelivered,
		} {
			cmd, err := commands.NewTransitionStageCommand(kernel.NewUUID(), target)

			require.NoError(t, err)
			require.NoError(t, cmd.Validate())
			assert.Equal(t, target, cmd.Target())
		}
	})

	t.Run("should reject CREATED as a target", func(t *testing.T) {
		_, err := commands.NewTransitionStageCommand(kernel.NewUUID(), order.StageCreated)

		require.Error(t, err)
		assert.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should reject invalid stage", func(t *testing.T) {
		_, err := commands.NewTransitionStageCommand(kernel.NewUUID(), order.StageUnknown)

		require.Error(t, err)
	})

	t.Run("should reject unconstructed order ID", func(t *testing.T) {
		var zeroID kernel.UUID
		_, err := commands.NewTransitionStageCommand(zeroID, order.StageCooking)

		require.Error(t, err)
	})

	t.Run("zero-value command fails validation", func(t *testing.T) {
		var cmd commands.TransitionStageCommand

		assert.ErrorIs(t, cmd.Validate(), commands.ErrTransitionStageCommandIsNotConstructed)
	})
}
