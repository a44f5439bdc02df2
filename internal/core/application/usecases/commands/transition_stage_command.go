package commands

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrTransitionStageCommandIsNotConstructed = errors.New(
		"TransitionStageCommand must be created via NewTransitionStageCommand constructor",
	)
)

// TransitionStageCommand represents one stage-transition request from the
// external driver. The driver may deliver the same request more than once;
// the handler makes duplicates harmless.
//
// Example:
//
//	cmd, err := NewTransitionStageCommand(orderID, order.StageCooking)
//	if err != nil {
//	    return fmt.Errorf("invalid transition request: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
type TransitionStageCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	target  order.Stage

	guard guard.ConstructorGuard
}

// NewTransitionStageCommand creates a command to advance an order to the
// target stage. The target must be a fulfillment stage: CREATED is the seed
// stage set at order creation and is never a transition target.
func NewTransitionStageCommand(orderID kernel.UUID, target order.Stage) (TransitionStageCommand, error) {
	transitionCommand := TransitionStageCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		transitionCommand.setOrderID(orderID),
		transitionCommand.setTarget(target),
	); err != nil {
		return TransitionStageCommand{}, err
	}

	return transitionCommand, nil
}

// Validate ensures the command was created through the constructor.
// Returns ErrTransitionStageCommandIsNotConstructed if validation fails.
func (c TransitionStageCommand) Validate() error {
	return c.guard.Validate(ErrTransitionStageCommandIsNotConstructed)
}

// OrderID returns the identifier of the order to advance.
func (c TransitionStageCommand) OrderID() kernel.UUID {
	return c.orderID
}

// Target returns the stage the order should advance to.
func (c TransitionStageCommand) Target() order.Stage {
	return c.target
}

func (c *TransitionStageCommand) setOrderID(orderID kernel.UUID) error {
	if err := orderID.Validate(); err != nil {
		return err
	}

	c.orderID = orderID
	return nil
}

func (c *TransitionStageCommand) setTarget(target order.Stage) error {
	if err := target.Validate(); err != nil {
		return err
	}

	if target == order.StageCreated {
		return errs.NewValueIsInvalidErrorWithCause("targetStage",
			fmt.Errorf("%s is the creation stage, not a transition target", target))
	}

	c.target = target
	return nil
}
