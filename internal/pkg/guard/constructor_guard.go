// Package guard provides a defensive-construction helper for command and
// value objects that must only be built through their constructor functions.
package guard

import "errors"

// ErrDefaultConstructorGuard is the default error returned by ConstructorGuard.Validate()
// when a nil error is passed as the validation error. This ensures that validation
// always fails with a meaningful message even if no specific error is provided.
var ErrDefaultConstructorGuard = errors.New("object must be created via its constructor")

// ConstructorGuard detects whether a struct was created through its designated
// constructor or left as a zero value. Embedding a ConstructorGuard in a struct
// and setting it via NewConstructorGuard makes direct struct literals fail
// Validate, which keeps invariants enforced at construction time.
//
// Example usage:
//
//	type TransitionStageCommand struct {
//	    orderID kernel.UUID
//	    guard   guard.ConstructorGuard
//	}
//
//	func NewTransitionStageCommand(orderID kernel.UUID) (TransitionStageCommand, error) {
//	    // validate inputs...
//	    return TransitionStageCommand{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
//	}
//
//	func (c TransitionStageCommand) Validate() error {
//	    return c.guard.Validate(ErrTransitionStageCommandIsNotConstructed)
//	}
type ConstructorGuard struct {
	isConstructed bool
}

// NewConstructorGuard creates a guard marking its holder as properly constructed.
func NewConstructorGuard() ConstructorGuard {
	return ConstructorGuard{isConstructed: true}
}

// Validate returns nil when the holder was built via its constructor.
// For a zero-value guard it returns notConstructedErr, falling back to
// ErrDefaultConstructorGuard when notConstructedErr is nil.
func (g ConstructorGuard) Validate(notConstructedErr error) error {
	if g.isConstructed {
		return nil
	}

	if notConstructedErr == nil {
		return ErrDefaultConstructorGuard
	}

	return notConstructedErr
}
