// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS split.
// All commands follow a consistent pattern: constructor validation, a
// constructor guard, and a handler that coordinates repositories and the
// event publisher.
//
// The package owns the two write paths of the fulfillment core:
//   - order/customer creation (CreateOrderCommand, CreateCustomerCommand)
//   - the step-transition engine (TransitionStageCommand), which drives an
//     order through its fulfillment stages exactly-once in effect even when
//     the external driver delivers the same transition more than once
package commands
