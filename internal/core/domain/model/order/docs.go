// Package order provides domain entities and business logic for order
// fulfillment tracking. It implements the Order aggregate root with lifecycle
// management and strict stage progression.
//
// The package includes:
//   - Order: the aggregate root that manages order identity, line items, and lifecycle
//   - Stage: a state machine enforcing the fulfillment sequence
//     CREATED -> COOKING -> PACKAGING -> DELIVERY -> DELIVERED
//   - Status: the coarse order status derived from the current stage
//   - Item: a validated order line with fixed-point pricing
//
// Key business rules:
//   - Orders must have a valid unique identifier, tenant, customer, and at least one item
//   - The current stage only ever moves forward, one stage at a time
//   - DELIVERED is terminal; no transition leaves it
//   - The order total always equals the sum of quantity x unit price over its items
//
// The package follows Domain-Driven Design principles, providing rich domain
// behavior, encapsulation, and validation to ensure business rules are enforced.
package order
