// Package order provides the Order aggregate: a customer order made of one or more
// items, each of a product type and a quantity, tracked through a small lifecycle.
//
// The package includes:
//   - Item: a product type with a positive quantity and a completed flag
//   - Order: the aggregate root holding the order number, the ordered items and the status
//   - Status: a state machine that enforces valid order status transitions
//
// Key business rules:
//   - Orders must have a valid order number and at least one item
//   - Order status follows Placed -> WorkInProgress -> Complete
//   - No transition skips WorkInProgress and Complete is terminal
//   - Every state change increments the order version
//
// An Order does not know how it is split into work units. The dispatch engine drives
// StartWork, CompleteItems and Complete as the units of the order progress.
package order
