// Package ports defines the persistence contracts of the dispatch core.
// The engine keeps the authoritative state in memory; repositories hold durable copies
// of orders and the staff directory so that they survive restarts and can be inspected
// by other systems.
package ports

import (
	"context"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order snapshots.
type OrderRepository interface {
	// Save inserts the order or replaces the stored copy. A copy whose version is not
	// newer than the stored one is ignored, so snapshots saved out of order never
	// overwrite a later state.
	Save(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order with its items by order number.
	// Returns an error matching order.ErrUnknownOrder when the number is not stored.
	Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error)

	// GetAllInStatus retrieves every stored order in status, oldest first.
	GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error)
}
