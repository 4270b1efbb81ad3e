package queries

import (
	"context"
	"sort"

	"workload/internal/core/ports"
)

// GetOrdersByStatusQueryHandler lists orders in one status, oldest first.
type GetOrdersByStatusQueryHandler struct {
	engine OrderReader
	orders ports.OrderRepository
}

// NewGetOrdersByStatusQueryHandler creates the handler. orders may be nil.
func NewGetOrdersByStatusQueryHandler(engine OrderReader, orders ports.OrderRepository) GetOrdersByStatusQueryHandler {
	return GetOrdersByStatusQueryHandler{engine: engine, orders: orders}
}

// Handle merges the live orders with stored orders of earlier runs. A live order
// always wins over its stored copy.
func (h GetOrdersByStatusQueryHandler) Handle(
	ctx context.Context,
	query GetOrdersByStatusQuery,
) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	live, err := h.engine.OrdersByStatus(ctx, query.Status())
	if err != nil {
		return nil, err
	}

	result := make([]OrderResponse, 0, len(live))
	seen := make(map[string]struct{}, len(live))
	for _, snap := range live {
		resp := NewSnapshotResponse(snap)
		seen[resp.Number] = struct{}{}
		result = append(result, resp)
	}
	if h.orders == nil {
		return result, nil
	}

	stored, err := h.orders.GetAllInStatus(ctx, query.Status())
	if err != nil {
		return nil, err
	}
	for _, o := range stored {
		if _, ok := seen[o.Number().String()]; ok {
			continue
		}
		if _, err = h.engine.OrderStatus(ctx, o.Number()); err == nil {
			// Live in another status; the stored copy is behind.
			continue
		}
		result = append(result, newOrderResponse(o))
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].Number < result[j].Number
	})
	return result, nil
}
