package queries

import (
	"context"
	"errors"

	"workload/internal/core/domain/model/order"
	"workload/internal/core/ports"
)

// GetOrderStatusQueryHandler reports the status of one order.
//
// Example:
//
//	handler := NewGetOrderStatusQueryHandler(engine, orderRepo)
//	query, _ := NewGetOrderStatusQuery("ORD07032026-000001")
//
//	resp, err := handler.Handle(ctx, query)
//	if errors.Is(err, order.ErrUnknownOrder) {
//	    // never placed
//	}
type GetOrderStatusQueryHandler struct {
	engine OrderReader
	orders ports.OrderRepository
}

// NewGetOrderStatusQueryHandler creates the handler. orders may be nil, in which case
// only orders placed since startup are found.
func NewGetOrderStatusQueryHandler(engine OrderReader, orders ports.OrderRepository) GetOrderStatusQueryHandler {
	return GetOrderStatusQueryHandler{engine: engine, orders: orders}
}

// Handle returns the live snapshot of the order, or its stored copy when the order
// was placed by an earlier run.
func (h GetOrderStatusQueryHandler) Handle(ctx context.Context, query GetOrderStatusQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	snap, err := h.engine.OrderStatus(ctx, query.Number())
	if err == nil {
		return NewSnapshotResponse(snap), nil
	}
	if h.orders == nil || !errors.Is(err, order.ErrUnknownOrder) {
		return OrderResponse{}, err
	}

	stored, err := h.orders.Get(ctx, query.Number())
	if err != nil {
		return OrderResponse{}, err
	}
	return newOrderResponse(stored), nil
}
