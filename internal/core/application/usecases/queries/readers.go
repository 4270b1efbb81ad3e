// Package queries contains read-only operations over the dispatch core.
// Queries never change state. Live orders are read from the engine; orders placed by
// earlier runs are served from the order repository when one is configured.
package queries

import (
	"context"
	"time"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
)

// Engine views each query needs. *dispatch.Engine implements all of them.
type (
	OrderReader interface {
		OrderStatus(ctx context.Context, number kernel.OrderNumber) (dispatch.OrderSnapshot, error)
		OrdersByStatus(ctx context.Context, status order.Status) ([]dispatch.OrderSnapshot, error)
	}

	ProductCatalog interface {
		AvailableProducts(ctx context.Context) []skillgroup.ProductType
	}

	QueueMonitor interface {
		QueueDepths(ctx context.Context) []dispatch.QueueDepth
	}

	StaffDirectory interface {
		Staff(ctx context.Context) []dispatch.StaffSnapshot
	}
)

// OrderResponse describes one order, its items and, for live orders, its work units.
type OrderResponse struct {
	Number      string
	Status      string
	CreatedAt   time.Time
	CompletedAt *time.Time
	Version     int64
	Items       []ItemResponse
	WorkUnits   []WorkUnitResponse
	Counts      dispatch.UnitCounts
}

// ItemResponse is one order line.
type ItemResponse struct {
	ProductType string
	Quantity    int
	Completed   bool
}

// WorkUnitResponse is one work unit of a live order.
type WorkUnitResponse struct {
	ID          kernel.UUID
	Group       string
	Status      string
	AssignedTo  string
	ItemIndexes []int
	EnqueuedAt  time.Time
	CompletedAt *time.Time
}

func newOrderResponse(o *order.Order) OrderResponse {
	resp := OrderResponse{
		Number:      o.Number().String(),
		Status:      o.Status().String(),
		CreatedAt:   o.CreatedAt(),
		CompletedAt: o.CompletedAt(),
		Version:     o.Version(),
		Items:       make([]ItemResponse, 0, len(o.Items())),
		WorkUnits:   make([]WorkUnitResponse, 0),
	}
	for _, item := range o.Items() {
		resp.Items = append(resp.Items, ItemResponse{
			ProductType: item.ProductType().String(),
			Quantity:    item.Quantity(),
			Completed:   item.IsCompleted(),
		})
	}
	return resp
}

// NewSnapshotResponse describes a live order together with its work units.
func NewSnapshotResponse(snap dispatch.OrderSnapshot) OrderResponse {
	resp := newOrderResponse(snap.Order)
	resp.Counts = snap.Counts
	for _, u := range snap.Units {
		unit := WorkUnitResponse{
			ID:          u.ID(),
			Group:       u.Group().String(),
			Status:      u.Status().String(),
			ItemIndexes: u.ItemIndexes(),
			EnqueuedAt:  u.EnqueuedAt(),
			CompletedAt: u.CompletedAt(),
		}
		if holder, ok := u.AssignedTo(); ok {
			unit.AssignedTo = holder.String()
		}
		resp.WorkUnits = append(resp.WorkUnits, unit)
	}
	return resp
}
