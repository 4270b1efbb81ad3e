package http

import (
	"workload/internal/core/application/dispatch"
	"workload/internal/core/application/usecases/queries"
	"workload/internal/core/domain/model/kernel"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

func toOrder(o queries.OrderResponse) Order {
	result := Order{
		OrderNumber: o.Number,
		Status:      o.Status,
		CreatedAt:   o.CreatedAt,
		CompletedAt: o.CompletedAt,
		Version:     o.Version,
		Items:       make([]OrderItem, len(o.Items)),
		WorkUnits:   make([]WorkUnit, len(o.WorkUnits)),
		Counts: UnitCounts{
			Queued:    o.Counts.Queued,
			Assigned:  o.Counts.Assigned,
			Completed: o.Counts.Completed,
			Total:     o.Counts.Total,
		},
	}
	for i, item := range o.Items {
		result.Items[i] = OrderItem{
			ProductType: item.ProductType,
			Quantity:    item.Quantity,
			Completed:   item.Completed,
		}
	}
	for i, u := range o.WorkUnits {
		result.WorkUnits[i] = WorkUnit{
			Id:          toAPIUUID(u.ID),
			Group:       u.Group,
			Status:      u.Status,
			AssignedTo:  u.AssignedTo,
			ItemIndexes: u.ItemIndexes,
			EnqueuedAt:  u.EnqueuedAt,
			CompletedAt: u.CompletedAt,
		}
	}
	return result
}

func toDispatchResult(out dispatch.Outcome) DispatchResult {
	result := DispatchResult{
		Orders:      make([]OrderChange, len(out.Orders)),
		Assignments: make([]Assignment, len(out.Assignments)),
		Requeued:    make([]openapi_types.UUID, len(out.Requeued)),
	}
	for i, snap := range out.Orders {
		result.Orders[i] = OrderChange{
			OrderNumber: snap.Order.Number().String(),
			Status:      snap.Order.Status().String(),
			Version:     snap.Order.Version(),
		}
	}
	for i, a := range out.Assignments {
		result.Assignments[i] = Assignment{
			WorkUnitId:  toAPIUUID(a.WorkUnitID),
			OrderNumber: a.OrderNumber.String(),
			Group:       a.Group.String(),
			StaffId:     a.StaffID.String(),
			AssignedAt:  a.At,
		}
	}
	for i, id := range out.Requeued {
		result.Requeued[i] = toAPIUUID(id)
	}
	return result
}

func toStaffFromSnapshot(snap dispatch.StaffSnapshot) Staff {
	result := Staff{
		Id:            snap.ID.String(),
		Name:          snap.Name,
		Groups:        make([]string, len(snap.Groups)),
		LoggedIn:      snap.LoggedIn,
		AssignedUnits: make([]string, len(snap.AssignedUnits)),
	}
	for i, g := range snap.Groups {
		result.Groups[i] = g.String()
	}
	for i, id := range snap.AssignedUnits {
		result.AssignedUnits[i] = id.String()
	}
	if snap.LoggedIn {
		at := snap.LoggedInAt
		result.LoggedInAt = &at
	}
	return result
}

func toAPIUUID(id kernel.UUID) openapi_types.UUID {
	return id.Bytes()
}
