package events

import (
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
)

// Type identifies an event kind. Convention: "category.action".
type Type string

const (
	StaffBecameAvailable   Type = "staff.available"
	StaffBecameUnavailable Type = "staff.unavailable"
	WorkUnitQueued         Type = "workunit.queued"
	WorkUnitAssigned       Type = "workunit.assigned"
	WorkUnitRequeued       Type = "workunit.requeued"
	WorkUnitCompleted      Type = "workunit.completed"
	OrderStatusChanged     Type = "order.status_changed"
)

// Event is implemented by every domain event.
type Event interface {
	EventType() Type
	Timestamp() time.Time
}

type baseEvent struct {
	eventType Type
	timestamp time.Time
}

func (e baseEvent) EventType() Type      { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

// StaffAvailabilityEvent is raised once per skill group of a staff member when the
// member logs in (StaffBecameAvailable) or out (StaffBecameUnavailable).
type StaffAvailabilityEvent struct {
	baseEvent
	StaffID staff.ID
	Group   skillgroup.SkillGroup
}

// NewStaffBecameAvailable creates a StaffBecameAvailable event.
func NewStaffBecameAvailable(at time.Time, staffID staff.ID, group skillgroup.SkillGroup) StaffAvailabilityEvent {
	return StaffAvailabilityEvent{
		baseEvent: baseEvent{eventType: StaffBecameAvailable, timestamp: at},
		StaffID:   staffID,
		Group:     group,
	}
}

// NewStaffBecameUnavailable creates a StaffBecameUnavailable event.
func NewStaffBecameUnavailable(at time.Time, staffID staff.ID, group skillgroup.SkillGroup) StaffAvailabilityEvent {
	return StaffAvailabilityEvent{
		baseEvent: baseEvent{eventType: StaffBecameUnavailable, timestamp: at},
		StaffID:   staffID,
		Group:     group,
	}
}

// WorkUnitEvent describes a work unit changing state. StaffID is the member that
// received the unit (assigned), handed it back (requeued) or finished it (completed);
// it is zero for WorkUnitQueued.
type WorkUnitEvent struct {
	baseEvent
	WorkUnitID  kernel.UUID
	OrderNumber kernel.OrderNumber
	Group       skillgroup.SkillGroup
	StaffID     staff.ID
}

func newWorkUnitEvent(
	eventType Type,
	at time.Time,
	unitID kernel.UUID,
	number kernel.OrderNumber,
	group skillgroup.SkillGroup,
	staffID staff.ID,
) WorkUnitEvent {
	return WorkUnitEvent{
		baseEvent:   baseEvent{eventType: eventType, timestamp: at},
		WorkUnitID:  unitID,
		OrderNumber: number,
		Group:       group,
		StaffID:     staffID,
	}
}

// NewWorkUnitQueued creates a WorkUnitQueued event.
func NewWorkUnitQueued(at time.Time, unitID kernel.UUID, number kernel.OrderNumber, group skillgroup.SkillGroup) WorkUnitEvent {
	return newWorkUnitEvent(WorkUnitQueued, at, unitID, number, group, staff.ID{})
}

// NewWorkUnitAssigned creates a WorkUnitAssigned event.
func NewWorkUnitAssigned(
	at time.Time,
	unitID kernel.UUID,
	number kernel.OrderNumber,
	group skillgroup.SkillGroup,
	staffID staff.ID,
) WorkUnitEvent {
	return newWorkUnitEvent(WorkUnitAssigned, at, unitID, number, group, staffID)
}

// NewWorkUnitRequeued creates a WorkUnitRequeued event.
func NewWorkUnitRequeued(
	at time.Time,
	unitID kernel.UUID,
	number kernel.OrderNumber,
	group skillgroup.SkillGroup,
	staffID staff.ID,
) WorkUnitEvent {
	return newWorkUnitEvent(WorkUnitRequeued, at, unitID, number, group, staffID)
}

// NewWorkUnitCompleted creates a WorkUnitCompleted event.
func NewWorkUnitCompleted(
	at time.Time,
	unitID kernel.UUID,
	number kernel.OrderNumber,
	group skillgroup.SkillGroup,
	staffID staff.ID,
) WorkUnitEvent {
	return newWorkUnitEvent(WorkUnitCompleted, at, unitID, number, group, staffID)
}

// OrderStatusChangedEvent is raised on every order status transition.
type OrderStatusChangedEvent struct {
	baseEvent
	OrderNumber kernel.OrderNumber
	From        order.Status
	To          order.Status
	Version     int64
}

// NewOrderStatusChanged creates an OrderStatusChanged event.
func NewOrderStatusChanged(at time.Time, number kernel.OrderNumber, from, to order.Status, version int64) OrderStatusChangedEvent {
	return OrderStatusChangedEvent{
		baseEvent:   baseEvent{eventType: OrderStatusChanged, timestamp: at},
		OrderNumber: number,
		From:        from,
		To:          to,
		Version:     version,
	}
}
