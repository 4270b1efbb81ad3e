package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"workload/internal/core/domain/events"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/domain/model/workunit"
	"workload/internal/core/domain/services"
)

// Assignment records one work unit bound to one staff member.
type Assignment struct {
	WorkUnitID  kernel.UUID
	OrderNumber kernel.OrderNumber
	Group       skillgroup.SkillGroup
	StaffID     staff.ID
	At          time.Time
}

// effects collects what one engine operation changed. Events are published only once
// the operation has released all its locks.
type effects struct {
	events      []events.Event
	assignments []Assignment
	requeued    []kernel.UUID
	orders      orderedSet
}

func (fx *effects) emit(evs ...events.Event) {
	fx.events = append(fx.events, evs...)
}

// AssignmentEngine binds Queued work units to eligible staff members.
//
// A staff member is eligible for a group when it is logged in, belongs to the group and
// holds fewer units than capacity (capacity <= 0 means unlimited). Among eligible members
// the StaffSelector picks the one with the fewest units, then the earliest login, then
// the lowest id.
type AssignmentEngine struct {
	queues   *queueSet
	staff    *StaffAvailabilityRegistry
	tracker  *OrderStatusTracker
	selector services.StaffSelector
	capacity int
	now      func() time.Time
	logger   *slog.Logger
}

func newAssignmentEngine(
	queues *queueSet,
	staffRegistry *StaffAvailabilityRegistry,
	tracker *OrderStatusTracker,
	capacity int,
	now func() time.Time,
	logger *slog.Logger,
) *AssignmentEngine {
	return &AssignmentEngine{
		queues:   queues,
		staff:    staffRegistry,
		tracker:  tracker,
		selector: services.NewStaffSelector(),
		capacity: capacity,
		now:      now,
		logger:   logger,
	}
}

// Run drains the queues of groups, in the given order, for as long as each head can be
// bound to an eligible member.
func (a *AssignmentEngine) Run(ctx context.Context, groups []skillgroup.SkillGroup, fx *effects) {
	for _, g := range groups {
		a.drain(ctx, g, fx)
	}
}

func (a *AssignmentEngine) drain(ctx context.Context, group skillgroup.SkillGroup, fx *effects) {
	q := a.queues.get(group)
	q.mu.Lock()
	defer q.mu.Unlock()

	for {
		var (
			staffID staff.ID
			head    *workunit.WorkUnit
			bindErr error
		)
		u, ok := q.dequeueIf(func(h *workunit.WorkUnit) bool {
			head = h
			staffID, bindErr = a.bind(group, h.ID())
			return bindErr == nil
		})
		if !ok {
			if head != nil && errors.Is(bindErr, services.ErrNoEligibleStaff) {
				a.logger.DebugContext(ctx, "no eligible staff, unit stays queued",
					"group", group.String(), "work_unit_id", head.ID().String(), "queue_depth", q.units.Len())
			}
			return
		}

		at := a.now()
		if err := u.Assign(staffID); err != nil {
			// Units in a queue are always Queued; undo the staff side and stop.
			a.staff.release(staffID, u.ID())
			q.pushFront(u)
			a.logger.ErrorContext(ctx, "failed to assign queued unit", "work_unit_id", u.ID().String(), "error", err)
			return
		}

		statusEvents, err := a.tracker.Assigned(u, at)
		if err != nil {
			a.logger.ErrorContext(ctx, "failed to track assignment", "work_unit_id", u.ID().String(), "error", err)
		}

		fx.emit(events.NewWorkUnitAssigned(at, u.ID(), u.OrderNumber(), group, staffID))
		fx.emit(statusEvents...)
		fx.assignments = append(fx.assignments, Assignment{
			WorkUnitID:  u.ID(),
			OrderNumber: u.OrderNumber(),
			Group:       group,
			StaffID:     staffID,
			At:          at,
		})
		fx.orders.add(u.OrderNumber())

		a.logger.InfoContext(ctx, "work unit assigned",
			"work_unit_id", u.ID().String(),
			"order_number", u.OrderNumber().String(),
			"group", group.String(),
			"staff_id", staffID.String())
	}
}

// bind offers the unit to the selected candidate. A candidate that refuses under its own
// lock (logged out or filled up in the meantime) is dropped and the next one selected.
func (a *AssignmentEngine) bind(group skillgroup.SkillGroup, unitID kernel.UUID) (staff.ID, error) {
	candidates := a.staff.candidates(group, a.capacity)
	for {
		c, err := a.selector.Select(candidates)
		if err != nil {
			return staff.ID{}, err
		}
		if a.staff.bind(c.ID, group, unitID, a.capacity) {
			return c.ID, nil
		}
		candidates = withoutCandidate(candidates, c.ID)
	}
}

func withoutCandidate(candidates []services.Candidate, id staff.ID) []services.Candidate {
	out := make([]services.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// requeue hands the units of a logged-out member back to the front of their queues.
// Units of one group keep their original relative order. A unit that was completed or
// is no longer held by the member in the meantime is left alone.
func (a *AssignmentEngine) requeue(ctx context.Context, staffID staff.ID, units []*workunit.WorkUnit, fx *effects) groupSet {
	byGroup := make(map[skillgroup.SkillGroup][]*workunit.WorkUnit)
	touched := make(groupSet)
	for _, u := range units {
		byGroup[u.Group()] = append(byGroup[u.Group()], u)
		touched.add(u.Group())
	}

	for _, g := range touched.sorted() {
		a.requeueGroup(ctx, staffID, g, byGroup[g], fx)
	}
	return touched
}

func (a *AssignmentEngine) requeueGroup(
	ctx context.Context,
	staffID staff.ID,
	group skillgroup.SkillGroup,
	units []*workunit.WorkUnit,
	fx *effects,
) {
	q := a.queues.get(group)
	q.mu.Lock()
	defer q.mu.Unlock()

	sortUnitsByEnqueue(units)
	at := a.now()

	// Pushing the newest first leaves the oldest at the head.
	for i := len(units) - 1; i >= 0; i-- {
		u := units[i]
		if holder, ok := u.AssignedTo(); !ok || holder != staffID {
			continue
		}
		if _, err := u.Revert(); err != nil {
			a.logger.ErrorContext(ctx, "failed to revert unit", "work_unit_id", u.ID().String(), "error", err)
			continue
		}
		if err := a.tracker.Requeued(u); err != nil {
			a.logger.ErrorContext(ctx, "failed to track requeue", "work_unit_id", u.ID().String(), "error", err)
		}
		q.pushFront(u)

		fx.emit(events.NewWorkUnitRequeued(at, u.ID(), u.OrderNumber(), group, staffID))
		fx.requeued = append(fx.requeued, u.ID())
		fx.orders.add(u.OrderNumber())

		a.logger.InfoContext(ctx, "work unit requeued at front",
			"work_unit_id", u.ID().String(),
			"order_number", u.OrderNumber().String(),
			"group", group.String(),
			"staff_id", staffID.String())
	}
}

// complete finishes an Assigned unit and frees its holder. It returns the holder.
func (a *AssignmentEngine) complete(ctx context.Context, u *workunit.WorkUnit, fx *effects) (staff.ID, error) {
	q := a.queues.get(u.Group())
	q.mu.Lock()
	defer q.mu.Unlock()

	holder, ok := u.AssignedTo()
	if !ok {
		_, err := u.Status().Complete()
		return staff.ID{}, err
	}

	at := a.now()
	a.staff.release(holder, u.ID())
	if err := u.Complete(at); err != nil {
		return staff.ID{}, err
	}

	statusEvents, err := a.tracker.Completed(u, at)
	if err != nil {
		a.logger.ErrorContext(ctx, "failed to track completion", "work_unit_id", u.ID().String(), "error", err)
	}

	fx.emit(events.NewWorkUnitCompleted(at, u.ID(), u.OrderNumber(), u.Group(), holder))
	fx.emit(statusEvents...)
	fx.orders.add(u.OrderNumber())

	a.logger.InfoContext(ctx, "work unit completed",
		"work_unit_id", u.ID().String(),
		"order_number", u.OrderNumber().String(),
		"staff_id", holder.String())
	return holder, nil
}
