package workunit

import (
	"errors"
	"fmt"
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/pkg/errs"
)

var (
	// ErrUnknownWorkUnit is returned when a work unit id was never issued.
	ErrUnknownWorkUnit = errors.New("unknown work unit")
	// ErrItemsAreRequired is returned for a work unit without items.
	ErrItemsAreRequired = errs.NewValueIsRequiredError("work unit items")
	// ErrWorkUnitIsNotConstructed is returned when a WorkUnit was not created through NewWorkUnit.
	ErrWorkUnitIsNotConstructed = errors.New("WorkUnit must be created via NewWorkUnit constructor")
)

// NewNotFoundError builds the error returned for an unknown work unit id. It matches
// both errs.ErrObjectNotFound and ErrUnknownWorkUnit.
func NewNotFoundError(id kernel.UUID) error {
	return errs.NewObjectNotFoundErrorWithCause("workUnitID", id.String(), ErrUnknownWorkUnit)
}

// WorkUnit is the part of one order that a single skill group prepares.
//
// Invariants:
//   - items are a non-empty, order-preserving subset of the parent order's items
//   - itemIndexes[i] is the position of items[i] in the parent order
//   - a staff member is recorded exactly while the unit is Assigned
type WorkUnit struct {
	id          kernel.UUID
	orderNumber kernel.OrderNumber
	group       skillgroup.SkillGroup
	itemIndexes []int
	items       []order.Item

	status     Status
	assignedTo staff.ID

	// sequence and enqueuedAt record the first enqueue and survive a revert
	sequence    uint64
	enqueuedAt  time.Time
	completedAt time.Time

	isConstructed bool
}

// NewWorkUnit creates a Queued work unit. itemIndexes and items must have the same,
// non-zero length.
func NewWorkUnit(
	id kernel.UUID,
	orderNumber kernel.OrderNumber,
	group skillgroup.SkillGroup,
	itemIndexes []int,
	items []order.Item,
) (*WorkUnit, error) {
	u := &WorkUnit{
		status:        Queued,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		orderNumber.Validate(),
		u.setGroup(group),
		u.setItems(itemIndexes, items),
	); err != nil {
		return nil, err
	}
	u.id = id
	u.orderNumber = orderNumber

	return u, nil
}

// Validate ensures the WorkUnit was created through NewWorkUnit.
func (u *WorkUnit) Validate() error {
	if u == nil || !u.isConstructed {
		return ErrWorkUnitIsNotConstructed
	}
	return nil
}

// ID returns the unit's identifier.
func (u *WorkUnit) ID() kernel.UUID {
	return u.id
}

// OrderNumber returns the parent order's number.
func (u *WorkUnit) OrderNumber() kernel.OrderNumber {
	return u.orderNumber
}

// Group returns the skill group that prepares the unit.
func (u *WorkUnit) Group() skillgroup.SkillGroup {
	return u.group
}

func (u *WorkUnit) Status() Status {
	return u.status
}

// Sequence is the global enqueue position of the unit, zero until first enqueued.
func (u *WorkUnit) Sequence() uint64 {
	return u.sequence
}

func (u *WorkUnit) EnqueuedAt() time.Time {
	return u.enqueuedAt
}

// ItemIndexes returns the positions of the unit's items within the parent order.
func (u *WorkUnit) ItemIndexes() []int {
	out := make([]int, len(u.itemIndexes))
	copy(out, u.itemIndexes)
	return out
}

// Items returns a copy of the unit's items in order.
func (u *WorkUnit) Items() []order.Item {
	out := make([]order.Item, len(u.items))
	copy(out, u.items)
	return out
}

// AssignedTo returns the staff member holding the unit. ok is false unless the unit
// is Assigned.
func (u *WorkUnit) AssignedTo() (id staff.ID, ok bool) {
	if u.status != Assigned {
		return staff.ID{}, false
	}
	return u.assignedTo, true
}

// CompletedAt returns the completion time, or nil while the unit is not Completed.
func (u *WorkUnit) CompletedAt() *time.Time {
	if u.status != Completed {
		return nil
	}
	at := u.completedAt
	return &at
}

// MarkEnqueued records the unit's first entry into its group queue. Later calls,
// such as the re-entry after a revert, keep the original position.
func (u *WorkUnit) MarkEnqueued(sequence uint64, at time.Time) {
	if u.sequence != 0 {
		return
	}
	u.sequence = sequence
	u.enqueuedAt = at
}

// EnqueuedBefore orders units by their first enqueue.
func (u *WorkUnit) EnqueuedBefore(other *WorkUnit) bool {
	return u.sequence < other.sequence
}

// Assign binds a Queued unit to a staff member.
func (u *WorkUnit) Assign(staffID staff.ID) error {
	if staffID.IsZero() {
		return staff.ErrStaffIDIsRequired
	}

	newStatus, err := u.status.Assign()
	if err != nil {
		return err
	}

	u.status = newStatus
	u.assignedTo = staffID
	return nil
}

// Revert hands an Assigned unit back to the queue and returns the staff member that
// was holding it.
func (u *WorkUnit) Revert() (staff.ID, error) {
	newStatus, err := u.status.Revert()
	if err != nil {
		return staff.ID{}, err
	}

	previous := u.assignedTo
	u.status = newStatus
	u.assignedTo = staff.ID{}
	return previous, nil
}

// Complete finishes an Assigned unit. The staff id is kept for reporting.
func (u *WorkUnit) Complete(at time.Time) error {
	newStatus, err := u.status.Complete()
	if err != nil {
		return err
	}

	u.status = newStatus
	u.completedAt = at
	return nil
}

// CompletedBy returns the staff member that completed the unit.
func (u *WorkUnit) CompletedBy() (staff.ID, bool) {
	if u.status != Completed {
		return staff.ID{}, false
	}
	return u.assignedTo, true
}

// Clone returns a deep copy that shares no state with u.
func (u *WorkUnit) Clone() *WorkUnit {
	if u == nil {
		return nil
	}
	clone := *u
	clone.itemIndexes = u.ItemIndexes()
	clone.items = u.Items()
	return &clone
}

func (u *WorkUnit) setGroup(group skillgroup.SkillGroup) error {
	if group.IsZero() {
		return skillgroup.ErrSkillGroupIsRequired
	}
	u.group = group
	return nil
}

func (u *WorkUnit) setItems(itemIndexes []int, items []order.Item) error {
	if len(items) == 0 {
		return ErrItemsAreRequired
	}
	if len(itemIndexes) != len(items) {
		return errs.NewValueIsInvalidErrorWithCause(
			"item indexes are invalid",
			fmt.Errorf("%d indexes for %d items", len(itemIndexes), len(items)),
		)
	}
	for i, idx := range itemIndexes {
		if idx < 0 || (i > 0 && idx <= itemIndexes[i-1]) {
			return errs.NewValueIsInvalidErrorWithCause(
				"item indexes are invalid",
				fmt.Errorf("indexes must be non-negative and strictly increasing, got %v", itemIndexes),
			)
		}
	}

	u.itemIndexes = make([]int, len(itemIndexes))
	copy(u.itemIndexes, itemIndexes)
	u.items = make([]order.Item, len(items))
	copy(u.items, items)
	return nil
}
