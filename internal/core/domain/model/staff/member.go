package staff

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/pkg/errs"
)

var (
	// ErrUnknownStaff is returned when an operation references a staff id that was never registered.
	ErrUnknownStaff = errors.New("unknown staff")
	// ErrDuplicateStaff is returned when a staff id is registered twice.
	ErrDuplicateStaff = errors.New("staff already registered")
	// ErrStaffIDIsRequired is returned for a blank staff id.
	ErrStaffIDIsRequired = errs.NewValueIsRequiredError("staff id")
	// ErrSkillGroupsAreRequired is returned when a member would belong to no skill group.
	ErrSkillGroupsAreRequired = errs.NewValueIsRequiredError("skill groups")
	// ErrMemberIsLoggedOut is returned when work is bound to a member that is not logged in.
	ErrMemberIsLoggedOut = errors.New("staff member is logged out")
	// ErrMemberIsNotConstructed is returned when a Member was not created through NewMember.
	ErrMemberIsNotConstructed = errors.New("Member must be created via NewMember constructor")
)

// ID identifies a staff member, e.g. "S001".
type ID struct {
	value string
}

// NewID validates a staff id. Surrounding whitespace is trimmed.
func NewID(value string) (ID, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return ID{}, ErrStaffIDIsRequired
	}
	return ID{value: value}, nil
}

// MustID is NewID for constants and tests.
func MustID(value string) ID {
	id, err := NewID(value)
	if err != nil {
		panic(err)
	}
	return id
}

func (id ID) String() string {
	return id.value
}

// IsZero reports whether the id was never set.
func (id ID) IsZero() bool {
	return id.value == ""
}

// Less orders ids lexically; it is the last tie-break of staff selection.
func (id ID) Less(other ID) bool {
	return id.value < other.value
}

// NewNotFoundError builds the error returned for an unregistered id. It matches both
// errs.ErrObjectNotFound and ErrUnknownStaff.
func NewNotFoundError(id ID) error {
	return errs.NewObjectNotFoundErrorWithCause("staffID", id.value, ErrUnknownStaff)
}

// NewDuplicateError builds the error returned when id is registered twice.
func NewDuplicateError(id ID) error {
	return fmt.Errorf("%w: %s", ErrDuplicateStaff, id.value)
}

// Member is a staff member together with its availability and current load.
//
// Invariants:
//   - id is set and the member belongs to at least one skill group
//   - groups never change after construction
//   - a logged-out member holds no work units
type Member struct {
	id     ID
	name   string
	groups []skillgroup.SkillGroup

	loggedIn   bool
	loginSeq   uint64
	loggedInAt time.Time
	assigned   map[kernel.UUID]struct{}

	isConstructed bool
}

// NewMember creates a logged-out member. Duplicate groups are collapsed and the
// groups are kept sorted by name. A blank name defaults to the id.
func NewMember(id ID, name string, groups []skillgroup.SkillGroup) (*Member, error) {
	m := &Member{
		assigned:      make(map[kernel.UUID]struct{}),
		isConstructed: true,
	}

	if err := errors.Join(
		m.setID(id),
		m.setGroups(groups),
	); err != nil {
		return nil, err
	}

	m.name = strings.TrimSpace(name)
	if m.name == "" {
		m.name = id.String()
	}
	return m, nil
}

// RestoreMember rebuilds a member read from the staff directory. Availability is never
// persisted, so a restored member always starts logged out.
func RestoreMember(id ID, name string, groups []skillgroup.SkillGroup) (*Member, error) {
	return NewMember(id, name, groups)
}

// Validate ensures the member was created through NewMember.
func (m *Member) Validate() error {
	if m == nil || !m.isConstructed {
		return ErrMemberIsNotConstructed
	}
	return nil
}

// ID returns the member's identifier.
func (m *Member) ID() ID {
	return m.id
}

// Name returns the display name.
func (m *Member) Name() string {
	return m.name
}

// Groups returns a copy of the member's skill groups, sorted by name.
func (m *Member) Groups() []skillgroup.SkillGroup {
	out := make([]skillgroup.SkillGroup, len(m.groups))
	copy(out, m.groups)
	return out
}

// BelongsTo reports whether the member is qualified for group.
func (m *Member) BelongsTo(group skillgroup.SkillGroup) bool {
	for _, g := range m.groups {
		if g == group {
			return true
		}
	}
	return false
}

// IsLoggedIn reports the availability flag.
func (m *Member) IsLoggedIn() bool {
	return m.loggedIn
}

// LoginSeq is the position of the member's current login among all logins.
// Lower means logged in earlier. Zero while logged out.
func (m *Member) LoginSeq() uint64 {
	return m.loginSeq
}

// LoggedInAt is the wall-clock time of the current login.
func (m *Member) LoggedInAt() time.Time {
	return m.loggedInAt
}

// AssignedCount is the number of work units the member currently holds.
func (m *Member) AssignedCount() int {
	return len(m.assigned)
}

// Holds reports whether the member currently holds the work unit.
func (m *Member) Holds(unitID kernel.UUID) bool {
	_, ok := m.assigned[unitID]
	return ok
}

// AssignedUnits returns the ids of held work units, sorted by their string form.
func (m *Member) AssignedUnits() []kernel.UUID {
	units := make([]kernel.UUID, 0, len(m.assigned))
	for id := range m.assigned {
		units = append(units, id)
	}
	sort.Slice(units, func(i, j int) bool { return units[i].String() < units[j].String() })
	return units
}

// Login marks the member available. It returns false, changing nothing, when the
// member is already logged in.
func (m *Member) Login(seq uint64, at time.Time) bool {
	if m.loggedIn {
		return false
	}
	m.loggedIn = true
	m.loginSeq = seq
	m.loggedInAt = at
	return true
}

// Logout marks the member unavailable and returns the work units it was holding,
// which the caller must requeue. The second result is false when the member was
// already logged out.
func (m *Member) Logout() ([]kernel.UUID, bool) {
	if !m.loggedIn {
		return nil, false
	}

	held := m.AssignedUnits()
	m.loggedIn = false
	m.loginSeq = 0
	m.loggedInAt = time.Time{}
	m.assigned = make(map[kernel.UUID]struct{})
	return held, true
}

// CanTake reports whether the member may receive one more work unit.
// capacity <= 0 means unlimited.
func (m *Member) CanTake(capacity int) bool {
	if !m.loggedIn {
		return false
	}
	return capacity <= 0 || len(m.assigned) < capacity
}

// Take records a work unit as held by the member.
func (m *Member) Take(unitID kernel.UUID) error {
	if err := unitID.Validate(); err != nil {
		return err
	}
	if !m.loggedIn {
		return ErrMemberIsLoggedOut
	}
	m.assigned[unitID] = struct{}{}
	return nil
}

// Release forgets a held work unit. It returns false if the unit was not held,
// which happens when a logout already handed it back.
func (m *Member) Release(unitID kernel.UUID) bool {
	if _, ok := m.assigned[unitID]; !ok {
		return false
	}
	delete(m.assigned, unitID)
	return true
}

func (m *Member) setID(id ID) error {
	if id.IsZero() {
		return ErrStaffIDIsRequired
	}
	m.id = id
	return nil
}

func (m *Member) setGroups(groups []skillgroup.SkillGroup) error {
	seen := make(map[skillgroup.SkillGroup]struct{}, len(groups))
	unique := make([]skillgroup.SkillGroup, 0, len(groups))
	for _, g := range groups {
		if g.IsZero() {
			return skillgroup.ErrSkillGroupIsRequired
		}
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		unique = append(unique, g)
	}
	if len(unique) == 0 {
		return ErrSkillGroupsAreRequired
	}

	sort.Slice(unique, func(i, j int) bool { return unique[i].Less(unique[j]) })
	m.groups = unique
	return nil
}
