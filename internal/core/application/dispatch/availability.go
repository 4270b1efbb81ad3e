package dispatch

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"workload/internal/core/domain/events"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/domain/services"
)

// StaffSnapshot is a copy of a staff member's state at one point in time.
type StaffSnapshot struct {
	ID            staff.ID
	Name          string
	Groups        []skillgroup.SkillGroup
	LoggedIn      bool
	LoginSeq      uint64
	LoggedInAt    time.Time
	AssignedUnits []kernel.UUID
}

func snapshotMember(m *staff.Member) StaffSnapshot {
	return StaffSnapshot{
		ID:            m.ID(),
		Name:          m.Name(),
		Groups:        m.Groups(),
		LoggedIn:      m.IsLoggedIn(),
		LoginSeq:      m.LoginSeq(),
		LoggedInAt:    m.LoggedInAt(),
		AssignedUnits: m.AssignedUnits(),
	}
}

// AvailabilityChange is the result of a login or logout.
type AvailabilityChange struct {
	StaffID staff.ID
	Groups  []skillgroup.SkillGroup
	// Changed is false for a repeated login or logout, which changes nothing.
	Changed bool
	// HandedBack lists the units the member held when it logged out.
	HandedBack []kernel.UUID
	Events     []events.Event
}

type staffSlot struct {
	mu     sync.Mutex
	member *staff.Member
}

// StaffAvailabilityRegistry holds every registered staff member and its availability.
// Each member is guarded by its own lock; the registry lock only guards the indexes.
type StaffAvailabilityRegistry struct {
	mu      sync.RWMutex
	slots   map[staff.ID]*staffSlot
	byGroup map[skillgroup.SkillGroup][]*staffSlot

	logins atomic.Uint64
	now    func() time.Time
}

// NewStaffAvailabilityRegistry creates an empty registry. A nil now defaults to time.Now.
func NewStaffAvailabilityRegistry(now func() time.Time) *StaffAvailabilityRegistry {
	if now == nil {
		now = time.Now
	}
	return &StaffAvailabilityRegistry{
		slots:   make(map[staff.ID]*staffSlot),
		byGroup: make(map[skillgroup.SkillGroup][]*staffSlot),
		now:     now,
	}
}

// Register adds a logged-out member.
func (r *StaffAvailabilityRegistry) Register(m *staff.Member) error {
	if err := m.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.slots[m.ID()]; ok {
		return staff.NewDuplicateError(m.ID())
	}

	slot := &staffSlot{member: m}
	r.slots[m.ID()] = slot
	for _, g := range m.Groups() {
		r.byGroup[g] = append(r.byGroup[g], slot)
	}
	return nil
}

// Login marks the member available. A repeated login succeeds without any change and
// without events; the first one raises StaffBecameAvailable once per group.
func (r *StaffAvailabilityRegistry) Login(id staff.ID) (AvailabilityChange, error) {
	slot, err := r.slot(id)
	if err != nil {
		return AvailabilityChange{}, err
	}

	at := r.now()
	slot.mu.Lock()
	changed := false
	if !slot.member.IsLoggedIn() {
		changed = slot.member.Login(r.logins.Add(1), at)
	}
	groups := slot.member.Groups()
	slot.mu.Unlock()

	change := AvailabilityChange{StaffID: id, Groups: groups, Changed: changed}
	if changed {
		for _, g := range groups {
			change.Events = append(change.Events, events.NewStaffBecameAvailable(at, id, g))
		}
	}
	return change, nil
}

// Logout marks the member unavailable and returns the units it held. The caller is
// responsible for requeueing them. Logging out a logged-out member changes nothing.
func (r *StaffAvailabilityRegistry) Logout(id staff.ID) (AvailabilityChange, error) {
	slot, err := r.slot(id)
	if err != nil {
		return AvailabilityChange{}, err
	}

	at := r.now()
	slot.mu.Lock()
	held, changed := slot.member.Logout()
	groups := slot.member.Groups()
	slot.mu.Unlock()

	change := AvailabilityChange{StaffID: id, Groups: groups, Changed: changed, HandedBack: held}
	if changed {
		for _, g := range groups {
			change.Events = append(change.Events, events.NewStaffBecameUnavailable(at, id, g))
		}
	}
	return change, nil
}

// IsGroupStaffed reports whether at least one member of group is logged in.
func (r *StaffAvailabilityRegistry) IsGroupStaffed(group skillgroup.SkillGroup) bool {
	for _, slot := range r.slotsOf(group) {
		slot.mu.Lock()
		loggedIn := slot.member.IsLoggedIn()
		slot.mu.Unlock()
		if loggedIn {
			return true
		}
	}
	return false
}

// AvailableStaffFor returns snapshots of the logged-in members of group, sorted by id.
func (r *StaffAvailabilityRegistry) AvailableStaffFor(group skillgroup.SkillGroup) []StaffSnapshot {
	var out []StaffSnapshot
	for _, slot := range r.slotsOf(group) {
		slot.mu.Lock()
		if slot.member.IsLoggedIn() {
			out = append(out, snapshotMember(slot.member))
		}
		slot.mu.Unlock()
	}
	sortStaff(out)
	return out
}

// Snapshot returns the state of one member.
func (r *StaffAvailabilityRegistry) Snapshot(id staff.ID) (StaffSnapshot, error) {
	slot, err := r.slot(id)
	if err != nil {
		return StaffSnapshot{}, err
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return snapshotMember(slot.member), nil
}

// All returns snapshots of every registered member, sorted by id.
func (r *StaffAvailabilityRegistry) All() []StaffSnapshot {
	r.mu.RLock()
	slots := make([]*staffSlot, 0, len(r.slots))
	for _, slot := range r.slots {
		slots = append(slots, slot)
	}
	r.mu.RUnlock()

	out := make([]StaffSnapshot, 0, len(slots))
	for _, slot := range slots {
		slot.mu.Lock()
		out = append(out, snapshotMember(slot.member))
		slot.mu.Unlock()
	}
	sortStaff(out)
	return out
}

// candidates returns the members of group that may take one more unit.
func (r *StaffAvailabilityRegistry) candidates(group skillgroup.SkillGroup, capacity int) []services.Candidate {
	var out []services.Candidate
	for _, slot := range r.slotsOf(group) {
		slot.mu.Lock()
		if slot.member.CanTake(capacity) {
			out = append(out, services.CandidateOf(slot.member))
		}
		slot.mu.Unlock()
	}
	return out
}

// bind records unitID on the member if it is still eligible. Eligibility is checked
// again under the member lock, so a member that logged out after the candidates were
// taken is never bound.
func (r *StaffAvailabilityRegistry) bind(id staff.ID, group skillgroup.SkillGroup, unitID kernel.UUID, capacity int) bool {
	slot, err := r.slot(id)
	if err != nil {
		return false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()

	if !slot.member.BelongsTo(group) || !slot.member.CanTake(capacity) {
		return false
	}
	return slot.member.Take(unitID) == nil
}

// release forgets unitID on the member. It returns false when a logout already took it.
func (r *StaffAvailabilityRegistry) release(id staff.ID, unitID kernel.UUID) bool {
	slot, err := r.slot(id)
	if err != nil {
		return false
	}

	slot.mu.Lock()
	defer slot.mu.Unlock()
	return slot.member.Release(unitID)
}

// groupsOf returns the groups of a member. Groups are immutable, so no member lock
// is needed.
func (r *StaffAvailabilityRegistry) groupsOf(id staff.ID) []skillgroup.SkillGroup {
	slot, err := r.slot(id)
	if err != nil {
		return nil
	}
	return slot.member.Groups()
}

func (r *StaffAvailabilityRegistry) slot(id staff.ID) (*staffSlot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	slot, ok := r.slots[id]
	if !ok {
		return nil, staff.NewNotFoundError(id)
	}
	return slot, nil
}

func (r *StaffAvailabilityRegistry) slotsOf(group skillgroup.SkillGroup) []*staffSlot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]*staffSlot(nil), r.byGroup[group]...)
}

func sortStaff(s []StaffSnapshot) {
	sort.Slice(s, func(i, j int) bool { return s[i].ID.Less(s[j].ID) })
}
