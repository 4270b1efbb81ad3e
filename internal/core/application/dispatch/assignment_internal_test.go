package dispatch

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/domain/model/workunit"
	"workload/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var grill = skillgroup.MustSkillGroup("Grill")

func newTestAssigner(t *testing.T) *AssignmentEngine {
	t.Helper()
	now := func() time.Time { return time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC) }
	return newAssignmentEngine(
		newQueueSet(),
		NewStaffAvailabilityRegistry(now),
		NewOrderStatusTracker(),
		0,
		now,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)
}

func addLoggedIn(t *testing.T, a *AssignmentEngine, id string) staff.ID {
	t.Helper()
	m, err := staff.NewMember(staff.MustID(id), id, []skillgroup.SkillGroup{grill})
	require.NoError(t, err)
	require.NoError(t, a.staff.Register(m))
	_, err = a.staff.Login(m.ID())
	require.NoError(t, err)
	return m.ID()
}

func newGrillUnit(t *testing.T) *workunit.WorkUnit {
	t.Helper()
	number, err := kernel.NewOrderNumber("O1")
	require.NoError(t, err)
	pt, err := skillgroup.NewProductType("Steak")
	require.NoError(t, err)
	item, err := order.NewItem(pt, 1)
	require.NoError(t, err)
	u, err := workunit.NewWorkUnit(kernel.NewUUID(), number, grill, []int{0}, []order.Item{item})
	require.NoError(t, err)
	return u
}

func TestAssignmentEngine_DrainPutsUnassignableHeadBack(t *testing.T) {
	a := newTestAssigner(t)
	s1 := addLoggedIn(t, a, "S1")

	u := newGrillUnit(t)
	q := a.queues.get(grill)
	q.Enqueue(u, a.now())
	// A unit that is no longer Queued cannot be assigned again.
	require.NoError(t, u.Assign(staff.MustID("S9")))

	fx := &effects{}
	a.Run(context.Background(), []skillgroup.SkillGroup{grill}, fx)

	assert.Empty(t, fx.assignments)
	assert.Empty(t, fx.events)
	require.Equal(t, 1, q.Len())
	head, ok := q.Peek()
	require.True(t, ok)
	assert.Same(t, u, head)

	snap, err := a.staff.Snapshot(s1)
	require.NoError(t, err)
	assert.Empty(t, snap.AssignedUnits)
}

func TestAssignmentEngine_DrainStopsWithoutEligibleStaff(t *testing.T) {
	a := newTestAssigner(t)
	u := newGrillUnit(t)
	q := a.queues.get(grill)
	q.Enqueue(u, a.now())

	fx := &effects{}
	a.Run(context.Background(), []skillgroup.SkillGroup{grill}, fx)

	assert.Empty(t, fx.assignments)
	assert.Equal(t, 1, q.Len())
	assert.Equal(t, workunit.Queued, u.Status())

	_, err := a.bind(grill, u.ID())
	require.ErrorIs(t, err, services.ErrNoEligibleStaff)
}

func TestAssignmentEngine_BindUsesSelection(t *testing.T) {
	a := newTestAssigner(t)
	s1 := addLoggedIn(t, a, "S1")
	s2 := addLoggedIn(t, a, "S2")

	first, err := a.bind(grill, kernel.NewUUID())
	require.NoError(t, err)
	second, err := a.bind(grill, kernel.NewUUID())
	require.NoError(t, err)

	assert.Equal(t, s1, first)
	assert.Equal(t, s2, second, "the member with fewer units goes next")
}

func TestWithoutCandidate(t *testing.T) {
	in := []services.Candidate{
		{ID: staff.MustID("S1")},
		{ID: staff.MustID("S2")},
	}

	out := withoutCandidate(in, staff.MustID("S1"))

	require.Len(t, out, 1)
	assert.Equal(t, "S2", out[0].ID.String())
	assert.Len(t, in, 2)
}
