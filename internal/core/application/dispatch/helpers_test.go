package dispatch_test

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/events"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/domain/model/workunit"

	"github.com/stretchr/testify/require"
)

var (
	kitchen = skillgroup.MustSkillGroup("Kitchen")
	bar     = skillgroup.MustSkillGroup("Bar")

	pizza  = skillgroup.MustProductType("Pizza")
	burger = skillgroup.MustProductType("Burger")
	soda   = skillgroup.MustProductType("Soda")
	beer   = skillgroup.MustProductType("Beer")

	quietLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func newStepClock() *stepClock {
	return &stepClock{t: time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type eventLog struct {
	mu     sync.Mutex
	events []events.Event
}

func (l *eventLog) record(_ context.Context, e events.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func (l *eventLog) all() []events.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]events.Event(nil), l.events...)
}

func (l *eventLog) ofType(t events.Type) []events.Event {
	var out []events.Event
	for _, e := range l.all() {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

type fixture struct {
	engine *dispatch.Engine
	log    *eventLog
	clock  *stepClock
}

func newRegistry(t *testing.T) *skillgroup.Registry {
	t.Helper()
	r, err := skillgroup.NewRegistry(map[skillgroup.SkillGroup][]skillgroup.ProductType{
		kitchen: {pizza, burger},
		bar:     {soda, beer},
	})
	require.NoError(t, err)
	return r
}

func newFixture(t *testing.T, maxUnitsPerStaff int) *fixture {
	t.Helper()

	clock := newStepClock()
	log := &eventLog{}
	bus := events.NewBus(quietLogger)
	bus.SubscribeAll(log.record)

	engine, err := dispatch.NewEngine(dispatch.Config{
		Registry:         newRegistry(t),
		Publisher:        bus,
		MaxUnitsPerStaff: maxUnitsPerStaff,
		Numbers:          kernel.NewOrderNumberSequence(0, clock.Now),
		Now:              clock.Now,
		Logger:           quietLogger,
	})
	require.NoError(t, err)

	return &fixture{engine: engine, log: log, clock: clock}
}

func (f *fixture) register(t *testing.T, id string, groups ...skillgroup.SkillGroup) staff.ID {
	t.Helper()
	staffID := staff.MustID(id)
	_, err := f.engine.RegisterStaff(t.Context(), staffID, id, groups)
	require.NoError(t, err)
	return staffID
}

func (f *fixture) login(t *testing.T, id staff.ID) dispatch.Outcome {
	t.Helper()
	out, err := f.engine.StaffLogin(t.Context(), id)
	require.NoError(t, err)
	return out
}

func (f *fixture) logout(t *testing.T, id staff.ID) dispatch.Outcome {
	t.Helper()
	out, err := f.engine.StaffLogout(t.Context(), id)
	require.NoError(t, err)
	return out
}

func (f *fixture) submit(t *testing.T, number string, products ...skillgroup.ProductType) dispatch.OrderSnapshot {
	t.Helper()
	items := make([]dispatch.ItemRequest, 0, len(products))
	for _, pt := range products {
		items = append(items, dispatch.ItemRequest{ProductType: pt.String(), Quantity: 1})
	}
	out, err := f.engine.SubmitOrder(t.Context(), number, items)
	require.NoError(t, err)
	require.NotEmpty(t, out.Orders)
	return out.Orders[0]
}

func (f *fixture) status(t *testing.T, number kernel.OrderNumber) dispatch.OrderSnapshot {
	t.Helper()
	snap, err := f.engine.OrderStatus(t.Context(), number)
	require.NoError(t, err)
	return snap
}

func (f *fixture) complete(t *testing.T, unitID kernel.UUID) dispatch.Outcome {
	t.Helper()
	out, err := f.engine.WorkUnitCompleted(t.Context(), unitID)
	require.NoError(t, err)
	return out
}

// requireStatusInvariant checks that every known order is Complete exactly when all
// of its units are Completed, and that a Placed order has only Queued units. The
// converse does not hold: an order whose only assigned units were handed back on
// logout has every unit Queued but stays WorkInProgress, because the status never
// moves backwards.
func (f *fixture) requireStatusInvariant(t *testing.T) {
	t.Helper()
	for _, status := range order.Statuses() {
		snaps, err := f.engine.OrdersByStatus(t.Context(), status)
		require.NoError(t, err)

		for _, snap := range snaps {
			allCompleted, allQueued := true, true
			for _, u := range snap.Units {
				allCompleted = allCompleted && u.Status() == workunit.Completed
				allQueued = allQueued && u.Status() == workunit.Queued
			}
			require.Equal(t, allCompleted, snap.Order.Status() == order.Complete, "order %s", snap.Order.Number())
			if snap.Order.Status() == order.Placed {
				require.True(t, allQueued, "order %s", snap.Order.Number())
			}
		}
	}
}

func unitOf(t *testing.T, snap dispatch.OrderSnapshot, group skillgroup.SkillGroup) *workunit.WorkUnit {
	t.Helper()
	for _, u := range snap.Units {
		if u.Group() == group {
			return u
		}
	}
	t.Fatalf("order %s has no %s unit", snap.Order.Number(), group)
	return nil
}
