package dispatch

import (
	"sort"
	"sync"
	"time"

	"workload/internal/core/domain/events"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/workunit"
)

// UnitCounts is the number of an order's work units in each status.
type UnitCounts struct {
	Queued    int
	Assigned  int
	Completed int
	Total     int
}

// OrderSnapshot is a consistent copy of an order and its work units.
type OrderSnapshot struct {
	Order  *order.Order
	Units  []*workunit.WorkUnit
	Counts UnitCounts
}

type orderRecord struct {
	mu      sync.Mutex
	order   *order.Order
	unitIDs []kernel.UUID
	units   map[kernel.UUID]*workunit.WorkUnit
	counts  UnitCounts
}

func (r *orderRecord) snapshot() OrderSnapshot {
	units := make([]*workunit.WorkUnit, 0, len(r.unitIDs))
	for _, id := range r.unitIDs {
		units = append(units, r.units[id].Clone())
	}
	return OrderSnapshot{
		Order:  r.order.Clone(),
		Units:  units,
		Counts: r.counts,
	}
}

// OrderStatusTracker derives every order's status from the states of its work units.
//
// The tracker keeps its own copies of the units, refreshed on every unit transition
// while the caller still holds the unit's group lock, so a snapshot never needs a
// group lock and is always consistent with the order status.
type OrderStatusTracker struct {
	mu       sync.RWMutex
	orders   map[kernel.OrderNumber]*orderRecord
	reserved map[kernel.OrderNumber]struct{}
}

// NewOrderStatusTracker creates an empty tracker.
func NewOrderStatusTracker() *OrderStatusTracker {
	return &OrderStatusTracker{
		orders:   make(map[kernel.OrderNumber]*orderRecord),
		reserved: make(map[kernel.OrderNumber]struct{}),
	}
}

// Reserve marks numbers as taken without tracking an order under them.
func (t *OrderStatusTracker) Reserve(numbers ...kernel.OrderNumber) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, n := range numbers {
		if !n.IsZero() {
			t.reserved[n] = struct{}{}
		}
	}
}

// Register starts tracking o, split into units. It fails with ErrDuplicateOrder when
// the order number is already tracked.
func (t *OrderStatusTracker) Register(o *order.Order, units []*workunit.WorkUnit) error {
	if err := o.Validate(); err != nil {
		return err
	}

	rec := &orderRecord{
		order:  o,
		units:  make(map[kernel.UUID]*workunit.WorkUnit, len(units)),
		counts: UnitCounts{Queued: len(units), Total: len(units)},
	}
	for _, u := range units {
		rec.unitIDs = append(rec.unitIDs, u.ID())
		rec.units[u.ID()] = u.Clone()
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.taken(o.Number()) {
		return order.NewDuplicateError(o.Number())
	}
	t.orders[o.Number()] = rec
	return nil
}

// Contains reports whether number is tracked or reserved.
func (t *OrderStatusTracker) Contains(number kernel.OrderNumber) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.taken(number)
}

func (t *OrderStatusTracker) taken(number kernel.OrderNumber) bool {
	if _, ok := t.orders[number]; ok {
		return true
	}
	_, ok := t.reserved[number]
	return ok
}

// Len returns the number of tracked orders.
func (t *OrderStatusTracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.orders)
}

// Queued refreshes the tracker's copy of a unit that entered its queue.
func (t *OrderStatusTracker) Queued(u *workunit.WorkUnit) error {
	rec, err := t.record(u.OrderNumber())
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	rec.units[u.ID()] = u.Clone()
	return nil
}

// Assigned records a unit that left its queue. The first assignment of an order moves
// it from Placed to WorkInProgress.
func (t *OrderStatusTracker) Assigned(u *workunit.WorkUnit, at time.Time) ([]events.Event, error) {
	rec, err := t.record(u.OrderNumber())
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.units[u.ID()] = u.Clone()
	rec.counts.Queued--
	rec.counts.Assigned++

	if rec.order.Status() != order.Placed {
		return nil, nil
	}
	if err = rec.order.StartWork(); err != nil {
		return nil, err
	}
	return []events.Event{
		events.NewOrderStatusChanged(at, rec.order.Number(), order.Placed, order.WorkInProgress, rec.order.Version()),
	}, nil
}

// Requeued records a unit handed back on logout. The order status does not change, so
// an order can be WorkInProgress while all of its units are Queued again.
func (t *OrderStatusTracker) Requeued(u *workunit.WorkUnit) error {
	rec, err := t.record(u.OrderNumber())
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	rec.units[u.ID()] = u.Clone()
	rec.counts.Assigned--
	rec.counts.Queued++
	return nil
}

// Completed records a finished unit and marks its items completed. When the last unit
// of the order completes, the order moves to Complete.
func (t *OrderStatusTracker) Completed(u *workunit.WorkUnit, at time.Time) ([]events.Event, error) {
	rec, err := t.record(u.OrderNumber())
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	if err = rec.order.CompleteItems(u.ItemIndexes()); err != nil {
		return nil, err
	}
	rec.units[u.ID()] = u.Clone()
	rec.counts.Assigned--
	rec.counts.Completed++

	if rec.counts.Completed < rec.counts.Total {
		return nil, nil
	}
	from := rec.order.Status()
	if err = rec.order.Complete(at); err != nil {
		return nil, err
	}
	return []events.Event{
		events.NewOrderStatusChanged(at, rec.order.Number(), from, order.Complete, rec.order.Version()),
	}, nil
}

// Snapshot returns a copy of one order and its units.
func (t *OrderStatusTracker) Snapshot(number kernel.OrderNumber) (OrderSnapshot, error) {
	rec, err := t.record(number)
	if err != nil {
		return OrderSnapshot{}, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.snapshot(), nil
}

// ByStatus returns snapshots of every order in status, oldest first.
func (t *OrderStatusTracker) ByStatus(status order.Status) []OrderSnapshot {
	t.mu.RLock()
	records := make([]*orderRecord, 0, len(t.orders))
	for _, rec := range t.orders {
		records = append(records, rec)
	}
	t.mu.RUnlock()

	var out []OrderSnapshot
	for _, rec := range records {
		rec.mu.Lock()
		if rec.order.Status() == status {
			out = append(out, rec.snapshot())
		}
		rec.mu.Unlock()
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i].Order, out[j].Order
		if !a.CreatedAt().Equal(b.CreatedAt()) {
			return a.CreatedAt().Before(b.CreatedAt())
		}
		return a.Number().String() < b.Number().String()
	})
	return out
}

func (t *OrderStatusTracker) record(number kernel.OrderNumber) (*orderRecord, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	rec, ok := t.orders[number]
	if !ok {
		return nil, order.NewNotFoundError(number)
	}
	return rec, nil
}
