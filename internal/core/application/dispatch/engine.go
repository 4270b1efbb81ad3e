package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"workload/internal/core/domain/events"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/domain/model/workunit"
	"workload/internal/core/domain/services"
	"workload/internal/pkg/errs"
)

// maxNumberAttempts bounds how many generated order numbers SubmitOrder tries when
// generated numbers collide with numbers chosen by callers.
const maxNumberAttempts = 16

// ErrRegistryIsRequired is returned by NewEngine without a skill group registry.
var ErrRegistryIsRequired = errs.NewValueIsRequiredError("skill group registry")

// ItemRequest is one requested order line.
type ItemRequest struct {
	ProductType string
	Quantity    int
}

// Outcome reports what a mutating engine operation changed.
type Outcome struct {
	// Orders holds snapshots, taken after the operation, of every order it touched.
	// For SubmitOrder the submitted order comes first.
	Orders      []OrderSnapshot
	Assignments []Assignment
	Requeued    []kernel.UUID
}

// Order returns the snapshot of number, if the operation touched it.
func (o Outcome) Order(number kernel.OrderNumber) (OrderSnapshot, bool) {
	for _, snap := range o.Orders {
		if snap.Order.Number() == number {
			return snap, true
		}
	}
	return OrderSnapshot{}, false
}

// QueueDepth describes one group queue.
type QueueDepth struct {
	Group            skillgroup.SkillGroup
	Depth            int
	Staffed          bool
	OldestEnqueuedAt *time.Time
}

// Config holds the collaborators and settings of an Engine.
type Config struct {
	Registry *skillgroup.Registry

	// Publisher receives every event after the operation that raised it released its
	// locks. Optional.
	Publisher events.Publisher

	// MaxUnitsPerStaff caps the units one member holds at a time. Zero means unlimited.
	MaxUnitsPerStaff int

	// Numbers issues order numbers for submissions without one. Optional.
	Numbers *kernel.OrderNumberSequence

	// TakenNumbers are numbers used by earlier runs. They are never accepted or issued.
	TakenNumbers []kernel.OrderNumber

	// Now is the engine clock. Defaults to time.Now.
	Now func() time.Time

	Logger *slog.Logger
}

// Engine is the entry point of the dispatch core. All methods are safe for concurrent use.
type Engine struct {
	registry  *skillgroup.Registry
	staff     *StaffAvailabilityRegistry
	tracker   *OrderStatusTracker
	queues    *queueSet
	assigner  *AssignmentEngine
	splitter  services.OrderSplitter
	numbers   *kernel.OrderNumberSequence
	publisher events.Publisher
	now       func() time.Time
	logger    *slog.Logger

	unitsMu sync.RWMutex
	units   map[kernel.UUID]*workunit.WorkUnit
}

// NewEngine creates an Engine with no staff and no orders.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Registry == nil {
		return nil, ErrRegistryIsRequired
	}
	if cfg.MaxUnitsPerStaff < 0 {
		return nil, errs.NewValueIsOutOfRangeError("max units per staff", cfg.MaxUnitsPerStaff, 0, "unbounded")
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "DispatchEngine")

	numbers := cfg.Numbers
	if numbers == nil {
		numbers = kernel.NewOrderNumberSequence(0, now)
	}
	publisher := cfg.Publisher
	if publisher == nil {
		publisher = nopPublisher{}
	}

	staffRegistry := NewStaffAvailabilityRegistry(now)
	tracker := NewOrderStatusTracker()
	tracker.Reserve(cfg.TakenNumbers...)
	queues := newQueueSet()

	return &Engine{
		registry:  cfg.Registry,
		staff:     staffRegistry,
		tracker:   tracker,
		queues:    queues,
		assigner:  newAssignmentEngine(queues, staffRegistry, tracker, cfg.MaxUnitsPerStaff, now, logger),
		splitter:  services.NewOrderSplitter(),
		numbers:   numbers,
		publisher: publisher,
		now:       now,
		logger:    logger,
		units:     make(map[kernel.UUID]*workunit.WorkUnit),
	}, nil
}

// SubmitOrder validates, splits and queues an order, then assigns its units to any
// eligible staff. An empty number is replaced by the next generated one.
//
// A rejected submission has no side effect: no order, no work unit and no queue entry
// is created.
func (e *Engine) SubmitOrder(ctx context.Context, number string, items []ItemRequest) (Outcome, error) {
	orderItems, err := e.buildItems(items)
	if err != nil {
		e.logger.WarnContext(ctx, "order rejected", "order_number", number, "error", err)
		return Outcome{}, err
	}

	now := e.now()
	o, units, err := e.place(number, orderItems, now)
	if err != nil {
		e.logger.WarnContext(ctx, "order rejected", "order_number", number, "error", err)
		return Outcome{}, err
	}

	e.unitsMu.Lock()
	for _, u := range units {
		e.units[u.ID()] = u
	}
	e.unitsMu.Unlock()

	fx := &effects{}
	fx.orders.add(o.Number())

	groups := make(groupSet)
	for _, u := range units {
		q := e.queues.get(u.Group())
		q.mu.Lock()
		q.enqueue(u, now)
		if err = e.tracker.Queued(u); err != nil {
			e.logger.ErrorContext(ctx, "failed to track queued unit", "work_unit_id", u.ID().String(), "error", err)
		}
		q.mu.Unlock()

		groups.add(u.Group())
		fx.emit(events.NewWorkUnitQueued(now, u.ID(), u.OrderNumber(), u.Group()))
	}

	e.logger.InfoContext(ctx, "order placed",
		"order_number", o.Number().String(), "items", len(orderItems), "work_units", len(units))

	e.assigner.Run(ctx, groups.sorted(), fx)
	return e.finish(ctx, fx), nil
}

// RegisterStaff adds a logged-out staff member.
func (e *Engine) RegisterStaff(
	ctx context.Context,
	id staff.ID,
	name string,
	groups []skillgroup.SkillGroup,
) (StaffSnapshot, error) {
	m, err := staff.NewMember(id, name, groups)
	if err != nil {
		return StaffSnapshot{}, err
	}
	if err = e.staff.Register(m); err != nil {
		e.logger.WarnContext(ctx, "staff registration rejected", "staff_id", id.String(), "error", err)
		return StaffSnapshot{}, err
	}

	for _, g := range m.Groups() {
		if len(e.registry.ProductTypesOf(g)) == 0 {
			e.logger.WarnContext(ctx, "staff belongs to a group without product types",
				"staff_id", id.String(), "group", g.String())
		}
	}
	e.logger.InfoContext(ctx, "staff registered", "staff_id", id.String(), "groups", len(m.Groups()))

	return e.staff.Snapshot(id)
}

// StaffLogin makes a member available and assigns queued units of its groups.
// A repeated login is a successful no-op.
func (e *Engine) StaffLogin(ctx context.Context, id staff.ID) (Outcome, error) {
	change, err := e.staff.Login(id)
	if err != nil {
		e.logger.WarnContext(ctx, "login rejected", "staff_id", id.String(), "error", err)
		return Outcome{}, err
	}

	fx := &effects{}
	if change.Changed {
		e.logger.InfoContext(ctx, "staff logged in", "staff_id", id.String())
		fx.emit(change.Events...)
		e.assigner.Run(ctx, change.Groups, fx)
	}
	return e.finish(ctx, fx), nil
}

// StaffLogout makes a member unavailable. Every unit it held goes back to the front
// of its group queue and is offered to the remaining staff of that group.
// Logging out a logged-out member is a successful no-op.
func (e *Engine) StaffLogout(ctx context.Context, id staff.ID) (Outcome, error) {
	change, err := e.staff.Logout(id)
	if err != nil {
		e.logger.WarnContext(ctx, "logout rejected", "staff_id", id.String(), "error", err)
		return Outcome{}, err
	}

	fx := &effects{}
	if !change.Changed {
		return e.finish(ctx, fx), nil
	}

	e.logger.InfoContext(ctx, "staff logged out", "staff_id", id.String(), "handed_back", len(change.HandedBack))
	fx.emit(change.Events...)

	units := make([]*workunit.WorkUnit, 0, len(change.HandedBack))
	for _, unitID := range change.HandedBack {
		if u, ok := e.unit(unitID); ok {
			units = append(units, u)
		}
	}
	touched := e.assigner.requeue(ctx, id, units, fx)
	e.assigner.Run(ctx, touched.sorted(), fx)

	return e.finish(ctx, fx), nil
}

// WorkUnitCompleted records that the holder of an Assigned unit finished it. The freed
// member is offered the next queued units of its groups.
func (e *Engine) WorkUnitCompleted(ctx context.Context, unitID kernel.UUID) (Outcome, error) {
	u, ok := e.unit(unitID)
	if !ok {
		err := workunit.NewNotFoundError(unitID)
		e.logger.WarnContext(ctx, "completion rejected", "work_unit_id", unitID.String(), "error", err)
		return Outcome{}, err
	}

	fx := &effects{}
	holder, err := e.assigner.complete(ctx, u, fx)
	if err != nil {
		e.logger.WarnContext(ctx, "completion rejected", "work_unit_id", unitID.String(), "error", err)
		return Outcome{}, err
	}

	e.assigner.Run(ctx, e.staff.groupsOf(holder), fx)
	return e.finish(ctx, fx), nil
}

// OrderStatus returns a snapshot of one order.
func (e *Engine) OrderStatus(_ context.Context, number kernel.OrderNumber) (OrderSnapshot, error) {
	return e.tracker.Snapshot(number)
}

// OrdersByStatus returns snapshots of the orders in status, oldest first.
func (e *Engine) OrdersByStatus(_ context.Context, status order.Status) ([]OrderSnapshot, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}
	return e.tracker.ByStatus(status), nil
}

// AvailableProducts returns the product types whose skill group has at least one
// logged-in member, sorted by name.
func (e *Engine) AvailableProducts(_ context.Context) []skillgroup.ProductType {
	staffed := make(map[skillgroup.SkillGroup]bool)
	var out []skillgroup.ProductType

	for _, pt := range e.registry.ProductTypes() {
		g, err := e.registry.GroupFor(pt)
		if err != nil {
			continue
		}
		isStaffed, seen := staffed[g]
		if !seen {
			isStaffed = e.staff.IsGroupStaffed(g)
			staffed[g] = isStaffed
		}
		if isStaffed {
			out = append(out, pt)
		}
	}
	return out
}

// QueueDepths describes the queue of every configured group and of every group that
// ever received a unit, sorted by group.
func (e *Engine) QueueDepths(_ context.Context) []QueueDepth {
	groups := make(groupSet)
	groups.add(e.registry.Groups()...)
	for _, q := range e.queues.all() {
		groups.add(q.Group())
	}

	out := make([]QueueDepth, 0, len(groups))
	for _, g := range groups.sorted() {
		q := e.queues.get(g)
		depth := QueueDepth{
			Group:   g,
			Depth:   q.Len(),
			Staffed: e.staff.IsGroupStaffed(g),
		}
		if oldest, ok := q.Oldest(); ok {
			depth.OldestEnqueuedAt = &oldest
		}
		out = append(out, depth)
	}
	return out
}

// StaleWorkUnits returns copies of the queued units that have waited at least
// olderThan since they were first enqueued, oldest first.
func (e *Engine) StaleWorkUnits(_ context.Context, olderThan time.Duration) []*workunit.WorkUnit {
	cutoff := e.now().Add(-olderThan)

	var stale []*workunit.WorkUnit
	for _, q := range e.queues.all() {
		for _, u := range q.Snapshot() {
			if !u.EnqueuedAt().After(cutoff) {
				stale = append(stale, u)
			}
		}
	}

	sortByEnqueuedAt(stale)
	return stale
}

// Staff returns snapshots of every registered member, sorted by id.
func (e *Engine) Staff(_ context.Context) []StaffSnapshot {
	return e.staff.All()
}

// StaffMember returns a snapshot of one member.
func (e *Engine) StaffMember(_ context.Context, id staff.ID) (StaffSnapshot, error) {
	return e.staff.Snapshot(id)
}

// AvailableStaffFor returns the logged-in members of group.
func (e *Engine) AvailableStaffFor(_ context.Context, group skillgroup.SkillGroup) []StaffSnapshot {
	return e.staff.AvailableStaffFor(group)
}

// buildItems validates every requested line and checks that its product type is mapped.
// All problems are reported together.
func (e *Engine) buildItems(requests []ItemRequest) ([]order.Item, error) {
	if len(requests) == 0 {
		return nil, order.ErrItemsAreRequired
	}

	var (
		items    = make([]order.Item, 0, len(requests))
		problems []error
	)
	for i, req := range requests {
		pt, err := skillgroup.NewProductType(req.ProductType)
		if err != nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		item, err := order.NewItem(pt, req.Quantity)
		if err != nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		if _, err = e.registry.GroupFor(pt); err != nil {
			problems = append(problems, fmt.Errorf("item %d: %w", i, err))
			continue
		}
		items = append(items, item)
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return items, nil
}

// place creates the order and its units and registers them with the tracker.
func (e *Engine) place(number string, items []order.Item, now time.Time) (*order.Order, []*workunit.WorkUnit, error) {
	if number != "" {
		n, err := kernel.NewOrderNumber(number)
		if err != nil {
			return nil, nil, err
		}
		return e.placeAs(n, items, now)
	}

	for attempt := 0; attempt < maxNumberAttempts; attempt++ {
		o, units, err := e.placeAs(e.numbers.Next(), items, now)
		if errors.Is(err, order.ErrDuplicateOrder) {
			continue
		}
		return o, units, err
	}
	return nil, nil, fmt.Errorf("%w: no free generated number after %d attempts", order.ErrDuplicateOrder, maxNumberAttempts)
}

func (e *Engine) placeAs(number kernel.OrderNumber, items []order.Item, now time.Time) (*order.Order, []*workunit.WorkUnit, error) {
	if e.tracker.Contains(number) {
		return nil, nil, order.NewDuplicateError(number)
	}

	o, err := order.NewOrder(number, items, now)
	if err != nil {
		return nil, nil, err
	}
	units, err := e.splitter.Split(o, e.registry)
	if err != nil {
		return nil, nil, err
	}
	if err = e.tracker.Register(o, units); err != nil {
		return nil, nil, err
	}
	return o, units, nil
}

func (e *Engine) unit(id kernel.UUID) (*workunit.WorkUnit, bool) {
	e.unitsMu.RLock()
	defer e.unitsMu.RUnlock()
	u, ok := e.units[id]
	return u, ok
}

// finish publishes the collected events and snapshots the touched orders. It must be
// called without any engine lock held.
func (e *Engine) finish(ctx context.Context, fx *effects) Outcome {
	e.publisher.Publish(ctx, fx.events...)

	out := Outcome{
		Assignments: fx.assignments,
		Requeued:    fx.requeued,
	}
	for _, n := range fx.orders.items {
		snap, err := e.tracker.Snapshot(n)
		if err != nil {
			continue
		}
		out.Orders = append(out.Orders, snap)
	}
	return out
}

type nopPublisher struct{}

func (nopPublisher) Publish(context.Context, ...events.Event) {}
