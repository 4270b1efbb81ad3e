// Package memory provides map-backed repositories and a unit of work for running the
// service without a database. Writes made inside a transaction are staged and become
// visible on Commit; Rollback discards them.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/ports"
)

// ErrNoActiveTransaction is returned by Commit and Rollback without a prior Begin.
var ErrNoActiveTransaction = errors.New("no active transaction")

// Store holds the committed state shared by every unit of work.
type Store struct {
	mu     sync.RWMutex
	orders map[kernel.OrderNumber]*order.Order
	staff  map[staff.ID]*staff.Member
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		orders: make(map[kernel.OrderNumber]*order.Order),
		staff:  make(map[staff.ID]*staff.Member),
	}
}

func (s *Store) saveOrder(o *order.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if stored, ok := s.orders[o.Number()]; ok && stored.Version() >= o.Version() {
		return
	}
	s.orders[o.Number()] = o.Clone()
}

func (s *Store) addStaff(m *staff.Member) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.staff[m.ID()]; ok {
		return staff.NewDuplicateError(m.ID())
	}
	s.staff[m.ID()] = m
	return nil
}

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

// NewUnitOfWorkFactory creates a factory for store.
func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

// Create returns a fresh unit of work.
func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes until Commit. Outside a transaction repositories write
// through to the store.
type UnitOfWork struct {
	store  *Store
	active bool
	staged []func() error
}

// Begin starts a transaction. Calling Begin twice keeps the running transaction.
func (uow *UnitOfWork) Begin(_ context.Context) error {
	uow.active = true
	return nil
}

// Commit applies the staged writes in order.
func (uow *UnitOfWork) Commit(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}

	staged := uow.staged
	uow.active, uow.staged = false, nil
	for _, apply := range staged {
		if err := apply(); err != nil {
			return err
		}
	}
	return nil
}

// Rollback discards the staged writes.
func (uow *UnitOfWork) Rollback(_ context.Context) error {
	if !uow.active {
		return ErrNoActiveTransaction
	}
	uow.active, uow.staged = false, nil
	return nil
}

// OrderRepository returns the order repository bound to this unit of work.
func (uow *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &OrderRepository{store: uow.store, uow: uow}
}

// StaffRepository returns the staff repository bound to this unit of work.
func (uow *UnitOfWork) StaffRepository() ports.StaffRepository {
	return &StaffRepository{store: uow.store, uow: uow}
}

func (uow *UnitOfWork) write(apply func() error) error {
	if uow == nil || !uow.active {
		return apply()
	}
	uow.staged = append(uow.staged, apply)
	return nil
}

// OrderRepository is a map-backed ports.OrderRepository.
type OrderRepository struct {
	store *Store
	uow   *UnitOfWork
}

// NewOrderRepository creates a repository that writes straight to store.
func NewOrderRepository(store *Store) *OrderRepository {
	return &OrderRepository{store: store}
}

func (r *OrderRepository) Save(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	o := aggregate.Clone()
	return r.uow.write(func() error {
		r.store.saveOrder(o)
		return nil
	})
}

func (r *OrderRepository) Get(_ context.Context, number kernel.OrderNumber) (*order.Order, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	o, ok := r.store.orders[number]
	if !ok {
		return nil, order.NewNotFoundError(number)
	}
	return o.Clone(), nil
}

func (r *OrderRepository) GetAllInStatus(_ context.Context, status order.Status) ([]*order.Order, error) {
	if err := status.Validate(); err != nil {
		return nil, err
	}

	r.store.mu.RLock()
	result := make([]*order.Order, 0)
	for _, o := range r.store.orders {
		if o.Status() == status {
			result = append(result, o.Clone())
		}
	}
	r.store.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt().Equal(result[j].CreatedAt()) {
			return result[i].CreatedAt().Before(result[j].CreatedAt())
		}
		return result[i].Number().String() < result[j].Number().String()
	})
	return result, nil
}

// StaffRepository is a map-backed ports.StaffRepository.
type StaffRepository struct {
	store *Store
	uow   *UnitOfWork
}

// NewStaffRepository creates a repository that writes straight to store.
func NewStaffRepository(store *Store) *StaffRepository {
	return &StaffRepository{store: store}
}

func (r *StaffRepository) Add(_ context.Context, member *staff.Member) error {
	if err := member.Validate(); err != nil {
		return err
	}

	m, err := staff.RestoreMember(member.ID(), member.Name(), member.Groups())
	if err != nil {
		return err
	}
	return r.uow.write(func() error {
		return r.store.addStaff(m)
	})
}

func (r *StaffRepository) Get(_ context.Context, id staff.ID) (*staff.Member, error) {
	r.store.mu.RLock()
	m, ok := r.store.staff[id]
	r.store.mu.RUnlock()

	if !ok {
		return nil, staff.NewNotFoundError(id)
	}
	return staff.RestoreMember(m.ID(), m.Name(), m.Groups())
}

func (r *StaffRepository) GetAll(_ context.Context) ([]*staff.Member, error) {
	r.store.mu.RLock()
	stored := make([]*staff.Member, 0, len(r.store.staff))
	for _, m := range r.store.staff {
		stored = append(stored, m)
	}
	r.store.mu.RUnlock()

	sort.Slice(stored, func(i, j int) bool { return stored[i].ID().Less(stored[j].ID()) })

	result := make([]*staff.Member, 0, len(stored))
	for _, m := range stored {
		restored, err := staff.RestoreMember(m.ID(), m.Name(), m.Groups())
		if err != nil {
			return nil, err
		}
		result = append(result, restored)
	}
	return result, nil
}
