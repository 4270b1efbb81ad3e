package commands_test

import (
	"context"
	"testing"
	"time"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Save(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}
func (m *MockOrderRepository) Get(ctx context.Context, number kernel.OrderNumber) (*order.Order, error) {
	args := m.Called(ctx, number)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}
func (m *MockOrderRepository) GetAllInStatus(ctx context.Context, status order.Status) ([]*order.Order, error) {
	args := m.Called(ctx, status)
	o, _ := args.Get(0).([]*order.Order)
	return o, args.Error(1)
}

type MockStaffRepository struct{ mock.Mock }

func (m *MockStaffRepository) Add(ctx context.Context, member *staff.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}
func (m *MockStaffRepository) Get(ctx context.Context, id staff.ID) (*staff.Member, error) {
	args := m.Called(ctx, id)
	member, _ := args.Get(0).(*staff.Member)
	return member, args.Error(1)
}
func (m *MockStaffRepository) GetAll(ctx context.Context) ([]*staff.Member, error) {
	args := m.Called(ctx)
	members, _ := args.Get(0).([]*staff.Member)
	return members, args.Error(1)
}

type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}
func (m *MockUoW) StaffRepository() ports.StaffRepository {
	args := m.Called()
	return args.Get(0).(ports.StaffRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockStaffUoWFactory struct{ mock.Mock }

func (m *MockStaffUoWFactory) Create() commands.StaffUoW {
	args := m.Called()
	return args.Get(0).(commands.StaffUoW)
}

type MockEngine struct{ mock.Mock }

func (m *MockEngine) SubmitOrder(
	ctx context.Context,
	number string,
	items []dispatch.ItemRequest,
) (dispatch.Outcome, error) {
	args := m.Called(ctx, number, items)
	return args.Get(0).(dispatch.Outcome), args.Error(1)
}
func (m *MockEngine) RegisterStaff(
	ctx context.Context,
	id staff.ID,
	name string,
	groups []skillgroup.SkillGroup,
) (dispatch.StaffSnapshot, error) {
	args := m.Called(ctx, id, name, groups)
	return args.Get(0).(dispatch.StaffSnapshot), args.Error(1)
}
func (m *MockEngine) StaffLogin(ctx context.Context, id staff.ID) (dispatch.Outcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dispatch.Outcome), args.Error(1)
}
func (m *MockEngine) StaffLogout(ctx context.Context, id staff.ID) (dispatch.Outcome, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(dispatch.Outcome), args.Error(1)
}
func (m *MockEngine) WorkUnitCompleted(ctx context.Context, unitID kernel.UUID) (dispatch.Outcome, error) {
	args := m.Called(ctx, unitID)
	return args.Get(0).(dispatch.Outcome), args.Error(1)
}

func outcomeOf(t *testing.T, numbers ...string) dispatch.Outcome {
	t.Helper()
	var out dispatch.Outcome
	for _, number := range numbers {
		n, err := kernel.NewOrderNumber(number)
		require.NoError(t, err)
		item, err := order.NewItem(skillgroup.MustProductType("Burger"), 1)
		require.NoError(t, err)
		o, err := order.NewOrder(n, []order.Item{item}, time.Now())
		require.NoError(t, err)
		out.Orders = append(out.Orders, dispatch.OrderSnapshot{Order: o})
	}
	return out
}
