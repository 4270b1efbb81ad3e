package queries_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	pizzaGroup  = skillgroup.MustSkillGroup("Pizza")
	drinksGroup = skillgroup.MustSkillGroup("Drinks")
	vegPizza    = skillgroup.MustProductType("Veg Pizza")
	drinks      = skillgroup.MustProductType("Drinks")
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

func newEngine(t *testing.T) *dispatch.Engine {
	t.Helper()
	registry, err := skillgroup.NewRegistry(map[skillgroup.SkillGroup][]skillgroup.ProductType{
		pizzaGroup:  {vegPizza},
		drinksGroup: {drinks},
	})
	require.NoError(t, err)

	engine, err := dispatch.NewEngine(dispatch.Config{
		Registry: registry,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return engine
}

func submit(t *testing.T, engine *dispatch.Engine, number string, products ...skillgroup.ProductType) {
	t.Helper()
	items := make([]dispatch.ItemRequest, 0, len(products))
	for _, pt := range products {
		items = append(items, dispatch.ItemRequest{ProductType: pt.String(), Quantity: 1})
	}
	_, err := engine.SubmitOrder(t.Context(), number, items)
	require.NoError(t, err)
}

func registerAndLogin(t *testing.T, engine *dispatch.Engine, id string, groups ...skillgroup.SkillGroup) staff.ID {
	t.Helper()
	staffID := staff.MustID(id)
	_, err := engine.RegisterStaff(t.Context(), staffID, id, groups)
	require.NoError(t, err)
	_, err = engine.StaffLogin(t.Context(), staffID)
	require.NoError(t, err)
	return staffID
}

func storedOrder(t *testing.T, number string, status order.Status, createdAt time.Time) *order.Order {
	t.Helper()
	n, err := kernel.NewOrderNumber(number)
	require.NoError(t, err)
	item, err := order.RestoreItem(drinks, 1, status == order.Complete)
	require.NoError(t, err)
	var completedAt *time.Time
	if status == order.Complete {
		at := createdAt.Add(time.Minute)
		completedAt = &at
	}
	o, err := order.RestoreOrder(n, []order.Item{item}, status, createdAt, completedAt, 3)
	require.NoError(t, err)
	return o
}
