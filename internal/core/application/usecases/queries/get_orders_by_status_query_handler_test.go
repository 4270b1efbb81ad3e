package queries_test

import (
	"testing"
	"time"

	"workload/internal/core/application/usecases/queries"
	"workload/internal/core/domain/model/order"
	"workload/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGetOrdersByStatusQuery(t *testing.T) {
	q, err := queries.NewGetOrdersByStatusQuery("workinprogress")
	require.NoError(t, err)
	assert.Equal(t, order.WorkInProgress, q.Status())

	_, err = queries.NewGetOrdersByStatusQuery("Cancelled")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)

	require.ErrorIs(t, queries.GetOrdersByStatusQuery{}.Validate(), queries.ErrGetOrdersByStatusQueryIsNotConstructed)
}

func TestGetOrdersByStatusQueryHandler_LiveOnly(t *testing.T) {
	engine := newEngine(t)
	registerAndLogin(t, engine, "S1", drinksGroup)
	submit(t, engine, "O1", vegPizza)
	submit(t, engine, "O2", drinks)
	submit(t, engine, "O3", vegPizza)

	h := queries.NewGetOrdersByStatusQueryHandler(engine, nil)

	q, err := queries.NewGetOrdersByStatusQuery("Placed")
	require.NoError(t, err)
	placed, err := h.Handle(t.Context(), q)
	require.NoError(t, err)
	require.Len(t, placed, 2)
	assert.Equal(t, "O1", placed[0].Number)
	assert.Equal(t, "O3", placed[1].Number)

	q, err = queries.NewGetOrdersByStatusQuery("WorkInProgress")
	require.NoError(t, err)
	wip, err := h.Handle(t.Context(), q)
	require.NoError(t, err)
	require.Len(t, wip, 1)
	assert.Equal(t, "O2", wip[0].Number)
}

func TestGetOrdersByStatusQueryHandler_MergesStoredOrders(t *testing.T) {
	ctx := t.Context()
	engine := newEngine(t)
	submit(t, engine, "O1", vegPizza)
	submit(t, engine, "O2", vegPizza)

	old := storedOrder(t, "OLD1", order.Placed, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))
	liveCopy := storedOrder(t, "O1", order.Placed, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC))

	repo := new(MockOrderRepository)
	repo.On("GetAllInStatus", ctx, order.Placed).Return([]*order.Order{old, liveCopy}, nil).Once()

	h := queries.NewGetOrdersByStatusQueryHandler(engine, repo)
	q, err := queries.NewGetOrdersByStatusQuery("Placed")
	require.NoError(t, err)

	result, err := h.Handle(ctx, q)
	require.NoError(t, err)
	require.Len(t, result, 3)
	assert.Equal(t, "OLD1", result[0].Number, "oldest first")
	assert.Equal(t, "O1", result[1].Number)
	assert.NotEmpty(t, result[1].WorkUnits, "the live snapshot wins over the stored copy")
	assert.Equal(t, "O2", result[2].Number)
	repo.AssertExpectations(t)
}

func TestGetOrdersByStatusQueryHandler_SkipsStaleStoredCopies(t *testing.T) {
	ctx := t.Context()
	engine := newEngine(t)
	registerAndLogin(t, engine, "S1", pizzaGroup)
	submit(t, engine, "O1", vegPizza)

	stale := storedOrder(t, "O1", order.Placed, time.Now())
	repo := new(MockOrderRepository)
	repo.On("GetAllInStatus", ctx, order.Placed).Return([]*order.Order{stale}, nil).Once()

	h := queries.NewGetOrdersByStatusQueryHandler(engine, repo)
	q, err := queries.NewGetOrdersByStatusQuery("Placed")
	require.NoError(t, err)

	result, err := h.Handle(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, result)
}
