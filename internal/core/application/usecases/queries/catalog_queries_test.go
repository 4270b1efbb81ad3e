package queries_test

import (
	"testing"

	"workload/internal/core/application/usecases/queries"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAvailableProductsQueryHandler(t *testing.T) {
	engine := newEngine(t)
	h := queries.NewGetAvailableProductsQueryHandler(engine)

	products, err := h.Handle(t.Context(), queries.NewGetAvailableProductsQuery())
	require.NoError(t, err)
	assert.Empty(t, products)

	registerAndLogin(t, engine, "S1", drinksGroup)
	products, err = h.Handle(t.Context(), queries.NewGetAvailableProductsQuery())
	require.NoError(t, err)
	assert.Equal(t, []string{"Drinks"}, products)

	_, err = h.Handle(t.Context(), queries.GetAvailableProductsQuery{})
	require.ErrorIs(t, err, queries.ErrGetAvailableProductsQueryIsNotConstructed)
}

func TestGetQueueDepthsQueryHandler(t *testing.T) {
	engine := newEngine(t)
	registerAndLogin(t, engine, "S1", drinksGroup)
	submit(t, engine, "O1", vegPizza, drinks)
	submit(t, engine, "O2", vegPizza)

	h := queries.NewGetQueueDepthsQueryHandler(engine)
	depths, err := h.Handle(t.Context(), queries.NewGetQueueDepthsQuery())
	require.NoError(t, err)
	require.Len(t, depths, 2)

	assert.Equal(t, "Drinks", depths[0].Group)
	assert.Zero(t, depths[0].Depth)
	assert.True(t, depths[0].Staffed)
	assert.Nil(t, depths[0].OldestEnqueuedAt)

	assert.Equal(t, "Pizza", depths[1].Group)
	assert.Equal(t, 2, depths[1].Depth)
	assert.False(t, depths[1].Staffed)
	assert.NotNil(t, depths[1].OldestEnqueuedAt)

	_, err = h.Handle(t.Context(), queries.GetQueueDepthsQuery{})
	require.ErrorIs(t, err, queries.ErrGetQueueDepthsQueryIsNotConstructed)
}

func TestGetAllStaffQueryHandler(t *testing.T) {
	engine := newEngine(t)
	registerAndLogin(t, engine, "S2", pizzaGroup, drinksGroup)
	submit(t, engine, "O1", vegPizza)

	h := queries.NewGetAllStaffQueryHandler(engine)
	members, err := h.Handle(t.Context(), queries.NewGetAllStaffQuery())
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "S2", members[0].ID)
	assert.True(t, members[0].LoggedIn)
	assert.NotNil(t, members[0].LoggedInAt)
	assert.Equal(t, []string{"Drinks", "Pizza"}, members[0].Groups)
	assert.Len(t, members[0].AssignedUnits, 1)

	_, err = h.Handle(t.Context(), queries.GetAllStaffQuery{})
	require.ErrorIs(t, err, queries.ErrGetAllStaffQueryIsNotConstructed)
}
