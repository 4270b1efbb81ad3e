package cmd_test

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"workload/cmd"
	"workload/internal/core/application/dispatch"
	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/application/usecases/queries"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCatalog() cmd.Catalog {
	return cmd.Catalog{
		SkillGroups: []cmd.SkillGroupConfig{
			{Name: "Pizza", ProductTypes: []string{"Veg Pizza"}},
			{Name: "Drinks", ProductTypes: []string{"Soda"}},
		},
		Staff: []cmd.StaffConfig{
			{ID: "S001", Name: "Chandler", Groups: []string{"Pizza"}},
			{ID: "S002", Name: "Rachel", Groups: []string{"Drinks"}},
		},
	}
}

func newRoot(t *testing.T, catalog cmd.Catalog) *cmd.CompositionRoot {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	root, err := cmd.NewCompositionRoot(context.Background(), cmd.Config{HTTPPort: "8080"}, catalog, logger)
	require.NoError(t, err)
	t.Cleanup(root.Close)
	return root
}

func TestCompositionRoot_SeedsCatalogStaff(t *testing.T) {
	root := newRoot(t, testCatalog())

	members := root.Engine().Staff(context.Background())
	require.Len(t, members, 2)
	assert.Equal(t, "S001", members[0].ID.String())
	assert.Equal(t, "Rachel", members[1].Name)
	for _, m := range members {
		assert.False(t, m.LoggedIn)
	}
}

func TestCompositionRoot_RejectsInvalidCatalog(t *testing.T) {
	catalog := testCatalog()
	catalog.SkillGroups = append(catalog.SkillGroups,
		cmd.SkillGroupConfig{Name: "Specials", ProductTypes: []string{"Soda"}})

	_, err := cmd.NewCompositionRoot(context.Background(), cmd.Config{}, catalog, nil)
	require.Error(t, err)
}

func TestCompositionRoot_HandlersShareTheEngine(t *testing.T) {
	ctx := context.Background()
	root := newRoot(t, testCatalog())

	login := root.CreateStaffLoginCommandHandler()
	loginCmd, err := commands.NewStaffLoginCommand("S001")
	require.NoError(t, err)
	_, err = login.Handle(ctx, loginCmd)
	require.NoError(t, err)

	submit := root.CreateSubmitOrderCommandHandler()
	submitCmd, err := commands.NewSubmitOrderCommand("", []dispatch.ItemRequest{
		{ProductType: "Veg Pizza", Quantity: 2},
	})
	require.NoError(t, err)
	out, err := submit.Handle(ctx, submitCmd)
	require.NoError(t, err)
	require.Len(t, out.Assignments, 1)
	assert.Equal(t, staff.MustID("S001"), out.Assignments[0].StaffID)

	number := out.Orders[0].Order.Number()
	snap, err := root.Engine().OrderStatus(ctx, number)
	require.NoError(t, err)
	assert.Equal(t, order.WorkInProgress, snap.Order.Status())

	status := root.CreateGetOrderStatusQueryHandler()
	query, err := queries.NewGetOrderStatusQuery(number.String())
	require.NoError(t, err)
	resp, err := status.Handle(ctx, query)
	require.NoError(t, err)
	assert.Equal(t, order.WorkInProgress.String(), resp.Status)
}

func TestCompositionRoot_Router(t *testing.T) {
	root := newRoot(t, testCatalog())

	e, err := root.Router()
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/staff", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Chandler")
}

func TestCompositionRoot_Jobs(t *testing.T) {
	root := newRoot(t, testCatalog())

	jm := root.Jobs()
	require.NoError(t, jm.StartAll())
	jm.StopAll()
}
