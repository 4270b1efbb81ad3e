package commands_test

import (
	"errors"
	"testing"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/domain/model/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestNewStaffShiftCommands(t *testing.T) {
	login, err := commands.NewStaffLoginCommand("S1")
	require.NoError(t, err)
	require.NoError(t, login.Validate())
	assert.Equal(t, staff.MustID("S1"), login.ID())

	logout, err := commands.NewStaffLogoutCommand("S1")
	require.NoError(t, err)
	require.NoError(t, logout.Validate())

	_, err = commands.NewStaffLoginCommand("")
	require.ErrorIs(t, err, staff.ErrStaffIDIsRequired)
	_, err = commands.NewStaffLogoutCommand("")
	require.ErrorIs(t, err, staff.ErrStaffIDIsRequired)

	require.ErrorIs(t, commands.StaffLoginCommand{}.Validate(), commands.ErrStaffLoginCommandIsNotConstructed)
	require.ErrorIs(t, commands.StaffLogoutCommand{}.Validate(), commands.ErrStaffLogoutCommandIsNotConstructed)
}

func TestStaffLoginCommandHandler_Handle_PersistsAssignedOrders(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewStaffLoginCommand("S1")
	require.NoError(t, err)
	out := outcomeOf(t, "O1")

	engine := new(MockEngine)
	engine.On("StaffLogin", ctx, cmd.ID()).Return(out, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Save", ctx, out.Orders[0].Order).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStaffLoginCommandHandler(engine, factory)
	got, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	assert.Equal(t, out, got)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestStaffLoginCommandHandler_Handle_NothingToPersist(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewStaffLoginCommand("S1")
	require.NoError(t, err)

	engine := new(MockEngine)
	engine.On("StaffLogin", ctx, cmd.ID()).Return(dispatch.Outcome{}, nil).Once()
	factory := new(MockOrderUoWFactory)

	h := commands.NewStaffLoginCommandHandler(engine, factory)
	_, err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	factory.AssertNotCalled(t, "Create")
}

func TestStaffLoginCommandHandler_Handle_UnknownStaff(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewStaffLoginCommand("S9")
	require.NoError(t, err)

	engine := new(MockEngine)
	engine.On("StaffLogin", ctx, cmd.ID()).Return(dispatch.Outcome{}, staff.NewNotFoundError(cmd.ID())).Once()

	h := commands.NewStaffLoginCommandHandler(engine, new(MockOrderUoWFactory))
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, staff.ErrUnknownStaff)
}

func TestStaffLogoutCommandHandler_Handle_PersistsRequeuedOrders(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewStaffLogoutCommand("S1")
	require.NoError(t, err)
	out := outcomeOf(t, "O1", "O2")

	engine := new(MockEngine)
	engine.On("StaffLogout", ctx, cmd.ID()).Return(out, nil).Once()

	repo := new(MockOrderRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Save", ctx, mock.Anything).Return(nil).Twice(),
		uow.On("Commit", ctx).Return(errors.New("commit error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewStaffLogoutCommandHandler(engine, factory)
	_, err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrNotPersisted)
	require.ErrorContains(t, err, "commit error")
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}
