package commands

import (
	"context"

	"workload/internal/core/application/dispatch"
)

// StaffLoginCommandHandler logs members in. Queued units of the member's groups may be
// assigned as a result; the orders they belong to are persisted.
type StaffLoginCommandHandler struct {
	engine     ShiftManager
	uowFactory OrderUoWFactory
}

// NewStaffLoginCommandHandler creates a handler for logins.
func NewStaffLoginCommandHandler(engine ShiftManager, uowFactory OrderUoWFactory) StaffLoginCommandHandler {
	return StaffLoginCommandHandler{
		engine:     engine,
		uowFactory: uowFactory,
	}
}

// Handle logs the member in. A repeated login succeeds with an empty outcome.
func (h *StaffLoginCommandHandler) Handle(ctx context.Context, cmd StaffLoginCommand) (dispatch.Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return dispatch.Outcome{}, err
	}

	out, err := h.engine.StaffLogin(ctx, cmd.ID())
	if err != nil {
		return dispatch.Outcome{}, err
	}

	return out, saveOrders(ctx, h.uowFactory, out)
}

// StaffLogoutCommandHandler logs members out. Work handed back is requeued and possibly
// reassigned; the affected orders are persisted.
type StaffLogoutCommandHandler struct {
	engine     ShiftManager
	uowFactory OrderUoWFactory
}

// NewStaffLogoutCommandHandler creates a handler for logouts.
func NewStaffLogoutCommandHandler(engine ShiftManager, uowFactory OrderUoWFactory) StaffLogoutCommandHandler {
	return StaffLogoutCommandHandler{
		engine:     engine,
		uowFactory: uowFactory,
	}
}

// Handle logs the member out. Logging out a logged-out member succeeds with an empty outcome.
func (h *StaffLogoutCommandHandler) Handle(ctx context.Context, cmd StaffLogoutCommand) (dispatch.Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return dispatch.Outcome{}, err
	}

	out, err := h.engine.StaffLogout(ctx, cmd.ID())
	if err != nil {
		return dispatch.Outcome{}, err
	}

	return out, saveOrders(ctx, h.uowFactory, out)
}
