package commands

import (
	"context"

	"workload/internal/core/application/dispatch"
)

// CompleteWorkUnitCommandHandler completes work units. The completed unit's order and
// the orders of any units assigned to the freed member are persisted.
type CompleteWorkUnitCommandHandler struct {
	engine     WorkUnitCompleter
	uowFactory OrderUoWFactory
}

// NewCompleteWorkUnitCommandHandler creates a handler for completions.
func NewCompleteWorkUnitCommandHandler(
	engine WorkUnitCompleter,
	uowFactory OrderUoWFactory,
) CompleteWorkUnitCommandHandler {
	return CompleteWorkUnitCommandHandler{
		engine:     engine,
		uowFactory: uowFactory,
	}
}

// Handle completes the unit. Only an Assigned unit can be completed.
func (h *CompleteWorkUnitCommandHandler) Handle(
	ctx context.Context,
	cmd CompleteWorkUnitCommand,
) (dispatch.Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return dispatch.Outcome{}, err
	}

	out, err := h.engine.WorkUnitCompleted(ctx, cmd.WorkUnitID())
	if err != nil {
		return dispatch.Outcome{}, err
	}

	return out, saveOrders(ctx, h.uowFactory, out)
}
