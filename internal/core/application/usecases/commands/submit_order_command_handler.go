package commands

import (
	"context"

	"workload/internal/core/application/dispatch"
)

// SubmitOrderCommandHandler places orders with the engine and persists every order
// whose state changed, including orders whose units were assigned as a side effect.
//
// Example:
//
//	handler := NewSubmitOrderCommandHandler(engine, uowFactory)
//	outcome, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return fmt.Errorf("order submission failed: %w", err)
//	}
//	placed := outcome.Orders[0]
type SubmitOrderCommandHandler struct {
	engine     OrderSubmitter
	uowFactory OrderUoWFactory
}

// NewSubmitOrderCommandHandler creates a handler for order submissions.
func NewSubmitOrderCommandHandler(engine OrderSubmitter, uowFactory OrderUoWFactory) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		engine:     engine,
		uowFactory: uowFactory,
	}
}

// Handle submits the order. The submitted order is the first snapshot of the outcome.
// A persistence failure is returned together with the outcome: the engine has
// already accepted the order at that point.
func (h *SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (dispatch.Outcome, error) {
	if err := cmd.Validate(); err != nil {
		return dispatch.Outcome{}, err
	}

	out, err := h.engine.SubmitOrder(ctx, cmd.Number(), cmd.Items())
	if err != nil {
		return dispatch.Outcome{}, err
	}

	return out, saveOrders(ctx, h.uowFactory, out)
}
