package commands

import (
	"context"
	"errors"
	"fmt"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
)

// ErrNotPersisted marks a failure to write the durable copy after the engine accepted
// the operation. The engine state is not rolled back.
var ErrNotPersisted = errors.New("durable copy not written")

func notPersisted(err error) error {
	return fmt.Errorf("%w: %w", ErrNotPersisted, err)
}

// The engine operations each command needs. *dispatch.Engine implements all of them.
type (
	OrderSubmitter interface {
		SubmitOrder(ctx context.Context, number string, items []dispatch.ItemRequest) (dispatch.Outcome, error)
	}

	StaffRegistrar interface {
		RegisterStaff(
			ctx context.Context,
			id staff.ID,
			name string,
			groups []skillgroup.SkillGroup,
		) (dispatch.StaffSnapshot, error)
	}

	ShiftManager interface {
		StaffLogin(ctx context.Context, id staff.ID) (dispatch.Outcome, error)
		StaffLogout(ctx context.Context, id staff.ID) (dispatch.Outcome, error)
	}

	WorkUnitCompleter interface {
		WorkUnitCompleted(ctx context.Context, unitID kernel.UUID) (dispatch.Outcome, error)
	}
)

// saveOrders persists the snapshot of every order an engine operation touched.
func saveOrders(ctx context.Context, uowFactory OrderUoWFactory, out dispatch.Outcome) error {
	if len(out.Orders) == 0 {
		return nil
	}
	if err := writeOrders(ctx, uowFactory, out); err != nil {
		return notPersisted(err)
	}
	return nil
}

func writeOrders(ctx context.Context, uowFactory OrderUoWFactory, out dispatch.Outcome) error {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	for _, snap := range out.Orders {
		if err := orderRepo.Save(ctx, snap.Order); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
