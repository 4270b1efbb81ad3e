package commands

import (
	"context"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/staff"
)

// RegisterStaffCommandHandler registers a member with the engine and stores it in the
// staff directory so it is registered again after a restart.
type RegisterStaffCommandHandler struct {
	engine     StaffRegistrar
	uowFactory StaffUoWFactory
}

// NewRegisterStaffCommandHandler creates a handler for staff registrations.
func NewRegisterStaffCommandHandler(engine StaffRegistrar, uowFactory StaffUoWFactory) RegisterStaffCommandHandler {
	return RegisterStaffCommandHandler{
		engine:     engine,
		uowFactory: uowFactory,
	}
}

// Handle registers the member. Duplicate ids are rejected by the engine before
// anything is stored.
func (h *RegisterStaffCommandHandler) Handle(
	ctx context.Context,
	cmd RegisterStaffCommand,
) (dispatch.StaffSnapshot, error) {
	if err := cmd.Validate(); err != nil {
		return dispatch.StaffSnapshot{}, err
	}

	snap, err := h.engine.RegisterStaff(ctx, cmd.ID(), cmd.Name(), cmd.Groups())
	if err != nil {
		return dispatch.StaffSnapshot{}, err
	}

	member, err := staff.NewMember(snap.ID, snap.Name, snap.Groups)
	if err != nil {
		return dispatch.StaffSnapshot{}, err
	}

	if err = h.store(ctx, member); err != nil {
		return snap, notPersisted(err)
	}

	return snap, nil
}

func (h *RegisterStaffCommandHandler) store(ctx context.Context, member *staff.Member) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.StaffRepository().Add(ctx, member); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
