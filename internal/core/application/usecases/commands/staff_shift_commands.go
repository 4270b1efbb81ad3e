package commands

import (
	"errors"

	"workload/internal/core/domain/model/staff"
	"workload/internal/pkg/guard"
)

var (
	ErrStaffLoginCommandIsNotConstructed = errors.New(
		"StaffLoginCommand must be created via NewStaffLoginCommand constructor",
	)
	ErrStaffLogoutCommandIsNotConstructed = errors.New(
		"StaffLogoutCommand must be created via NewStaffLogoutCommand constructor",
	)
)

// StaffLoginCommand makes a registered member available for work.
type StaffLoginCommand struct {
	id    staff.ID
	guard guard.ConstructorGuard
}

// NewStaffLoginCommand creates a login command for id.
func NewStaffLoginCommand(id string) (StaffLoginCommand, error) {
	staffID, err := staff.NewID(id)
	if err != nil {
		return StaffLoginCommand{}, err
	}
	return StaffLoginCommand{id: staffID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c StaffLoginCommand) Validate() error {
	return c.guard.Validate(ErrStaffLoginCommandIsNotConstructed)
}

func (c StaffLoginCommand) ID() staff.ID {
	return c.id
}

// StaffLogoutCommand makes a member unavailable and hands its work back.
type StaffLogoutCommand struct {
	id    staff.ID
	guard guard.ConstructorGuard
}

// NewStaffLogoutCommand creates a logout command for id.
func NewStaffLogoutCommand(id string) (StaffLogoutCommand, error) {
	staffID, err := staff.NewID(id)
	if err != nil {
		return StaffLogoutCommand{}, err
	}
	return StaffLogoutCommand{id: staffID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c StaffLogoutCommand) Validate() error {
	return c.guard.Validate(ErrStaffLogoutCommandIsNotConstructed)
}

func (c StaffLogoutCommand) ID() staff.ID {
	return c.id
}
