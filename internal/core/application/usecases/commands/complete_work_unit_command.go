package commands

import (
	"errors"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/pkg/guard"
)

var ErrCompleteWorkUnitCommandIsNotConstructed = errors.New(
	"CompleteWorkUnitCommand must be created via NewCompleteWorkUnitCommand constructor",
)

// CompleteWorkUnitCommand reports that the holder of a work unit finished it.
type CompleteWorkUnitCommand struct {
	workUnitID kernel.UUID
	guard      guard.ConstructorGuard
}

// NewCompleteWorkUnitCommand creates a completion command.
func NewCompleteWorkUnitCommand(workUnitID kernel.UUID) (CompleteWorkUnitCommand, error) {
	if err := workUnitID.Validate(); err != nil {
		return CompleteWorkUnitCommand{}, err
	}
	return CompleteWorkUnitCommand{workUnitID: workUnitID, guard: guard.NewConstructorGuard()}, nil
}

// Validate ensures the command was created through the constructor.
func (c CompleteWorkUnitCommand) Validate() error {
	return c.guard.Validate(ErrCompleteWorkUnitCommandIsNotConstructed)
}

func (c CompleteWorkUnitCommand) WorkUnitID() kernel.UUID {
	return c.workUnitID
}
