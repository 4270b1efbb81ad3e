package commands

import (
	"errors"
	"fmt"
	"strings"

	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
	"workload/internal/pkg/guard"
)

var ErrRegisterStaffCommandIsNotConstructed = errors.New(
	"RegisterStaffCommand must be created via NewRegisterStaffCommand constructor",
)

// RegisterStaffCommand adds a member to the staff directory. New members start
// logged out.
type RegisterStaffCommand struct { //nolint:recvcheck //using for validation
	id     staff.ID
	name   string
	groups []skillgroup.SkillGroup

	guard guard.ConstructorGuard
}

// NewRegisterStaffCommand creates a registration command. The name is optional.
func NewRegisterStaffCommand(id, name string, groups []string) (RegisterStaffCommand, error) {
	cmd := RegisterStaffCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setID(id),
		cmd.setName(name),
		cmd.setGroups(groups),
	); err != nil {
		return RegisterStaffCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c RegisterStaffCommand) Validate() error {
	return c.guard.Validate(ErrRegisterStaffCommandIsNotConstructed)
}

func (c RegisterStaffCommand) ID() staff.ID {
	return c.id
}

func (c RegisterStaffCommand) Name() string {
	return c.name
}

func (c RegisterStaffCommand) Groups() []skillgroup.SkillGroup {
	out := make([]skillgroup.SkillGroup, len(c.groups))
	copy(out, c.groups)
	return out
}

func (c *RegisterStaffCommand) setID(id string) error {
	staffID, err := staff.NewID(id)
	if err != nil {
		return err
	}

	c.id = staffID
	return nil
}

func (c *RegisterStaffCommand) setName(name string) error {
	c.name = strings.TrimSpace(name)
	return nil
}

func (c *RegisterStaffCommand) setGroups(groups []string) error {
	if len(groups) == 0 {
		return staff.ErrSkillGroupsAreRequired
	}

	var problems []error
	c.groups = make([]skillgroup.SkillGroup, 0, len(groups))
	for i, name := range groups {
		g, err := skillgroup.NewSkillGroup(name)
		if err != nil {
			problems = append(problems, fmt.Errorf("group %d: %w", i, err))
			continue
		}
		c.groups = append(c.groups, g)
	}

	return errors.Join(problems...)
}
