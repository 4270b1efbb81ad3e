package commands_test

import (
	"testing"

	"workload/internal/core/application/usecases/commands"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRegisterStaffCommand_ValidInput(t *testing.T) {
	cmd, err := commands.NewRegisterStaffCommand("S1", " Joey ", []string{"Pizza", "Drinks"})
	require.NoError(t, err)
	require.NoError(t, cmd.Validate())
	assert.Equal(t, staff.MustID("S1"), cmd.ID())
	assert.Equal(t, "Joey", cmd.Name())
	assert.Equal(t, []skillgroup.SkillGroup{
		skillgroup.MustSkillGroup("Pizza"),
		skillgroup.MustSkillGroup("Drinks"),
	}, cmd.Groups())
}

func TestNewRegisterStaffCommand_InvalidInput(t *testing.T) {
	_, err := commands.NewRegisterStaffCommand(" ", "", nil)
	require.ErrorIs(t, err, staff.ErrStaffIDIsRequired)
	require.ErrorIs(t, err, staff.ErrSkillGroupsAreRequired)
}

func TestNewRegisterStaffCommand_BlankGroup(t *testing.T) {
	_, err := commands.NewRegisterStaffCommand("S1", "", []string{"Pizza", ""})
	require.ErrorIs(t, err, skillgroup.ErrSkillGroupIsRequired)
	assert.Contains(t, err.Error(), "group 1")
}

func TestRegisterStaffCommand_NotConstructedViaConstructor(t *testing.T) {
	require.ErrorIs(t, commands.RegisterStaffCommand{}.Validate(), commands.ErrRegisterStaffCommandIsNotConstructed)
}
