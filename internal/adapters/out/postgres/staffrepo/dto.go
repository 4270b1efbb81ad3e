// Package staffrepo persists the staff directory with GORM. Login state is not stored.
package staffrepo

import (
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"
)

// StaffDTO represents a member of the staff directory.
type StaffDTO struct {
	ID     string               `gorm:"type:varchar(64);primaryKey"`
	Name   string               `gorm:"type:varchar(255)"`
	Groups []StaffSkillGroupDTO `gorm:"foreignKey:StaffID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for staff members.
func (StaffDTO) TableName() string {
	return "staff"
}

// StaffSkillGroupDTO links a member to one of its skill groups.
type StaffSkillGroupDTO struct {
	StaffID    string `gorm:"type:varchar(64);primaryKey"`
	SkillGroup string `gorm:"type:varchar(128);primaryKey"`
}

// TableName specifies the database table name for skill group memberships.
func (StaffSkillGroupDTO) TableName() string {
	return "staff_skill_groups"
}

func fromDomain(m *staff.Member) StaffDTO {
	groups := m.Groups()
	dto := StaffDTO{
		ID:     m.ID().String(),
		Name:   m.Name(),
		Groups: make([]StaffSkillGroupDTO, 0, len(groups)),
	}
	for _, g := range groups {
		dto.Groups = append(dto.Groups, StaffSkillGroupDTO{StaffID: dto.ID, SkillGroup: g.String()})
	}
	return dto
}

func toDomain(dto StaffDTO) (*staff.Member, error) {
	id, err := staff.NewID(dto.ID)
	if err != nil {
		return nil, err
	}

	groups := make([]skillgroup.SkillGroup, 0, len(dto.Groups))
	for _, g := range dto.Groups {
		group, groupErr := skillgroup.NewSkillGroup(g.SkillGroup)
		if groupErr != nil {
			return nil, groupErr
		}
		groups = append(groups, group)
	}

	return staff.RestoreMember(id, dto.Name, groups)
}
