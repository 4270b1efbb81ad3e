package cmd

import (
	"errors"
	"fmt"

	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/staff"

	"github.com/spf13/viper"
)

// Catalog is the skill group configuration file: which group handles which product
// types, and the staff directory to seed on startup.
type Catalog struct {
	SkillGroups []SkillGroupConfig `mapstructure:"skill_groups"`
	Staff       []StaffConfig      `mapstructure:"staff"`
}

// SkillGroupConfig maps one skill group to its product types.
type SkillGroupConfig struct {
	Name         string   `mapstructure:"name"`
	ProductTypes []string `mapstructure:"product_types"`
}

// StaffConfig is one seeded staff member.
type StaffConfig struct {
	ID     string   `mapstructure:"id"`
	Name   string   `mapstructure:"name"`
	Groups []string `mapstructure:"groups"`
}

// LoadCatalog reads the catalog at path. The format follows the file extension.
func LoadCatalog(path string) (Catalog, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return Catalog{}, fmt.Errorf("reading catalog from %s: %w", path, err)
	}

	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return Catalog{}, fmt.Errorf("unmarshaling catalog: %w", err)
	}
	return c, nil
}

// Registry builds the skill group registry. A product type listed under two groups
// is rejected.
func (c Catalog) Registry() (*skillgroup.Registry, error) {
	mapping := make(map[skillgroup.SkillGroup][]skillgroup.ProductType, len(c.SkillGroups))
	var problems []error

	for i, g := range c.SkillGroups {
		group, err := skillgroup.NewSkillGroup(g.Name)
		if err != nil {
			problems = append(problems, fmt.Errorf("skill group %d: %w", i, err))
			continue
		}
		if _, ok := mapping[group]; ok {
			problems = append(problems, fmt.Errorf("skill group %q is listed twice", g.Name))
			continue
		}
		types := make([]skillgroup.ProductType, 0, len(g.ProductTypes))
		for _, name := range g.ProductTypes {
			pt, ptErr := skillgroup.NewProductType(name)
			if ptErr != nil {
				problems = append(problems, fmt.Errorf("skill group %q: %w", g.Name, ptErr))
				continue
			}
			types = append(types, pt)
		}
		mapping[group] = types
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return skillgroup.NewRegistry(mapping)
}

// Members validates the seeded staff directory.
func (c Catalog) Members() ([]*staff.Member, error) {
	members := make([]*staff.Member, 0, len(c.Staff))
	seen := make(map[string]struct{}, len(c.Staff))
	var problems []error

	for i, s := range c.Staff {
		if _, ok := seen[s.ID]; ok {
			problems = append(problems, fmt.Errorf("staff %d: %w", i, staff.ErrDuplicateStaff))
			continue
		}
		seen[s.ID] = struct{}{}

		m, err := newMember(s)
		if err != nil {
			problems = append(problems, fmt.Errorf("staff %d: %w", i, err))
			continue
		}
		members = append(members, m)
	}

	if len(problems) > 0 {
		return nil, errors.Join(problems...)
	}
	return members, nil
}

func newMember(s StaffConfig) (*staff.Member, error) {
	id, err := staff.NewID(s.ID)
	if err != nil {
		return nil, err
	}
	groups := make([]skillgroup.SkillGroup, 0, len(s.Groups))
	for _, name := range s.Groups {
		g, groupErr := skillgroup.NewSkillGroup(name)
		if groupErr != nil {
			return nil, groupErr
		}
		groups = append(groups, g)
	}
	return staff.NewMember(id, s.Name, groups)
}
