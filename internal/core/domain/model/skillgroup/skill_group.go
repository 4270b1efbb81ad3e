package skillgroup

import (
	"strings"

	"workload/internal/pkg/errs"
)

var (
	// ErrSkillGroupIsRequired is returned for a blank skill group name.
	ErrSkillGroupIsRequired = errs.NewValueIsRequiredError("skill group")
	// ErrProductTypeIsRequired is returned for a blank product type.
	ErrProductTypeIsRequired = errs.NewValueIsRequiredError("product type")
)

// SkillGroup names a staff competency such as "Kitchen" or "Bar".
type SkillGroup struct {
	name string
}

// NewSkillGroup validates a skill group name. Surrounding whitespace is trimmed;
// names are case sensitive.
func NewSkillGroup(name string) (SkillGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return SkillGroup{}, ErrSkillGroupIsRequired
	}
	return SkillGroup{name: name}, nil
}

// MustSkillGroup is NewSkillGroup for compile-time constants and tests.
func MustSkillGroup(name string) SkillGroup {
	g, err := NewSkillGroup(name)
	if err != nil {
		panic(err)
	}
	return g
}

func (g SkillGroup) String() string {
	return g.name
}

// IsZero reports whether the group was never set.
func (g SkillGroup) IsZero() bool {
	return g.name == ""
}

// Less orders groups by name, used wherever iteration must be deterministic.
func (g SkillGroup) Less(other SkillGroup) bool {
	return g.name < other.name
}

// ProductType names a kind of product, e.g. "Veg Pizza". Each product type maps
// to exactly one skill group.
type ProductType struct {
	name string
}

// NewProductType validates a product type name.
func NewProductType(name string) (ProductType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ProductType{}, ErrProductTypeIsRequired
	}
	return ProductType{name: name}, nil
}

// MustProductType is NewProductType for constants and tests.
func MustProductType(name string) ProductType {
	p, err := NewProductType(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p ProductType) String() string {
	return p.name
}

// IsZero reports whether the product type was never set.
func (p ProductType) IsZero() bool {
	return p.name == ""
}
