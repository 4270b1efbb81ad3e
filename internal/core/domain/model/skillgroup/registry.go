package skillgroup

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnmappedProductType is returned when a product type has no skill group mapping.
	ErrUnmappedProductType = errors.New("unmapped product type")
	// ErrProductTypeAlreadyMapped is returned when a configuration maps one product type
	// to two different skill groups.
	ErrProductTypeAlreadyMapped = errors.New("product type already mapped to another skill group")
)

// Registry is the product type -> skill group configuration.
// It is read-mostly and safe for concurrent use.
type Registry struct {
	mu     sync.RWMutex
	groups map[ProductType]SkillGroup
}

// NewRegistry builds a registry from a group -> product types configuration.
// A product type listed under two different groups is rejected with
// ErrProductTypeAlreadyMapped; a group without product types is allowed.
func NewRegistry(config map[SkillGroup][]ProductType) (*Registry, error) {
	r := &Registry{groups: make(map[ProductType]SkillGroup)}

	for group, productTypes := range config {
		if group.IsZero() {
			return nil, ErrSkillGroupIsRequired
		}
		for _, pt := range productTypes {
			if pt.IsZero() {
				return nil, ErrProductTypeIsRequired
			}
			if existing, ok := r.groups[pt]; ok && existing != group {
				return nil, fmt.Errorf("%w: %s is mapped to %s and %s",
					ErrProductTypeAlreadyMapped, pt, existing, group)
			}
			r.groups[pt] = group
		}
	}

	return r, nil
}

// GroupFor resolves the skill group of a product type.
func (r *Registry) GroupFor(productType ProductType) (SkillGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.groups[productType]
	if !ok {
		return SkillGroup{}, fmt.Errorf("%w: %q", ErrUnmappedProductType, productType.String())
	}
	return group, nil
}

// Map adds or replaces the mapping of a product type. Administrative operation.
func (r *Registry) Map(productType ProductType, group SkillGroup) error {
	if productType.IsZero() {
		return ErrProductTypeIsRequired
	}
	if group.IsZero() {
		return ErrSkillGroupIsRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.groups[productType] = group
	return nil
}

// Unmap removes the mapping of a product type. Administrative operation.
func (r *Registry) Unmap(productType ProductType) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.groups[productType]; !ok {
		return fmt.Errorf("%w: %q", ErrUnmappedProductType, productType.String())
	}
	delete(r.groups, productType)
	return nil
}

// Groups returns every skill group that has at least one product type, sorted by name.
func (r *Registry) Groups() []SkillGroup {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[SkillGroup]struct{}, len(r.groups))
	groups := make([]SkillGroup, 0, len(r.groups))
	for _, g := range r.groups {
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		groups = append(groups, g)
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Less(groups[j]) })
	return groups
}

// ProductTypes returns every mapped product type, sorted by name.
func (r *Registry) ProductTypes() []ProductType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	types := make([]ProductType, 0, len(r.groups))
	for pt := range r.groups {
		types = append(types, pt)
	}
	sortProductTypes(types)
	return types
}

// ProductTypesOf returns the product types mapped to group, sorted by name.
func (r *Registry) ProductTypesOf(group SkillGroup) []ProductType {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var types []ProductType
	for pt, g := range r.groups {
		if g == group {
			types = append(types, pt)
		}
	}
	sortProductTypes(types)
	return types
}

func sortProductTypes(types []ProductType) {
	sort.Slice(types, func(i, j int) bool { return types[i].name < types[j].name })
}
