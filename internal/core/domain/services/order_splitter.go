package services

import (
	"errors"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/workunit"
)

// GroupResolver maps a product type to the skill group that prepares it.
// *skillgroup.Registry is the production implementation.
type GroupResolver interface {
	GroupFor(productType skillgroup.ProductType) (skillgroup.SkillGroup, error)
}

// OrderSplitter partitions an order into work units.
//
// Business rules:
//   - one work unit per distinct skill group among the order's items
//   - units appear in order of first appearance of their group in the item list
//   - items keep their original relative order inside a unit
//   - every item lands in exactly one unit
//   - an item whose product type has no group fails the whole split
//
// Example usage:
//
//	splitter := services.NewOrderSplitter()
//	units, err := splitter.Split(o, registry)
//	if errors.Is(err, skillgroup.ErrUnmappedProductType) {
//	    // reject the order, nothing was created
//	}
type OrderSplitter struct {
	newID func() kernel.UUID
}

// NewOrderSplitter creates an OrderSplitter issuing random work unit ids.
func NewOrderSplitter() OrderSplitter {
	return OrderSplitter{newID: kernel.NewUUID}
}

// Split returns the work units of o. On error no unit is returned.
func (s OrderSplitter) Split(o *order.Order, resolver GroupResolver) ([]*workunit.WorkUnit, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}

	type partition struct {
		group   skillgroup.SkillGroup
		indexes []int
		items   []order.Item
	}

	var (
		partitions []*partition
		byGroup    = make(map[skillgroup.SkillGroup]*partition)
		unmapped   []error
	)

	for i, item := range o.Items() {
		group, err := resolver.GroupFor(item.ProductType())
		if err != nil {
			unmapped = append(unmapped, err)
			continue
		}

		p, ok := byGroup[group]
		if !ok {
			p = &partition{group: group}
			byGroup[group] = p
			partitions = append(partitions, p)
		}
		p.indexes = append(p.indexes, i)
		p.items = append(p.items, item)
	}
	if len(unmapped) > 0 {
		return nil, errors.Join(unmapped...)
	}

	newID := s.newID
	if newID == nil {
		newID = kernel.NewUUID
	}

	units := make([]*workunit.WorkUnit, 0, len(partitions))
	for _, p := range partitions {
		unit, err := workunit.NewWorkUnit(newID(), o.Number(), p.group, p.indexes, p.items)
		if err != nil {
			return nil, err
		}
		units = append(units, unit)
	}

	return units, nil
}
