package dispatch

import (
	"sort"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/workunit"
)

func sortGroups(groups []skillgroup.SkillGroup) {
	sort.Slice(groups, func(i, j int) bool { return groups[i].Less(groups[j]) })
}

func sortQueues(queues []*GroupQueue) {
	sort.Slice(queues, func(i, j int) bool { return queues[i].group.Less(queues[j].group) })
}

// sortUnitsByEnqueue orders units by their first enqueue, oldest first.
func sortUnitsByEnqueue(units []*workunit.WorkUnit) {
	sort.SliceStable(units, func(i, j int) bool { return units[i].EnqueuedBefore(units[j]) })
}

// orderedSet collects order numbers in first-seen order.
type orderedSet struct {
	seen  map[kernel.OrderNumber]struct{}
	items []kernel.OrderNumber
}

func (s *orderedSet) add(n kernel.OrderNumber) {
	if s.seen == nil {
		s.seen = make(map[kernel.OrderNumber]struct{})
	}
	if _, ok := s.seen[n]; ok {
		return
	}
	s.seen[n] = struct{}{}
	s.items = append(s.items, n)
}

// groupSet collects skill groups and returns them sorted.
type groupSet map[skillgroup.SkillGroup]struct{}

func (s groupSet) add(groups ...skillgroup.SkillGroup) {
	for _, g := range groups {
		s[g] = struct{}{}
	}
}

func (s groupSet) sorted() []skillgroup.SkillGroup {
	out := make([]skillgroup.SkillGroup, 0, len(s))
	for g := range s {
		out = append(out, g)
	}
	sortGroups(out)
	return out
}

// sortByEnqueuedAt orders units of different groups by wall-clock enqueue time.
func sortByEnqueuedAt(units []*workunit.WorkUnit) {
	sort.SliceStable(units, func(i, j int) bool {
		a, b := units[i], units[j]
		if !a.EnqueuedAt().Equal(b.EnqueuedAt()) {
			return a.EnqueuedAt().Before(b.EnqueuedAt())
		}
		if a.Group() != b.Group() {
			return a.Group().Less(b.Group())
		}
		return a.EnqueuedBefore(b)
	})
}
