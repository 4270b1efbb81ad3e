package dispatch

import (
	"container/list"
	"sync"
	"time"

	"workload/internal/core/domain/model/skillgroup"
	"workload/internal/core/domain/model/workunit"
)

// GroupQueue is the FIFO of Queued work units of one skill group.
//
// Units leave the queue only from the front. A unit handed back on logout re-enters at
// the front, ahead of units that never left the queue.
type GroupQueue struct {
	mu    sync.Mutex
	group skillgroup.SkillGroup
	units *list.List
	seq   uint64
}

// NewGroupQueue creates an empty queue for group.
func NewGroupQueue(group skillgroup.SkillGroup) *GroupQueue {
	return &GroupQueue{
		group: group,
		units: list.New(),
	}
}

// Group returns the skill group served by the queue.
func (q *GroupQueue) Group() skillgroup.SkillGroup {
	return q.group
}

// Enqueue appends u to the tail. The first enqueue of a unit stamps its sequence and
// enqueue time.
func (q *GroupQueue) Enqueue(u *workunit.WorkUnit, at time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.enqueue(u, at)
}

// PushFront puts u at the head of the queue.
func (q *GroupQueue) PushFront(u *workunit.WorkUnit) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pushFront(u)
}

// Peek returns the head without removing it.
func (q *GroupQueue) Peek() (*workunit.WorkUnit, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.front()
}

// DequeueIfAssignable removes and returns the head only if isStaffed reports true at
// the moment of the call. Otherwise the head stays queued.
func (q *GroupQueue) DequeueIfAssignable(isStaffed func() bool) (*workunit.WorkUnit, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dequeueIf(func(*workunit.WorkUnit) bool { return isStaffed() })
}

// Len returns the number of queued units.
func (q *GroupQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.units.Len()
}

// Snapshot returns copies of the queued units, head first.
func (q *GroupQueue) Snapshot() []*workunit.WorkUnit {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]*workunit.WorkUnit, 0, q.units.Len())
	for e := q.units.Front(); e != nil; e = e.Next() {
		out = append(out, e.Value.(*workunit.WorkUnit).Clone())
	}
	return out
}

// Oldest returns the earliest first-enqueue time among the queued units. After a
// revert the head is not necessarily the oldest unit.
func (q *GroupQueue) Oldest() (time.Time, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	var (
		oldest time.Time
		found  bool
	)
	for e := q.units.Front(); e != nil; e = e.Next() {
		at := e.Value.(*workunit.WorkUnit).EnqueuedAt()
		if !found || at.Before(oldest) {
			oldest = at
			found = true
		}
	}
	return oldest, found
}

// The helpers below expect q.mu to be held.

func (q *GroupQueue) enqueue(u *workunit.WorkUnit, at time.Time) {
	q.seq++
	u.MarkEnqueued(q.seq, at)
	q.units.PushBack(u)
}

func (q *GroupQueue) front() (*workunit.WorkUnit, bool) {
	e := q.units.Front()
	if e == nil {
		return nil, false
	}
	return e.Value.(*workunit.WorkUnit), true
}

func (q *GroupQueue) pushFront(u *workunit.WorkUnit) {
	q.units.PushFront(u)
}

// dequeueIf removes the head when accept reports true for it.
func (q *GroupQueue) dequeueIf(accept func(head *workunit.WorkUnit) bool) (*workunit.WorkUnit, bool) {
	e := q.units.Front()
	if e == nil {
		return nil, false
	}
	u := e.Value.(*workunit.WorkUnit)
	if !accept(u) {
		return nil, false
	}
	q.units.Remove(e)
	return u, true
}

// queueSet lazily creates one GroupQueue per skill group.
type queueSet struct {
	mu     sync.RWMutex
	queues map[skillgroup.SkillGroup]*GroupQueue
}

func newQueueSet() *queueSet {
	return &queueSet{queues: make(map[skillgroup.SkillGroup]*GroupQueue)}
}

func (s *queueSet) get(group skillgroup.SkillGroup) *GroupQueue {
	s.mu.RLock()
	q, ok := s.queues[group]
	s.mu.RUnlock()
	if ok {
		return q
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if q, ok = s.queues[group]; ok {
		return q
	}
	q = NewGroupQueue(group)
	s.queues[group] = q
	return q
}

// all returns the existing queues sorted by group.
func (s *queueSet) all() []*GroupQueue {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*GroupQueue, 0, len(s.queues))
	for _, q := range s.queues {
		out = append(out, q)
	}
	sortQueues(out)
	return out
}
