package dispatch_test

import (
	"sync"
	"testing"
	"time"

	"workload/internal/core/application/dispatch"
	"workload/internal/core/domain/model/kernel"
	"workload/internal/core/domain/model/order"
	"workload/internal/core/domain/model/staff"
	"workload/internal/core/domain/model/workunit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueuedUnit(t *testing.T) *workunit.WorkUnit {
	t.Helper()
	number, err := kernel.NewOrderNumber("O1")
	require.NoError(t, err)
	item, err := order.NewItem(pizza, 1)
	require.NoError(t, err)
	u, err := workunit.NewWorkUnit(kernel.NewUUID(), number, kitchen, []int{0}, []order.Item{item})
	require.NoError(t, err)
	return u
}

func TestGroupQueue_FIFO(t *testing.T) {
	q := dispatch.NewGroupQueue(kitchen)
	at := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

	a, b, c := newQueuedUnit(t), newQueuedUnit(t), newQueuedUnit(t)
	q.Enqueue(a, at)
	q.Enqueue(b, at)
	q.Enqueue(c, at)

	assert.Equal(t, kitchen, q.Group())
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, uint64(1), a.Sequence())
	assert.Equal(t, uint64(3), c.Sequence())

	head, ok := q.Peek()
	require.True(t, ok)
	assert.Same(t, a, head)

	staffed := func() bool { return true }
	for _, want := range []*workunit.WorkUnit{a, b, c} {
		got, ok := q.DequeueIfAssignable(staffed)
		require.True(t, ok)
		assert.Same(t, want, got)
	}

	_, ok = q.DequeueIfAssignable(staffed)
	assert.False(t, ok)
}

func TestGroupQueue_DequeueRequiresStaff(t *testing.T) {
	q := dispatch.NewGroupQueue(kitchen)
	u := newQueuedUnit(t)
	q.Enqueue(u, time.Now())

	got, ok := q.DequeueIfAssignable(func() bool { return false })

	assert.False(t, ok)
	assert.Nil(t, got)
	assert.Equal(t, 1, q.Len())
}

func TestGroupQueue_PushFrontKeepsOriginalSequence(t *testing.T) {
	q := dispatch.NewGroupQueue(kitchen)
	first, second := newQueuedUnit(t), newQueuedUnit(t)
	t0 := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)

	q.Enqueue(first, t0)
	q.Enqueue(second, t0.Add(time.Minute))
	got, _ := q.DequeueIfAssignable(func() bool { return true })
	require.Same(t, first, got)

	q.PushFront(first)

	snap := q.Snapshot()
	require.Len(t, snap, 2)
	assert.True(t, snap[0].ID().IsEqual(first.ID()))
	assert.Equal(t, uint64(1), snap[0].Sequence())

	oldest, ok := q.Oldest()
	require.True(t, ok)
	assert.Equal(t, t0, oldest)
}

func TestGroupQueue_SnapshotIsACopy(t *testing.T) {
	q := dispatch.NewGroupQueue(kitchen)
	u := newQueuedUnit(t)
	q.Enqueue(u, time.Now())

	snap := q.Snapshot()
	require.NoError(t, u.Assign(staff.MustID("S1")))

	assert.Equal(t, workunit.Queued, snap[0].Status())
}

func TestGroupQueue_EmptyQueue(t *testing.T) {
	q := dispatch.NewGroupQueue(kitchen)

	_, ok := q.Peek()
	assert.False(t, ok)
	_, ok = q.Oldest()
	assert.False(t, ok)
	assert.Empty(t, q.Snapshot())
}

func TestGroupQueue_ConcurrentEnqueueDequeue(t *testing.T) {
	q := dispatch.NewGroupQueue(kitchen)
	const producers, perProducer = 8, 50

	batches := make([][]*workunit.WorkUnit, producers)
	for p := range batches {
		for i := 0; i < perProducer; i++ {
			batches[p] = append(batches[p], newQueuedUnit(t))
		}
	}

	var wg sync.WaitGroup
	for _, batch := range batches {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, u := range batch {
				q.Enqueue(u, time.Now())
			}
		}()
	}

	var (
		mu   sync.Mutex
		seen = make(map[kernel.UUID]struct{})
		last = make(map[int]uint64)
	)
	for c := 0; c < 4; c++ {
		wg.Add(1)
		go func(consumer int) {
			defer wg.Done()
			for i := 0; i < producers*perProducer; i++ {
				u, ok := q.DequeueIfAssignable(func() bool { return true })
				if !ok {
					continue
				}
				mu.Lock()
				seen[u.ID()] = struct{}{}
				assert.Greater(t, u.Sequence(), last[consumer], "each consumer sees increasing sequences")
				last[consumer] = u.Sequence()
				mu.Unlock()
			}
		}(c)
	}
	wg.Wait()

	for {
		u, ok := q.DequeueIfAssignable(func() bool { return true })
		if !ok {
			break
		}
		seen[u.ID()] = struct{}{}
	}
	assert.Len(t, seen, producers*perProducer, "no unit lost or duplicated")
}
