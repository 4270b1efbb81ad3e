package kernel_test

import (
	"strings"
	"sync"
	"testing"
	"time"

	"workload/internal/core/domain/model/kernel"
	"workload/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderNumber(t *testing.T) {
	t.Run("trims and keeps the value", func(t *testing.T) {
		n, err := kernel.NewOrderNumber("  O1 ")

		require.NoError(t, err)
		assert.Equal(t, "O1", n.String())
		require.NoError(t, n.Validate())
	})

	t.Run("rejects blank values", func(t *testing.T) {
		_, err := kernel.NewOrderNumber("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("rejects oversized values", func(t *testing.T) {
		_, err := kernel.NewOrderNumber(strings.Repeat("x", 65))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("zero value is invalid", func(t *testing.T) {
		var n kernel.OrderNumber

		assert.True(t, n.IsZero())
		require.ErrorIs(t, n.Validate(), kernel.ErrOrderNumberIsRequired)
	})
}

func TestOrderNumberSequence_Next(t *testing.T) {
	fixed := time.Date(2026, time.March, 7, 12, 0, 0, 0, time.UTC)
	seq := kernel.NewOrderNumberSequence(41, func() time.Time { return fixed })

	first := seq.Next()
	second := seq.Next()

	assert.Equal(t, "ORD07032026-000042", first.String())
	assert.Equal(t, "ORD07032026-000043", second.String())
}

func TestOrderNumberSequence_UniqueUnderConcurrency(t *testing.T) {
	seq := kernel.NewOrderNumberSequence(0, nil)

	var (
		mu   sync.Mutex
		seen = make(map[kernel.OrderNumber]struct{})
		wg   sync.WaitGroup
	)
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				n := seq.Next()
				mu.Lock()
				seen[n] = struct{}{}
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, 1000)
}

func TestOrderNumber_Counter(t *testing.T) {
	now := func() time.Time { return time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC) }
	seq := kernel.NewOrderNumberSequence(41, now)

	generated := seq.Next()
	counter, ok := generated.Counter()
	require.True(t, ok)
	assert.Equal(t, uint64(42), counter)

	for _, value := range []string{"O1", "ORD07032026", "ORD07032026-", "ORD99999999-000001", "ORD07032026-abc"} {
		n, err := kernel.NewOrderNumber(value)
		require.NoError(t, err)
		_, ok = n.Counter()
		assert.False(t, ok, value)
	}
}
