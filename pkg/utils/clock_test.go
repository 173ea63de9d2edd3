package utils

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMonotonicClock_StrictlyIncreasingWithFrozenSource(t *testing.T) {
	frozen := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	clock := NewMonotonicClock(func() time.Time { return frozen })

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, frozen, first)
	assert.True(t, second.After(first))
	assert.True(t, third.After(second))
}

func TestMonotonicClock_SourceGoingBackwards(t *testing.T) {
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	readings := []time.Time{base, base.Add(-time.Second), base.Add(time.Second)}
	i := 0
	clock := NewMonotonicClock(func() time.Time {
		r := readings[i]
		i++
		return r
	})

	a := clock.Now()
	b := clock.Now()
	c := clock.Now()

	assert.True(t, b.After(a))
	assert.Equal(t, base.Add(time.Second), c)
}

func TestMonotonicClock_ConcurrentCallersGetDistinctInstants(t *testing.T) {
	clock := NewMonotonicClock(func() time.Time { return time.Unix(0, 0) })

	const n = 200
	results := make(chan time.Time, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- clock.Now()
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[time.Time]bool)
	for r := range results {
		require.False(t, seen[r], "duplicate timestamp %v", r)
		seen[r] = true
	}
	assert.Len(t, seen, n)
}
