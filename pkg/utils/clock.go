package utils

import (
	"sync"
	"time"
)

// SystemClock reads wall time truncated to the store's microsecond precision.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// MonotonicClock never returns the same instant twice and never goes
// backwards, even when the underlying clock does.
type MonotonicClock struct {
	mu   sync.Mutex
	last time.Time
	now  func() time.Time
}

func NewMonotonicClock(now func() time.Time) *MonotonicClock {
	if now == nil {
		now = SystemClock{}.Now
	}
	return &MonotonicClock{now: now}
}

func (c *MonotonicClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	t := c.now().Truncate(time.Microsecond)
	if !t.After(c.last) {
		t = c.last.Add(time.Microsecond)
	}
	c.last = t
	return t
}

// FixedClock always reports the same instant. Useful in tests.
type FixedClock struct {
	T time.Time
}

func (c FixedClock) Now() time.Time { return c.T }
