package testutil

import (
	"sync"
	"time"
)

// VirtualClock is a clock whose time only moves when After is called.
//
// After advances the virtual time by d and returns a channel that already
// holds the new time, so waits complete immediately while Now() still
// reports the schedule the caller asked for.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type VirtualClock struct {
	mu    sync.Mutex
	now   time.Time
	waits []time.Duration
}

// NewVirtualClock creates a clock starting at start.
func NewVirtualClock(start time.Time) *VirtualClock {
	return &VirtualClock{now: start}
}

// Now returns the current virtual time.
func (c *VirtualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// After advances the virtual time by d and returns a ready channel.
// Negative durations do not move the clock.
func (c *VirtualClock) After(d time.Duration) <-chan time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.waits = append(c.waits, d)
	if d > 0 {
		c.now = c.now.Add(d)
	}
	ch := make(chan time.Time, 1)
	ch <- c.now
	return ch
}

// Waits returns a copy of every duration passed to After, in call order.
func (c *VirtualClock) Waits() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]time.Duration, len(c.waits))
	copy(out, c.waits)
	return out
}

// Reset clears recorded waits and moves the clock to start.
func (c *VirtualClock) Reset(start time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = start
	c.waits = nil
}
