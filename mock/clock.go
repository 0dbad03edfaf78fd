package mock

import (
	"context"
	"sync"
	"time"
)

// Clock is a simulated clock. Sleep advances time instantly and records the duration.
type Clock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration

	// OnSleep is called after time has advanced, tests use it to change the state being waited on
	OnSleep func(now time.Time)
}

// NewClock starting at a fixed instant
func NewClock() *Clock {
	return &Clock{now: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Sleep(ctx context.Context, d time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps = append(c.sleeps, d)
	now := c.now
	c.mu.Unlock()

	if c.OnSleep != nil {
		c.OnSleep(now)
	}
	return nil
}

// Advance time without recording a sleep, simulates slow lookups
func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

// Sleeps returns how many times Sleep was called
func (c *Clock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.sleeps)
}

// Slept is the total of every recorded sleep
func (c *Clock) Slept() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	var total time.Duration
	for _, d := range c.sleeps {
		total += d
	}
	return total
}
