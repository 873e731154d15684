package testing

import (
	"sync"
	"time"

	"github.com/go-drift/fiber/pkg/platform"
)

// FakeClock provides controllable time for deterministic scheduler tests.
// All methods are safe for concurrent use.
type FakeClock struct {
	mu  sync.Mutex
	now time.Time
}

var _ platform.Clock = (*FakeClock)(nil)

// NewFakeClock returns a FakeClock starting at a fixed epoch.
func NewFakeClock() *FakeClock {
	return &FakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

// Now returns the current fake time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Set sets the clock to an exact time.
func (c *FakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

// Deadline starts an idle slice of the given budget at the current fake
// time. It only expires when the clock is advanced.
func (c *FakeClock) Deadline(budget time.Duration) platform.SliceDeadline {
	return platform.NewSliceDeadline(c, budget)
}
