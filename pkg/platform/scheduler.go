package platform

import "time"

// Deadline reports how much of the current idle slice is left.
// The reconciler checks it between units of work and yields once the
// remaining time drops below its threshold.
type Deadline interface {
	TimeRemaining() time.Duration
}

// IdleScheduler is the host scheduling primitive: it runs a callback once
// the host is idle, passing a deadline for the slice it grants.
//
// A callback is invoked at most once per registration; callers that want
// to keep running must register again from inside the callback.
type IdleScheduler interface {
	RequestIdleCallback(cb func(Deadline))
}

// Clock supplies the current time. SystemClock is the production clock;
// tests substitute a fake.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// SliceDeadline is a Deadline that expires a fixed budget after Start.
type SliceDeadline struct {
	Clock  Clock
	Start  time.Time
	Budget time.Duration
}

// NewSliceDeadline starts a slice of the given budget at clock.Now().
func NewSliceDeadline(clock Clock, budget time.Duration) SliceDeadline {
	if clock == nil {
		clock = SystemClock{}
	}
	return SliceDeadline{Clock: clock, Start: clock.Now(), Budget: budget}
}

// TimeRemaining returns the unused part of the budget, never negative.
func (d SliceDeadline) TimeRemaining() time.Duration {
	remaining := d.Budget - d.Clock.Now().Sub(d.Start)
	if remaining < 0 {
		return 0
	}
	return remaining
}
