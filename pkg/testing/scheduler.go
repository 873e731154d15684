package testing

import (
	"time"

	"github.com/go-drift/fiber/pkg/platform"
)

// ManualScheduler is an IdleScheduler that only runs callbacks when the
// test asks it to, with a deadline of the test's choosing.
type ManualScheduler struct {
	queue []func(platform.Deadline)
	// Slices counts the idle callbacks run so far.
	Slices int
}

var _ platform.IdleScheduler = (*ManualScheduler)(nil)

// NewManualScheduler creates an empty scheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// RequestIdleCallback implements platform.IdleScheduler.
func (s *ManualScheduler) RequestIdleCallback(cb func(platform.Deadline)) {
	if cb != nil {
		s.queue = append(s.queue, cb)
	}
}

// Pending returns the number of registered callbacks.
func (s *ManualScheduler) Pending() int {
	return len(s.queue)
}

// RunSlice runs the callbacks registered before the call, each with
// deadline d. Callbacks registered meanwhile wait for the next slice.
// It reports whether anything ran.
func (s *ManualScheduler) RunSlice(d platform.Deadline) bool {
	queue := s.queue
	s.queue = nil
	for _, cb := range queue {
		s.Slices++
		cb(d)
	}
	return len(queue) > 0
}

// Drain runs unlimited slices until nothing is registered or max slices
// have run. It returns the number of slices run.
func (s *ManualScheduler) Drain(max int) int {
	n := 0
	for n < max && len(s.queue) > 0 {
		s.RunSlice(Unlimited())
		n++
	}
	return n
}

// UnitBudget returns a deadline that allows exactly k units of work: it
// reports time left for the first k-1 checks and none afterwards. The work
// loop checks the deadline after every unit.
func UnitBudget(k int) platform.Deadline {
	return &unitBudget{units: k}
}

type unitBudget struct {
	units  int
	checks int
}

func (d *unitBudget) TimeRemaining() time.Duration {
	d.checks++
	if d.checks >= d.units {
		return 0
	}
	return time.Second
}

// Unlimited returns a deadline that never expires.
func Unlimited() platform.Deadline {
	return fixedDeadline(time.Hour)
}

// Exhausted returns a deadline that has already expired, so each slice
// performs a single unit of work.
func Exhausted() platform.Deadline {
	return fixedDeadline(0)
}

type fixedDeadline time.Duration

func (d fixedDeadline) TimeRemaining() time.Duration { return time.Duration(d) }
