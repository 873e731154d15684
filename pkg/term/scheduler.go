package term

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-drift/fiber/pkg/platform"
)

// idleMsg marks an idle round of the program.
type idleMsg struct{}

// tickScheduler is an IdleScheduler driven by bubbletea ticks. Callbacks
// run inside Update, on the program goroutine, so the root never sees
// concurrent access.
type tickScheduler struct {
	queue []func(platform.Deadline)
	slice time.Duration
	frame time.Duration
	clock platform.Clock

	// ticking is set while an idle tick is in flight.
	ticking bool
}

var _ platform.IdleScheduler = (*tickScheduler)(nil)

func (s *tickScheduler) RequestIdleCallback(cb func(platform.Deadline)) {
	if cb != nil {
		s.queue = append(s.queue, cb)
	}
}

// tick returns the command for the next idle round, or nil when nothing
// is queued or a round is already pending.
func (s *tickScheduler) tick() tea.Cmd {
	if len(s.queue) == 0 || s.ticking {
		return nil
	}
	s.ticking = true
	if s.frame <= 0 {
		return func() tea.Msg { return idleMsg{} }
	}
	return tea.Tick(s.frame, func(time.Time) tea.Msg { return idleMsg{} })
}

// runRound runs the callbacks registered before the round, each with its
// own slice, and returns how many ran.
func (s *tickScheduler) runRound() int {
	s.ticking = false
	queue := s.queue
	s.queue = nil
	for _, cb := range queue {
		cb(platform.NewSliceDeadline(s.clock, s.slice))
	}
	return len(queue)
}
