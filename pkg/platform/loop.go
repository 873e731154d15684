package platform

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tliron/commonlog"

	fibererrors "github.com/go-drift/fiber/pkg/errors"
)

var (
	// ErrLoopRunning is returned when Run or RunUntilIdle is called on a
	// loop that is already running.
	ErrLoopRunning = errors.New("platform: loop is already running")
)

const (
	// DefaultSlice is the idle budget handed to each idle callback.
	DefaultSlice = 8 * time.Millisecond
	// DefaultFrame is the pause between idle rounds while callbacks keep
	// re-registering.
	DefaultFrame = 16 * time.Millisecond
)

var loopLog = commonlog.GetLogger("fiber.platform")

// Loop is a single-goroutine host loop. It runs dispatched tasks first and
// idle callbacks afterwards, giving each idle callback a fixed time slice.
//
// Dispatch and RequestIdleCallback are safe to call from any goroutine; the
// callbacks themselves always run on the goroutine that called Run.
type Loop struct {
	mu    sync.Mutex
	tasks []func()
	idle  []func(Deadline)

	wake    chan struct{}
	running atomic.Bool

	slice time.Duration
	frame time.Duration
	clock Clock
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithSlice sets the time budget of each idle callback.
func WithSlice(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d > 0 {
			l.slice = d
		}
	}
}

// WithFrame sets the pause between consecutive idle rounds. Zero runs
// idle rounds back to back.
func WithFrame(d time.Duration) LoopOption {
	return func(l *Loop) {
		if d >= 0 {
			l.frame = d
		}
	}
}

// WithClock replaces the clock used to compute idle deadlines.
func WithClock(c Clock) LoopOption {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// NewLoop creates an idle loop. It does nothing until Run is called.
func NewLoop(opts ...LoopOption) *Loop {
	l := &Loop{
		wake:  make(chan struct{}, 1),
		slice: DefaultSlice,
		frame: DefaultFrame,
		clock: SystemClock{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dispatch queues fn to run on the loop goroutine ahead of idle work.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
}

// RequestIdleCallback implements IdleScheduler.
func (l *Loop) RequestIdleCallback(cb func(Deadline)) {
	if cb == nil {
		return
	}
	l.mu.Lock()
	l.idle = append(l.idle, cb)
	l.mu.Unlock()
	l.signal()
}

// Pending reports whether any task or idle callback is waiting.
func (l *Loop) Pending() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks) > 0 || len(l.idle) > 0
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Run drives the loop until ctx is cancelled. It returns ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	return l.run(ctx, false)
}

// RunUntilIdle drives the loop until nothing is queued, or ctx is done.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, true)
}

func (l *Loop) run(ctx context.Context, stopWhenIdle bool) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	loopLog.Debugf("loop started (slice=%s frame=%s)", l.slice, l.frame)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		l.runTasks()

		ranIdle := l.runIdle()
		if stopWhenIdle && !l.Pending() {
			return nil
		}

		if !l.Pending() {
			if err := l.wait(ctx, nil); err != nil {
				return err
			}
			continue
		}
		if ranIdle && l.frame > 0 {
			// Re-registration from the round just run must not cut the pause short.
			select {
			case <-l.wake:
			default:
			}
			timer := time.NewTimer(l.frame)
			err := l.wait(ctx, timer.C)
			timer.Stop()
			if err != nil {
				return err
			}
		}
	}
}

// wait blocks until new work is signalled, pause fires, or ctx is done.
func (l *Loop) wait(ctx context.Context, pause <-chan time.Time) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.wake:
	case <-pause:
	}
	return nil
}

func (l *Loop) runTasks() {
	for {
		l.mu.Lock()
		tasks := l.tasks
		l.tasks = nil
		l.mu.Unlock()
		if len(tasks) == 0 {
			return
		}
		for _, task := range tasks {
			l.safeCall("platform.Loop.task", task)
		}
	}
}

// runIdle runs the callbacks registered before this round. Callbacks that
// register again are picked up by the next round.
func (l *Loop) runIdle() bool {
	l.mu.Lock()
	idle := l.idle
	l.idle = nil
	l.mu.Unlock()
	for _, cb := range idle {
		deadline := NewSliceDeadline(l.clock, l.slice)
		l.safeCall("platform.Loop.idle", func() { cb(deadline) })
	}
	return len(idle) > 0
}

func (l *Loop) safeCall(op string, fn func()) {
	if p := fibererrors.Guard(op, fn); p != nil {
		loopLog.Errorf("%s: recovered from panic: %v", op, p.Value)
	}
}
