package core

import (
	stderrors "errors"
	"time"

	"github.com/tliron/commonlog"

	"github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/platform"
)

// DefaultYieldThreshold is the remaining slice time below which the work
// loop yields back to the host.
const DefaultYieldThreshold = time.Millisecond

// maxRenderRestarts bounds how many times state setters called during
// render may restart a pass, or re-run one component, before it is
// considered a render loop.
const maxRenderRestarts = 50

var errTooManyRestarts = stderrors.New("too many re-renders: a component sets state unconditionally during render")

// Root owns one host container and the fiber trees rendered into it.
// It replaces process-wide reconciler state: every pass, hook cursor and
// pending deletion belongs to exactly one Root.
//
// A Root is not goroutine-safe. Render, WorkLoop, Flush, Unmount and the
// state setters handed out by UseState must all run on the goroutine that
// drives the root's scheduler.
type Root struct {
	container Node
	renderer  Renderer
	scheduler platform.IdleScheduler

	yieldThreshold time.Duration
	log            commonlog.Logger
	onCommit       func(CommitStats)
	onError        func(error)

	current   *Fiber
	wip       *Fiber
	next      *Fiber
	deletions []*Fiber

	rendering *BuildContext

	units      int
	generation uint64
	restarts   int
	scheduled  bool
	unmounted  bool
	err        error
}

// Option configures a Root.
type Option func(*Root)

// WithScheduler sets the idle scheduler that drives the work loop. Without
// one, work only progresses through explicit WorkLoop or Flush calls.
func WithScheduler(s platform.IdleScheduler) Option {
	return func(r *Root) { r.scheduler = s }
}

// WithYieldThreshold sets the minimum remaining slice time needed to start
// another unit of work.
func WithYieldThreshold(d time.Duration) Option {
	return func(r *Root) {
		if d >= 0 {
			r.yieldThreshold = d
		}
	}
}

// WithLogger replaces the trace logger.
func WithLogger(l commonlog.Logger) Option {
	return func(r *Root) {
		if l != nil {
			r.log = l
		}
	}
}

// OnCommit registers a callback invoked after every successful commit.
func OnCommit(fn func(CommitStats)) Option {
	return func(r *Root) { r.onCommit = fn }
}

// OnError registers a callback invoked when a pass fails.
func OnError(fn func(error)) Option {
	return func(r *Root) { r.onError = fn }
}

// NewRoot creates a root rendering into container through renderer.
func NewRoot(container Node, renderer Renderer, opts ...Option) *Root {
	r := &Root{
		container:      container,
		renderer:       renderer,
		yieldThreshold: DefaultYieldThreshold,
		log:            commonlog.GetLogger("fiber.core"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Render starts a pass rendering el into the container. Any unfinished pass
// is abandoned; the last call wins.
func (r *Root) Render(el *Element) {
	if r.unmounted {
		r.log.Warning("Render called on an unmounted root")
		return
	}
	r.startPass(Props{}.WithChildren([]*Element{el}))
}

// scheduleUpdate restarts rendering from the committed root after a state
// setter queued an action.
func (r *Root) scheduleUpdate() {
	if r.unmounted {
		return
	}
	switch {
	case r.current != nil:
		r.startPass(r.current.Props)
	case r.wip != nil:
		// Nothing committed yet: restart the initial pass.
		r.startPass(r.wip.Props)
	}
}

func (r *Root) startPass(props Props) {
	r.wip = &Fiber{
		Node:      r.container,
		Props:     props,
		Alternate: r.current,
	}
	r.deletions = nil
	r.next = r.wip
	r.units = 0
	r.err = nil
	r.generation++
	r.log.Debugf("render pass %d started", r.generation)
	r.schedule()
}

// schedule registers the work loop with the scheduler once per slice.
func (r *Root) schedule() {
	if r.scheduler == nil || r.scheduled {
		return
	}
	r.scheduled = true
	r.scheduler.RequestIdleCallback(r.idleCallback)
}

// idleCallback is the only entry point that consumes the registration;
// WorkLoop called directly, as Flush does, leaves it pending.
func (r *Root) idleCallback(deadline platform.Deadline) {
	r.scheduled = false
	r.WorkLoop(deadline)
}

// WorkLoop performs units of work until the deadline leaves less than the
// yield threshold, commits a finished pass, and re-registers with the
// scheduler while work remains. A nil deadline never expires.
func (r *Root) WorkLoop(deadline platform.Deadline) {
	if r.unmounted {
		return
	}
	if deadline == nil {
		deadline = unlimited{}
	}

	shouldYield := false
	for r.next != nil && !shouldYield {
		gen := r.generation
		next, err := r.performUnitOfWork(r.next)
		if r.generation != gen {
			// A setter fired during the unit and restarted the pass; the
			// restarted pass already points r.next at its root.
			r.restarts++
			if r.restarts > maxRenderRestarts {
				r.fail(&errors.FiberError{
					Op:   "core.WorkLoop",
					Kind: errors.KindScheduler,
					Err:  errTooManyRestarts,
				})
				return
			}
		} else {
			if err != nil {
				r.fail(err)
				return
			}
			r.next = next
		}
		shouldYield = deadline.TimeRemaining() < r.yieldThreshold
	}

	if r.next == nil && r.wip != nil {
		r.commit()
	}
	if r.next != nil {
		r.log.Debugf("yielding with work pending (pass %d, %d units)", r.generation, r.units)
		r.schedule()
	}
}

func (r *Root) commit() {
	stats, err := r.commitRoot()
	if err != nil {
		r.fail(err)
		return
	}
	r.current = r.wip
	r.wip = nil
	r.restarts = 0
	r.log.Debugf("committed pass %d: units=%d placements=%d updates=%d deletions=%d",
		r.generation, stats.Units, stats.Placements, stats.Updates, stats.Deletions)
	if r.onCommit != nil {
		r.onCommit(stats)
	}
}

// fail abandons the pass in progress and reports err. Host mutations
// already applied by a failing commit stay in place.
func (r *Root) fail(err error) {
	r.wip = nil
	r.next = nil
	r.deletions = nil
	r.restarts = 0
	r.err = err

	r.log.Errorf("render pass %d failed: %s", r.generation, err.Error())
	var buildErr *errors.BuildError
	var fiberErr *errors.FiberError
	switch {
	case stderrors.As(err, &buildErr):
		errors.ReportBuildError(buildErr)
	case stderrors.As(err, &fiberErr):
		errors.Report(fiberErr)
	}
	if r.onError != nil {
		r.onError(err)
	}
}

// Flush runs pending work to completion on the calling goroutine,
// ignoring time slices, and returns the error of the last pass.
func (r *Root) Flush() error {
	for r.wip != nil && !r.unmounted {
		r.WorkLoop(unlimited{})
	}
	return r.err
}

// Unmount removes every committed host node from the container and
// discards all fiber state. The root cannot be rendered into afterwards.
func (r *Root) Unmount() error {
	if r.unmounted {
		return nil
	}
	r.wip, r.next, r.deletions = nil, nil, nil

	var err error
	if r.current != nil {
		for child := r.current.Child; child != nil; child = child.Sibling {
			if e := r.commitDeletion(child, r.container); e != nil && err == nil {
				err = e
			}
		}
	}
	r.current = nil
	r.unmounted = true
	return err
}

// Pending reports whether a pass is in progress and not yet committed.
func (r *Root) Pending() bool { return r.wip != nil }

// Err returns the error that ended the most recent pass, if any.
func (r *Root) Err() error { return r.err }

// Current returns the root fiber of the last committed tree.
func (r *Root) Current() *Fiber { return r.current }

// WorkInProgress returns the root fiber of the pass being built, or nil.
func (r *Root) WorkInProgress() *Fiber { return r.wip }

// Container returns the host container node.
func (r *Root) Container() Node { return r.container }

type unlimited struct{}

func (unlimited) TimeRemaining() time.Duration { return time.Duration(1<<63 - 1) }
