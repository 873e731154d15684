package testing

import (
	"testing"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/memhost"
)

// maxPumpSlices bounds Pump so a render loop fails the test instead of
// hanging it.
const maxPumpSlices = 1000

// RootTester wires a Root to an in-memory host and a manual scheduler.
// Nothing renders until the test pumps.
type RootTester struct {
	t testing.TB

	Host      *memhost.Host
	Container *memhost.Node
	Scheduler *ManualScheduler
	Root      *core.Root

	// Commits records the stats of every commit, oldest first.
	Commits []core.CommitStats
	// Errors records every failed pass.
	Errors []error
}

// NewRootTester creates a tester; extra options are passed to core.NewRoot.
// The root is unmounted when the test ends.
func NewRootTester(t testing.TB, opts ...core.Option) *RootTester {
	t.Helper()
	host := memhost.New()
	rt := &RootTester{
		t:         t,
		Host:      host,
		Container: host.NewContainer(),
		Scheduler: NewManualScheduler(),
	}
	all := []core.Option{
		core.WithScheduler(rt.Scheduler),
		core.OnCommit(func(s core.CommitStats) { rt.Commits = append(rt.Commits, s) }),
		core.OnError(func(err error) { rt.Errors = append(rt.Errors, err) }),
	}
	rt.Root = core.NewRoot(rt.Container, host, append(all, opts...)...)
	t.Cleanup(func() {
		_ = rt.Root.Unmount()
	})
	return rt
}

// Render starts a pass for el without running it.
func (rt *RootTester) Render(el *core.Element) {
	rt.Root.Render(el)
}

// Pump runs slices with an unlimited deadline until the scheduler is idle,
// and fails the test if the last pass failed.
func (rt *RootTester) Pump() {
	rt.t.Helper()
	if n := rt.Scheduler.Drain(maxPumpSlices); n == maxPumpSlices && rt.Scheduler.Pending() > 0 {
		rt.t.Fatalf("scheduler still busy after %d slices", maxPumpSlices)
	}
	if err := rt.Root.Err(); err != nil {
		rt.t.Fatalf("render failed: %v", err)
	}
}

// PumpUnits runs a single slice allowing k units of work and reports
// whether work is still pending afterwards.
func (rt *RootTester) PumpUnits(k int) bool {
	rt.Scheduler.RunSlice(UnitBudget(k))
	return rt.Root.Pending()
}

// RenderAndPump renders el and pumps to completion.
func (rt *RootTester) RenderAndPump(el *core.Element) {
	rt.t.Helper()
	rt.Render(el)
	rt.Pump()
}

// LastCommit returns the stats of the most recent commit.
func (rt *RootTester) LastCommit() core.CommitStats {
	rt.t.Helper()
	if len(rt.Commits) == 0 {
		rt.t.Fatal("no commit recorded")
	}
	return rt.Commits[len(rt.Commits)-1]
}

// Find returns the index-th host node with tag in document order.
func (rt *RootTester) Find(tag core.Tag, index int) *memhost.Node {
	rt.t.Helper()
	nodes := memhost.FindAll(rt.Container, tag)
	if index >= len(nodes) {
		rt.t.Fatalf("found %d <%s> nodes, want index %d", len(nodes), tag, index)
	}
	return nodes[index]
}

// Click dispatches a click to the index-th node with tag.
func (rt *RootTester) Click(tag core.Tag, index int) {
	rt.t.Helper()
	if !rt.Host.Dispatch(rt.Find(tag, index), "click", nil) {
		rt.t.Fatalf("<%s> #%d has no click listener", tag, index)
	}
}

// Dump returns the container's markup dump.
func (rt *RootTester) Dump() string {
	return memhost.Dump(rt.Container)
}
