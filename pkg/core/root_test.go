package core_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fiber/pkg/core"
	fibererrors "github.com/go-drift/fiber/pkg/errors"
	"github.com/go-drift/fiber/pkg/internal/testbed"
	"github.com/go-drift/fiber/pkg/memhost"
	fibertest "github.com/go-drift/fiber/pkg/testing"
)

var (
	div = core.Tag("div")
	h1  = core.Tag("h1")
)

func TestRender_EndToEnd(t *testing.T) {
	var setCount func(func(int) int)
	app := core.NewComponent("App", func(ctx *core.BuildContext, _ core.Props) *core.Element {
		count, set := core.UseState(ctx, 0)
		setCount = set
		return core.H(div, core.Props{}, core.H(h1, core.Props{}, fmt.Sprintf("Count: %d", count)))
	})

	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(core.H(app, core.Props{}))

	want := "<root>\n  <div>\n    <h1>\n      \"Count: 0\"\n"
	if diff := cmp.Diff(want, rt.Dump()); diff != "" {
		t.Fatalf("initial tree mismatch (-want +got):\n%s", diff)
	}

	rt.Host.ResetMutations()
	setCount(func(c int) int { return c + 1 })
	rt.Pump()

	stats := rt.LastCommit()
	if stats.Placements != 0 || stats.Deletions != 0 {
		t.Errorf("placements=%d deletions=%d, want 0 and 0", stats.Placements, stats.Deletions)
	}
	if stats.Patched != 1 {
		t.Errorf("patched = %d, want 1", stats.Patched)
	}

	text := memhost.FindAll(rt.Container, core.TextTag)[0]
	wantMut := []memhost.Mutation{{Op: memhost.OpSetText, Node: text.ID, Key: core.NodeValueKey, Value: "Count: 1"}}
	if diff := cmp.Diff(wantMut, rt.Host.Mutations()); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_RoundTripIsStable(t *testing.T) {
	click := core.Func(func(core.Event) {})
	tree := func() *core.Element {
		return core.H(div, core.NewProps(core.Attr("id", "app"), core.Attr("tabindex", 1)),
			core.H(testbed.Greeting, core.NewProps(core.Attr("name", "fiber"))),
			core.H(core.Tag("button"), core.NewProps(core.Prop{Key: "onClick", Value: click}), "go"),
		)
	}

	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(tree())
	before := rt.Dump()

	rt.Host.ResetMutations()
	rt.RenderAndPump(tree())

	stats := rt.LastCommit()
	if stats.Placements != 0 || stats.Deletions != 0 || stats.Patched != 0 {
		t.Errorf("stats = %+v, want no placements, deletions or patches", stats)
	}
	if muts := rt.Host.Mutations(); len(muts) != 0 {
		t.Errorf("mutations = %v, want none", muts)
	}
	if diff := cmp.Diff(before, rt.Dump()); diff != "" {
		t.Errorf("tree changed (-before +after):\n%s", diff)
	}
}

func deepTree() *core.Element {
	items := make([]*core.Element, 5)
	for i := range items {
		items[i] = core.H(core.Tag("li"), core.NewProps(core.Attr("data-i", i)),
			core.H(testbed.Greeting, core.NewProps(core.Attr("name", fmt.Sprint(i)))))
	}
	return core.H(div, core.Props{},
		core.H(testbed.Counter, core.NewProps(core.Attr("initial", 3))),
		core.H(core.Tag("ul"), core.Props{}, items),
	)
}

func TestWorkLoop_InterruptedPassMatchesUnlimited(t *testing.T) {
	full := fibertest.NewRootTester(t)
	full.RenderAndPump(deepTree())

	sliced := fibertest.NewRootTester(t)
	sliced.Render(deepTree())
	slices := 0
	for sliced.PumpUnits(1) {
		slices++
		if len(sliced.Commits) != 0 {
			t.Fatal("committed before the pass finished")
		}
		if slices > 1000 {
			t.Fatal("pass never finished")
		}
	}

	if diff := cmp.Diff(full.Dump(), sliced.Dump()); diff != "" {
		t.Errorf("sliced tree differs (-unlimited +sliced):\n%s", diff)
	}
	if len(sliced.Commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(sliced.Commits))
	}
	// Every unit ran exactly once: resuming never repeats work.
	if got, want := sliced.LastCommit().Units, full.LastCommit().Units; got != want {
		t.Errorf("units = %d, want %d", got, want)
	}
	if got := sliced.Scheduler.Slices; got != full.LastCommit().Units {
		t.Errorf("slices = %d, want one per unit (%d)", got, full.LastCommit().Units)
	}
}

func TestWorkLoop_ResumesAtNextFiber(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.Render(core.H(div, core.Props{}, core.H(h1, core.Props{}, "a"), core.H(h1, core.Props{}, "b")))

	// root, div, h1
	if !rt.PumpUnits(3) {
		t.Fatal("expected pending work")
	}
	wip := rt.Root.WorkInProgress()
	first := wip.Child.Child
	if first.Node == nil {
		t.Fatal("first h1 should have its host node")
	}
	if second := first.Sibling; second != nil && second.Node != nil {
		t.Fatal("second h1 must not be begun before the slice resumes")
	}
	if len(rt.Container.Children) != 0 {
		t.Fatal("host tree must not change before commit")
	}

	rt.Pump()
	if got := memhost.TextContent(rt.Container); got != "ab" {
		t.Errorf("text = %q, want %q", got, "ab")
	}
}

func TestWorkLoop_TriggerDiscardsStaleWork(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(deepTree())

	rt.Click("button", 0)
	if !rt.PumpUnits(3) {
		t.Fatal("expected the first update pass to be in progress")
	}
	stale := rt.Root.WorkInProgress()

	rt.Click("button", 0)
	if rt.Root.WorkInProgress() == stale {
		t.Fatal("a trigger must replace the pass in progress")
	}
	rt.Pump()

	if len(rt.Commits) != 2 {
		t.Fatalf("commits = %d, want the initial one plus exactly one update", len(rt.Commits))
	}
	if got := memhost.TextContent(memhost.Find(rt.Container, "button")); got != "Count: 5" {
		t.Errorf("button text = %q, want %q", got, "Count: 5")
	}
}

func TestRender_LastCallWins(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.Render(core.H(h1, core.Props{}, "first"))
	rt.PumpUnits(1)
	rt.Render(core.H(h1, core.Props{}, "second"))
	rt.Pump()

	if len(rt.Commits) != 1 {
		t.Errorf("commits = %d, want 1", len(rt.Commits))
	}
	if got := memhost.TextContent(rt.Container); got != "second" {
		t.Errorf("text = %q, want %q", got, "second")
	}
}

func TestWorkLoop_IdleRootSchedulesNothing(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(core.H(h1, core.Props{}, "idle"))

	if n := rt.Scheduler.Pending(); n != 0 {
		t.Errorf("pending callbacks after commit = %d, want 0", n)
	}
}

func TestWorkLoop_FlushKeepsSingleRegistration(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.Render(core.H(h1, core.Props{}, "first"))
	if err := rt.Root.Flush(); err != nil {
		t.Fatal(err)
	}
	rt.Render(core.H(h1, core.Props{}, "second"))

	if n := rt.Scheduler.Pending(); n != 1 {
		t.Fatalf("pending callbacks = %d, want 1", n)
	}
	rt.Pump()
	if rt.Scheduler.Slices != 1 {
		t.Errorf("slices = %d, want 1", rt.Scheduler.Slices)
	}
	if got := memhost.TextContent(rt.Container); got != "second" {
		t.Errorf("text = %q, want %q", got, "second")
	}
}

func TestRender_ReplacesComponentSubtree(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(core.H(div, core.Props{}, core.H(testbed.Counter, core.Props{})))

	rt.RenderAndPump(core.H(div, core.Props{}, core.H(testbed.Greeting, core.NewProps(core.Attr("name", "x")))))

	stats := rt.LastCommit()
	if stats.Deletions != 1 {
		t.Errorf("deletions = %d, want 1", stats.Deletions)
	}
	want := "<root>\n  <div>\n    <h1>\n      \"Hello, x\"\n"
	if diff := cmp.Diff(want, rt.Dump()); diff != "" {
		t.Errorf("tree mismatch (-want +got):\n%s", diff)
	}
}

func TestRender_MissingHostContainer(t *testing.T) {
	var got error
	root := core.NewRoot(nil, memhost.New(), core.OnError(func(err error) { got = err }))
	root.Render(core.H(div, core.Props{}))

	err := root.Flush()
	var fe *fibererrors.FiberError
	if !errors.As(err, &fe) || fe.Kind != fibererrors.KindMissingHost {
		t.Fatalf("err = %v, want a missing-host FiberError", err)
	}
	if got != err {
		t.Error("OnError should receive the pass error")
	}
	if root.Pending() {
		t.Error("failed pass should be abandoned")
	}
}

func TestRender_HostFailure(t *testing.T) {
	boom := errors.New("boom")
	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(core.H(div, core.Props{}, "ok"))

	rt.Host.FailOn("CreateHostNode:h1", boom)
	rt.Render(core.H(div, core.Props{}, core.H(h1, core.Props{})))
	rt.Scheduler.Drain(10)

	err := rt.Root.Err()
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want it to wrap %v", err, boom)
	}
	var he *fibererrors.HostError
	if !errors.As(err, &he) || he.Op != "CreateHostNode" || he.Tag != "h1" {
		t.Errorf("host error = %+v, want CreateHostNode(h1)", he)
	}
	// The committed tree is left as it was.
	if got := memhost.TextContent(rt.Container); got != "ok" {
		t.Errorf("text = %q, want %q", got, "ok")
	}

	rt.Host.FailOn("CreateHostNode:h1", nil)
	rt.RenderAndPump(core.H(div, core.Props{}, core.H(h1, core.Props{}, "recovered")))
	if got := memhost.TextContent(rt.Container); got != "recovered" {
		t.Errorf("text = %q, want %q", got, "recovered")
	}
}

func TestRender_ComponentPanic(t *testing.T) {
	broken := core.NewComponent("Broken", func(*core.BuildContext, core.Props) *core.Element {
		panic("render exploded")
	})

	rt := fibertest.NewRootTester(t)
	rt.Render(core.H(div, core.Props{}, core.H(broken, core.Props{})))
	rt.Scheduler.Drain(10)

	var be *fibererrors.BuildError
	if !errors.As(rt.Root.Err(), &be) {
		t.Fatalf("err = %v, want a BuildError", rt.Root.Err())
	}
	if be.Component != "Broken" || be.Recovered != "render exploded" {
		t.Errorf("build error = %+v", be)
	}
	if len(rt.Container.Children) != 0 {
		t.Error("nothing should be committed")
	}
	if len(rt.Errors) != 1 {
		t.Errorf("reported errors = %d, want 1", len(rt.Errors))
	}
}

func TestUnmount(t *testing.T) {
	rt := fibertest.NewRootTester(t)
	rt.RenderAndPump(core.H(div, core.Props{}, core.H(testbed.Counter, core.Props{}), core.H(h1, core.Props{})))

	if err := rt.Root.Unmount(); err != nil {
		t.Fatal(err)
	}
	if len(rt.Container.Children) != 0 {
		t.Errorf("container children = %d, want 0", len(rt.Container.Children))
	}
	if rt.Root.Current() != nil {
		t.Error("fiber state should be discarded")
	}

	rt.Render(core.H(div, core.Props{}))
	if rt.Root.Pending() || rt.Scheduler.Pending() != 0 {
		t.Error("an unmounted root must ignore Render")
	}
	if err := rt.Root.Unmount(); err != nil {
		t.Errorf("second Unmount = %v, want nil", err)
	}
}

func TestRoot_WithoutScheduler(t *testing.T) {
	host := memhost.New()
	container := host.NewContainer()
	root := core.NewRoot(container, host)

	root.Render(core.H(h1, core.Props{}, "sync"))
	if !root.Pending() {
		t.Fatal("render should only start a pass")
	}
	if err := root.Flush(); err != nil {
		t.Fatal(err)
	}
	if got := memhost.TextContent(container); got != "sync" {
		t.Errorf("text = %q, want %q", got, "sync")
	}
}
