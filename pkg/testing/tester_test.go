package testing

import (
	"testing"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/internal/testbed"
	"github.com/go-drift/fiber/pkg/memhost"
)

func TestRootTester_RenderAndPump(t *testing.T) {
	rt := NewRootTester(t)
	rt.RenderAndPump(core.H(testbed.Greeting, core.NewProps(core.Attr("name", "fiber"))))

	if got, want := memhost.TextContent(rt.Container), "Hello, fiber"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
	if len(rt.Commits) != 1 {
		t.Fatalf("commits = %d, want 1", len(rt.Commits))
	}
	// component, h1, text
	if got := rt.LastCommit().Placements; got != 3 {
		t.Errorf("placements = %d, want 3", got)
	}
}

func TestRootTester_Click(t *testing.T) {
	rt := NewRootTester(t)
	rt.RenderAndPump(core.H(testbed.Counter, core.NewProps(core.Attr("initial", 5))))

	rt.Click("button", 0)
	if rt.Scheduler.Pending() != 1 {
		t.Fatalf("pending callbacks = %d, want 1 after a state update", rt.Scheduler.Pending())
	}
	rt.Pump()

	if got, want := memhost.TextContent(rt.Container), "Count: 6"; got != want {
		t.Errorf("text = %q, want %q", got, want)
	}
}

func TestRootTester_PumpUnits(t *testing.T) {
	rt := NewRootTester(t)
	rt.Render(core.H(testbed.Greeting, core.NewProps(core.Attr("name", "slices"))))

	// root, Greeting, h1, text: four units in total.
	if !rt.PumpUnits(2) {
		t.Fatal("expected work pending after two units")
	}
	if len(rt.Commits) != 0 {
		t.Fatal("nothing should be committed mid-pass")
	}
	if rt.PumpUnits(2) {
		t.Fatal("expected the pass to finish within the second slice")
	}
	if got := rt.LastCommit().Units; got != 4 {
		t.Errorf("units = %d, want 4", got)
	}
}

func TestUnitBudget(t *testing.T) {
	d := UnitBudget(3)
	for i := 1; i <= 2; i++ {
		if d.TimeRemaining() == 0 {
			t.Fatalf("check %d: budget expired early", i)
		}
	}
	if d.TimeRemaining() != 0 {
		t.Error("budget should expire on the third check")
	}
}
