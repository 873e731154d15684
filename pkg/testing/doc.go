// Package testing provides deterministic test tooling for the fiber
// reconciler.
//
// # Quick Start
//
// Create a tester, render an element tree, pump the scheduler and inspect
// the in-memory host:
//
//	func TestCounter(t *testing.T) {
//	    rt := fibertest.NewRootTester(t)
//	    rt.RenderAndPump(core.H(Counter, core.Props{}))
//
//	    rt.Click("button", 0)
//	    rt.Pump()
//
//	    if got := memhost.TextContent(rt.Container); got != "Count: 1" {
//	        t.Errorf("text = %q", got)
//	    }
//	}
//
// # Time Slicing
//
// The manual scheduler runs idle callbacks only when asked. UnitBudget
// limits a slice to a number of units of work, so tests can interrupt a
// pass at an exact fiber:
//
//	rt.Render(tree)
//	rt.PumpUnits(3) // three units, then the loop yields
//	rt.Pump()       // resume and commit
//
// FakeClock.Deadline gives time-based slices driven by a fake clock.
//
// # Import Alias
//
// Since this package has the same name as the standard library testing
// package, import it with an alias:
//
//	import fibertest "github.com/go-drift/fiber/pkg/testing"
package testing
