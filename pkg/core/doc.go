// Package core is an incremental UI reconciler.
//
// Components are plain render functions that return element trees. A Root
// turns those trees into host nodes in two phases:
//
//   - The render phase walks a work-in-progress fiber tree one unit at a
//     time. Each unit renders a component or diffs a host element against
//     its committed counterpart and tags the fiber with an effect. The work
//     loop yields to the host whenever its idle deadline runs low, so a
//     large tree is reconciled across many idle callbacks without ever
//     mutating the host.
//   - The commit phase applies every tagged effect in one synchronous pass
//     and swaps the finished tree in as the committed tree.
//
// A pass can be abandoned at any point before commit: a new Render call or
// a state update restarts from the committed root, and the committed host
// tree is unaffected.
//
// # Elements
//
// H builds an element. Its type is either a host Tag or a *Component:
//
//	var Greeting = core.NewComponent("Greeting", func(ctx *core.BuildContext, p core.Props) *core.Element {
//	    return core.H(core.Tag("h1"), core.Props{}, "Hello, ", p.GetString("name"))
//	})
//
//	el := core.H(Greeting, core.NewProps(core.Attr("name", "fiber")))
//
// String and number children become text elements. Props hold attributes
// and event handlers; keys starting with "on" are listeners.
//
// # State
//
// UseState returns the current value of a state cell and a setter. Cells
// are matched to calls by order, so a component must call UseState the
// same number of times on every render:
//
//	count, setCount := core.UseState(ctx, 0)
//	setCount(func(n int) int { return n + 1 })
//
// Actions queued through a setter are applied in order on the next render
// of the component. Setters are safe to keep after the render returns;
// every generation of a component shares the same queues.
//
// # Hosts
//
// A Renderer creates and mutates host nodes. Package memhost provides an
// in-memory host; package term draws one in a terminal.
//
// # Scheduling
//
// A Root registers its work loop with a platform.IdleScheduler. Without a
// scheduler work progresses only through WorkLoop and Flush.
package core
