// Package demo holds the sample application rendered by the fiber CLI.
package demo

import (
	"github.com/go-drift/fiber/pkg/core"
)

var (
	div = core.Tag("div")
	h1  = core.Tag("h1")
	p   = core.Tag("p")
)

// Counter renders three independent counters. Clicking a line bumps its
// own state cell only.
var Counter = core.NewComponent("Counter", func(ctx *core.BuildContext, _ core.Props) *core.Element {
	first, setFirst := core.UseState(ctx, 2)
	second, setSecond := core.UseState(ctx, 6)
	third, setThird := core.UseState(ctx, 7)

	return core.H(div, core.Props{},
		core.H(h1, core.NewProps(
			core.On("click", func(core.Event) { setFirst(increment) }),
			core.Attr("style", "user-select: none"),
		), "Count: ", first),
		core.H(p, core.NewProps(
			core.On("click", func(core.Event) { setSecond(increment) }),
		), "Count: ", second),
		core.H(p, core.NewProps(
			core.On("click", func(core.Event) { setThird(increment) }),
		), "Count: ", third),
	)
})

func increment(n int) int { return n + 1 }

// App returns the root element of the demo.
func App() *core.Element {
	return core.H(Counter, core.Props{})
}
