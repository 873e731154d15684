// Package testbed provides shared components for package tests.
package testbed

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/core"
)

// Counter renders a button showing a count that increments on click.
// The "initial" prop seeds the count.
var Counter = core.NewComponent("Counter", func(ctx *core.BuildContext, props core.Props) *core.Element {
	initial, _ := props.Get("initial")
	start, _ := initial.Int()
	count, setCount := core.UseState(ctx, int(start))
	return core.H(core.Tag("button"),
		core.NewProps(core.On("click", func(core.Event) {
			setCount(func(c int) int { return c + 1 })
		})),
		fmt.Sprintf("Count: %d", count),
	)
})

// Greeting renders a static heading from its "name" prop.
var Greeting = core.NewComponent("Greeting", func(ctx *core.BuildContext, props core.Props) *core.Element {
	return core.H(core.Tag("h1"), core.Props{}, "Hello, "+props.GetString("name"))
})
