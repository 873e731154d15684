package core

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/errors"
)

// hookSlot is the identity of one hook position across renders. Every
// cell rendered for that position shares the slot, so an update queued
// through any generation's setter lands in the same queue.
type hookSlot struct {
	queue []func(any) any
}

// hookCell is one state cell of a component fiber, linked in call order.
type hookCell struct {
	state any
	slot  *hookSlot
	// applied is how many queued actions are folded into state. Commit
	// drops exactly that many and resets it to zero.
	applied int
	next    *hookCell
}

// BuildContext is handed to a component's RenderFunc. It is only valid for
// the duration of that call; hooks used after the render returns panic.
type BuildContext struct {
	root  *Root
	fiber *Fiber

	// base is the first cell carried over, kept for ownership checks.
	base     *hookCell
	oldHook  *hookCell
	lastHook *hookCell
	count    int
	done     bool
	// rerender is set when the component updated its own state while
	// rendering.
	rerender bool
}

// newBuildContext prepares a render of fiber whose hooks carry over from
// base: the alternate's cells, or the cells of a render just repeated.
func newBuildContext(root *Root, fiber *Fiber, base *hookCell) *BuildContext {
	fiber.hooks = nil
	return &BuildContext{root: root, fiber: fiber, base: base, oldHook: base}
}

// owns reports whether slot belongs to the fiber being rendered, either
// through a cell rendered so far or one carried over from before. A setter
// kept from an earlier render counts even before its UseState call is
// reached again.
func (c *BuildContext) owns(slot *hookSlot) bool {
	for _, head := range []*hookCell{c.fiber.hooks, c.base} {
		for cell := head; cell != nil; cell = cell.next {
			if cell.slot == slot {
				return true
			}
		}
	}
	return false
}

// Component returns the name of the component being rendered.
func (c *BuildContext) Component() string {
	return TypeName(c.fiber.Type)
}

// finish closes the context and checks the hook count against the
// previous render of the same fiber.
func (c *BuildContext) finish() error {
	c.done = true
	if c.fiber.Alternate == nil {
		return nil
	}
	if prev := c.fiber.Alternate.HookCount(); prev != c.count {
		return &errors.HookError{Component: c.Component(), Previous: prev, Current: c.count}
	}
	return nil
}

// nextCell produces the cell for the next hook call, carrying state over
// from the previous render's cell at the same position and folding the
// actions queued on it that the previous cell has not seen.
func (c *BuildContext) nextCell(initial any) *hookCell {
	if c.done {
		panic(&errors.HookError{Component: c.Component(), Reason: "hook called outside of a render"})
	}
	cell := &hookCell{}
	if old := c.oldHook; old != nil {
		cell.state = old.state
		cell.slot = old.slot
		for _, action := range old.slot.queue[old.applied:] {
			cell.state = action(cell.state)
		}
		cell.applied = len(old.slot.queue)
		c.oldHook = old.next
	} else {
		cell.state = initial
		cell.slot = &hookSlot{}
	}

	if c.lastHook == nil {
		c.fiber.hooks = cell
	} else {
		c.lastHook.next = cell
	}
	c.lastHook = cell
	c.count++
	return cell
}

// UseState declares a state cell. It returns the current state and a
// setter that queues an action and schedules a fresh render from the
// committed root, discarding any render in progress. A component setting
// its own state while rendering is rendered again in place instead.
//
// Hooks must be called in the same order on every render of a component.
// Setters are not goroutine-safe: call them from the goroutine driving the
// root, for example from an event handler or through platform.Dispatch.
//
// Example:
//
//	var Counter = core.NewComponent("Counter", func(ctx *core.BuildContext, props core.Props) *core.Element {
//	    count, setCount := core.UseState(ctx, 0)
//	    return core.H(core.Tag("button"), core.NewProps(
//	        core.On("click", func(core.Event) { setCount(func(c int) int { return c + 1 }) }),
//	    ), fmt.Sprintf("Count: %d", count))
//	})
func UseState[T any](ctx *BuildContext, initial T) (T, func(action func(T) T)) {
	cell := ctx.nextCell(initial)
	state, ok := cell.state.(T)
	if !ok && cell.state != nil {
		panic(&errors.HookError{
			Component: ctx.Component(),
			Reason:    fmt.Sprintf("state type changed from %T to %T", cell.state, initial),
		})
	}

	slot := cell.slot
	root := ctx.root
	set := func(action func(T) T) {
		if action == nil {
			return
		}
		slot.queue = append(slot.queue, func(s any) any {
			v, _ := s.(T)
			return action(v)
		})
		if ctx := root.rendering; ctx != nil && ctx.owns(slot) {
			ctx.rerender = true
			return
		}
		root.scheduleUpdate()
	}
	return state, set
}

// Set returns an action replacing the state with v.
func Set[T any](v T) func(T) T {
	return func(T) T { return v }
}

// commitHooks drops the actions folded by the render being committed.
func commitHooks(f *Fiber) {
	for cell := f.hooks; cell != nil; cell = cell.next {
		if cell.applied > 0 {
			cell.slot.queue = cell.slot.queue[cell.applied:]
			cell.applied = 0
		}
	}
}
