package core

import (
	stderrors "errors"

	"github.com/go-drift/fiber/pkg/errors"
)

var errNoHostParent = stderrors.New("no ancestor owns a host node")

// CommitStats summarizes one committed render pass.
type CommitStats struct {
	// Units is the number of units of work performed for the pass.
	Units int
	// Placements and Updates count fibers by effect tag; Deletions counts
	// the replaced fibers removed.
	Placements int
	Updates    int
	Deletions  int
	// Patched counts updates whose props actually changed.
	Patched int
}

// commitRoot applies the pass's deletions, then the effects of the
// work-in-progress tree in depth-first pre-order. It is not interruptible.
func (r *Root) commitRoot() (CommitStats, error) {
	stats := CommitStats{Units: r.units}

	for _, fiber := range r.deletions {
		parent := fiber.hostParent()
		if parent == nil {
			return stats, missingHost(fiber)
		}
		if err := r.commitDeletion(fiber, parent.Node); err != nil {
			return stats, err
		}
		stats.Deletions++
	}
	r.deletions = nil

	stack := []*Fiber{}
	if r.wip.Child != nil {
		stack = append(stack, r.wip.Child)
	}
	for len(stack) > 0 {
		fiber := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if err := r.commitWork(fiber, &stats); err != nil {
			return stats, err
		}
		if fiber.Sibling != nil {
			stack = append(stack, fiber.Sibling)
		}
		if fiber.Child != nil {
			stack = append(stack, fiber.Child)
		}
	}
	r.wip.Alternate = nil
	return stats, nil
}

func (r *Root) commitWork(fiber *Fiber, stats *CommitStats) error {
	parent := fiber.hostParent()
	if parent == nil {
		return missingHost(fiber)
	}

	switch fiber.EffectTag {
	case EffectPlacement:
		stats.Placements++
		if fiber.Node != nil {
			if err := r.renderer.AppendChild(parent.Node, fiber.Node); err != nil {
				return hostFailure("core.commitWork", "AppendChild", TypeName(fiber.Type), fiber, err)
			}
		}
	case EffectUpdate:
		stats.Updates++
		if fiber.Node != nil {
			prev := fiber.Alternate.Props
			if len(DiffProps(prev, fiber.Props)) > 0 {
				stats.Patched++
			}
			if err := r.renderer.PatchNode(fiber.Node, prev, fiber.Props); err != nil {
				return hostFailure("core.commitWork", "PatchNode", TypeName(fiber.Type), fiber, err)
			}
		}
	}
	fiber.EffectTag = EffectNone

	if fiber.IsComponent() {
		commitHooks(fiber)
	}
	// The committed fiber becomes the next pass's alternate; its own
	// alternate is no longer needed.
	fiber.Alternate = nil
	return nil
}

// commitDeletion removes the host nodes of a deleted subtree. Component
// fibers own no node, so their removal is delegated to the first
// descendants that do.
func (r *Root) commitDeletion(fiber *Fiber, parent Node) error {
	stack := []*Fiber{fiber}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if n.Node != nil {
			if err := r.renderer.RemoveChild(parent, n.Node); err != nil {
				return hostFailure("core.commitDeletion", "RemoveChild", TypeName(n.Type), n, err)
			}
			continue
		}
		kids := n.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
	return nil
}

func missingHost(fiber *Fiber) error {
	return &errors.FiberError{
		Op:    "core.commitRoot",
		Kind:  errors.KindMissingHost,
		Fiber: fiber.String(),
		Err:   errNoHostParent,
	}
}
