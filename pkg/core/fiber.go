package core

import "fmt"

// EffectTag classifies the host mutation a fiber needs at commit.
type EffectTag uint8

const (
	EffectNone EffectTag = iota
	EffectPlacement
	EffectUpdate
)

func (t EffectTag) String() string {
	switch t {
	case EffectPlacement:
		return "PLACEMENT"
	case EffectUpdate:
		return "UPDATE"
	default:
		return "NONE"
	}
}

// Fiber is the mutable work record for one tree position.
//
// Child and Sibling are the owning edges of the tree. Return and Alternate
// are navigation-only: Return points at the parent, Alternate at the fiber
// for the same position in the last committed tree. The reconciler reads
// through Alternate but never writes through it; replaced fibers are only
// listed in the pass's deletions.
type Fiber struct {
	Type  Type
	Props Props
	// Node is the host node owned by this fiber. Component fibers never
	// own one; host fibers get one during their unit of work.
	Node Node

	Return    *Fiber
	Child     *Fiber
	Sibling   *Fiber
	Alternate *Fiber

	EffectTag EffectTag

	// hooks is the head of the component's hook list.
	hooks *hookCell
}

// IsComponent reports whether the fiber evaluates a function component.
func (f *Fiber) IsComponent() bool {
	_, ok := f.Type.(*Component)
	return ok
}

// IsRoot reports whether f is a root fiber (no type, owns the container).
func (f *Fiber) IsRoot() bool {
	return f.Type == nil
}

// HookCount returns the number of hook cells recorded on the fiber.
func (f *Fiber) HookCount() int {
	n := 0
	for h := f.hooks; h != nil; h = h.next {
		n++
	}
	return n
}

// Children returns the fiber's child chain as a slice.
func (f *Fiber) Children() []*Fiber {
	var out []*Fiber
	for c := f.Child; c != nil; c = c.Sibling {
		out = append(out, c)
	}
	return out
}

// Walk visits f and its descendants in depth-first pre-order until visit
// returns false.
func (f *Fiber) Walk(visit func(*Fiber) bool) {
	if f == nil {
		return
	}
	stack := []*Fiber{f}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(n) {
			return
		}
		// Push children in reverse so the first child pops first.
		kids := n.Children()
		for i := len(kids) - 1; i >= 0; i-- {
			stack = append(stack, kids[i])
		}
	}
}

func (f *Fiber) String() string {
	if f == nil {
		return "<nil>"
	}
	if f.Type == TextTag {
		return fmt.Sprintf("text(%q)", f.Props.GetString(NodeValueKey))
	}
	return TypeName(f.Type)
}

// hostParent returns the nearest ancestor owning a host node.
func (f *Fiber) hostParent() *Fiber {
	p := f.Return
	for p != nil && p.Node == nil {
		p = p.Return
	}
	return p
}
