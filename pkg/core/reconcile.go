package core

// sameType reports whether an old fiber can be updated in place by el.
func sameType(old *Fiber, el *Element) bool {
	return old != nil && el != nil && old.Type == el.Type
}

// reconcileChildren diffs elements against the alternate's child chain,
// position by position, and links the resulting fibers under parent.
//
// Matching is positional, not keyed: reordering children of different
// types yields a deletion and a placement per moved position rather than
// a move.
func (r *Root) reconcileChildren(parent *Fiber, elements []*Element) {
	var oldFiber *Fiber
	if parent.Alternate != nil {
		oldFiber = parent.Alternate.Child
	}
	parent.Child = nil

	var prev *Fiber
	for i := 0; i < len(elements) || oldFiber != nil; i++ {
		var el *Element
		if i < len(elements) {
			el = elements[i]
		}

		var next *Fiber
		switch {
		case sameType(oldFiber, el):
			next = &Fiber{
				Type:      oldFiber.Type,
				Props:     el.Props,
				Node:      oldFiber.Node,
				Return:    parent,
				Alternate: oldFiber,
				EffectTag: EffectUpdate,
			}
		case el != nil:
			next = &Fiber{
				Type:      el.Type,
				Props:     el.Props,
				Return:    parent,
				EffectTag: EffectPlacement,
			}
		}
		if oldFiber != nil && !sameType(oldFiber, el) {
			r.deletions = append(r.deletions, oldFiber)
		}

		if oldFiber != nil {
			oldFiber = oldFiber.Sibling
		}
		if next == nil {
			continue
		}
		if prev == nil {
			parent.Child = next
		} else {
			prev.Sibling = next
		}
		prev = next
	}
}
