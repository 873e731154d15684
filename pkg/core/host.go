package core

import "strings"

// Node is an opaque handle to a host node. Only the Renderer that created
// it knows its concrete type.
type Node any

// Renderer is the host platform the reconciler drives. Implementations
// create nodes, patch their props and maintain containment; the reconciler
// never inspects node internals.
//
// PatchNode must leave the node untouched when prev and next are equal,
// so repeated identical patches are safe. DiffProps computes the ordered
// changes a renderer has to apply.
type Renderer interface {
	CreateHostNode(tag Tag) (Node, error)
	CreateTextNode() (Node, error)
	PatchNode(node Node, prev, next Props) error
	AppendChild(parent, child Node) error
	RemoveChild(parent, child Node) error
}

// PropOp is the kind of a single prop change.
type PropOp uint8

const (
	// OpRemoveListener unregisters a stale or replaced event listener.
	OpRemoveListener PropOp = iota
	// OpClearAttr clears an attribute absent from the next props.
	OpClearAttr
	// OpSetAttr sets a new or changed attribute.
	OpSetAttr
	// OpAddListener registers a new or replaced event listener.
	OpAddListener
)

func (op PropOp) String() string {
	switch op {
	case OpRemoveListener:
		return "remove-listener"
	case OpClearAttr:
		return "clear"
	case OpSetAttr:
		return "set"
	case OpAddListener:
		return "add-listener"
	default:
		return "unknown"
	}
}

// PropChange is one host mutation produced by DiffProps.
type PropChange struct {
	Op  PropOp
	Key string
	// Event is the listener type for listener ops ("click" for "onClick").
	Event string
	Value Value
}

// EventPrefix marks props that are event listeners rather than attributes.
const EventPrefix = "on"

// IsEventKey reports whether key names an event listener.
func IsEventKey(key string) bool {
	return strings.HasPrefix(key, EventPrefix)
}

// EventType maps a listener key to its event type: "onClick" → "click".
func EventType(key string) string {
	return strings.ToLower(strings.TrimPrefix(key, EventPrefix))
}

// DiffProps returns the changes turning prev into next, ordered as
// listener removals, attribute clears, attribute sets, listener additions.
// Equal prop sets produce no changes.
func DiffProps(prev, next Props) []PropChange {
	var removeListeners, clears, sets, addListeners []PropChange

	prev.Range(func(key string, old Value) bool {
		nv, inNext := next.Get(key)
		if IsEventKey(key) {
			if !inNext || !nv.Equal(old) {
				removeListeners = append(removeListeners, PropChange{
					Op: OpRemoveListener, Key: key, Event: EventType(key), Value: old,
				})
			}
			return true
		}
		if !inNext {
			clears = append(clears, PropChange{Op: OpClearAttr, Key: key})
		}
		return true
	})

	next.Range(func(key string, nv Value) bool {
		old, inPrev := prev.Get(key)
		if inPrev && old.Equal(nv) {
			return true
		}
		if IsEventKey(key) {
			addListeners = append(addListeners, PropChange{
				Op: OpAddListener, Key: key, Event: EventType(key), Value: nv,
			})
		} else {
			sets = append(sets, PropChange{Op: OpSetAttr, Key: key, Value: nv})
		}
		return true
	})

	n := len(removeListeners) + len(clears) + len(sets) + len(addListeners)
	if n == 0 {
		return nil
	}
	changes := make([]PropChange, 0, n)
	changes = append(changes, removeListeners...)
	changes = append(changes, clears...)
	changes = append(changes, sets...)
	return append(changes, addListeners...)
}
