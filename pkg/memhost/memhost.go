// Package memhost is an in-memory host for the fiber reconciler.
//
// It keeps a plain node tree, applies prop patches the way a document
// host would (attributes plus event listeners), and records every host
// mutation so tests and tools can assert exactly what a commit did.
package memhost

import (
	"fmt"
	"sync"

	"github.com/go-drift/fiber/pkg/core"
)

// MutationOp names a recorded host mutation.
type MutationOp string

const (
	OpCreate         MutationOp = "create"
	OpCreateText     MutationOp = "create-text"
	OpSetAttr        MutationOp = "set"
	OpClearAttr      MutationOp = "clear"
	OpAddListener    MutationOp = "add-listener"
	OpRemoveListener MutationOp = "remove-listener"
	OpSetText        MutationOp = "set-text"
	OpAppend         MutationOp = "append"
	OpRemove         MutationOp = "remove"
)

// Mutation is one recorded host mutation.
type Mutation struct {
	Op     MutationOp
	Node   int
	Parent int
	Key    string
	Value  string
}

func (m Mutation) String() string {
	switch m.Op {
	case OpAppend, OpRemove:
		return fmt.Sprintf("%s #%d -> #%d", m.Op, m.Node, m.Parent)
	case OpCreate, OpCreateText:
		return fmt.Sprintf("%s #%d %s", m.Op, m.Node, m.Key)
	default:
		return fmt.Sprintf("%s #%d %s=%q", m.Op, m.Node, m.Key, m.Value)
	}
}

// Node is a host node. Text nodes have Tag core.TextTag and carry their
// content in Text.
type Node struct {
	ID       int
	Tag      core.Tag
	Text     string
	Parent   *Node
	Children []*Node

	attrs     []core.Prop
	listeners map[string]*core.Handler
}

// IsText reports whether n is a text node.
func (n *Node) IsText() bool { return n.Tag == core.TextTag }

// Attr returns an attribute's value.
func (n *Node) Attr(key string) (core.Value, bool) {
	for _, a := range n.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return core.Value{}, false
}

// Attrs returns the attributes in the order they were first set.
func (n *Node) Attrs() []core.Prop {
	out := make([]core.Prop, len(n.attrs))
	copy(out, n.attrs)
	return out
}

// Listener returns the handler registered for an event type.
func (n *Node) Listener(event string) *core.Handler {
	return n.listeners[event]
}

func (n *Node) setAttr(key string, v core.Value) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs[i].Value = v
			return
		}
	}
	n.attrs = append(n.attrs, core.Prop{Key: key, Value: v})
}

func (n *Node) clearAttr(key string) {
	for i := range n.attrs {
		if n.attrs[i].Key == key {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

// Host implements core.Renderer over an in-memory tree.
type Host struct {
	mu        sync.Mutex
	nextID    int
	mutations []Mutation
	failOn    map[string]error
}

var _ core.Renderer = (*Host)(nil)

// New creates an empty host.
func New() *Host {
	return &Host{}
}

// NewContainer creates a detached container node to render into.
func (h *Host) NewContainer() *Node {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.nextID++
	return &Node{ID: h.nextID, Tag: "root"}
}

// FailOn makes the named renderer operation ("CreateHostNode",
// "CreateTextNode", "PatchNode", "AppendChild", "RemoveChild") return err.
// For CreateHostNode the name may be suffixed with ":tag" to fail only
// that tag. A nil err clears the failure.
func (h *Host) FailOn(op string, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.failOn == nil {
		h.failOn = make(map[string]error)
	}
	if err == nil {
		delete(h.failOn, op)
		return
	}
	h.failOn[op] = err
}

func (h *Host) failure(op string, tag core.Tag) error {
	if err, ok := h.failOn[op]; ok {
		return err
	}
	if tag != "" {
		return h.failOn[op+":"+string(tag)]
	}
	return nil
}

func (h *Host) record(m Mutation) {
	h.mutations = append(h.mutations, m)
}

// CreateHostNode implements core.Renderer.
func (h *Host) CreateHostNode(tag core.Tag) (core.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failure("CreateHostNode", tag); err != nil {
		return nil, err
	}
	h.nextID++
	n := &Node{ID: h.nextID, Tag: tag}
	h.record(Mutation{Op: OpCreate, Node: n.ID, Key: string(tag)})
	return n, nil
}

// CreateTextNode implements core.Renderer.
func (h *Host) CreateTextNode() (core.Node, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failure("CreateTextNode", ""); err != nil {
		return nil, err
	}
	h.nextID++
	n := &Node{ID: h.nextID, Tag: core.TextTag}
	h.record(Mutation{Op: OpCreateText, Node: n.ID})
	return n, nil
}

// PatchNode implements core.Renderer. Changes are applied in the order
// returned by core.DiffProps; equal props leave the node untouched.
func (h *Host) PatchNode(node core.Node, prev, next core.Props) error {
	n, err := asNode(node)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failure("PatchNode", n.Tag); err != nil {
		return err
	}
	for _, change := range core.DiffProps(prev, next) {
		switch change.Op {
		case core.OpRemoveListener:
			delete(n.listeners, change.Event)
			h.record(Mutation{Op: OpRemoveListener, Node: n.ID, Key: change.Event})
		case core.OpClearAttr:
			if n.IsText() && change.Key == core.NodeValueKey {
				n.Text = ""
				h.record(Mutation{Op: OpSetText, Node: n.ID, Key: change.Key})
				continue
			}
			n.clearAttr(change.Key)
			h.record(Mutation{Op: OpClearAttr, Node: n.ID, Key: change.Key})
		case core.OpSetAttr:
			if n.IsText() && change.Key == core.NodeValueKey {
				n.Text = change.Value.String()
				h.record(Mutation{Op: OpSetText, Node: n.ID, Key: change.Key, Value: n.Text})
				continue
			}
			n.setAttr(change.Key, change.Value)
			h.record(Mutation{Op: OpSetAttr, Node: n.ID, Key: change.Key, Value: change.Value.String()})
		case core.OpAddListener:
			if n.listeners == nil {
				n.listeners = make(map[string]*core.Handler)
			}
			n.listeners[change.Event] = change.Value.Handler()
			h.record(Mutation{Op: OpAddListener, Node: n.ID, Key: change.Event})
		}
	}
	return nil
}

// AppendChild implements core.Renderer. A child attached elsewhere is
// moved.
func (h *Host) AppendChild(parent, child core.Node) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failure("AppendChild", c.Tag); err != nil {
		return err
	}
	if p.IsText() {
		return fmt.Errorf("memhost: cannot append to text node #%d", p.ID)
	}
	if c.Parent != nil {
		detach(c)
	}
	c.Parent = p
	p.Children = append(p.Children, c)
	h.record(Mutation{Op: OpAppend, Node: c.ID, Parent: p.ID})
	return nil
}

// RemoveChild implements core.Renderer.
func (h *Host) RemoveChild(parent, child core.Node) error {
	p, err := asNode(parent)
	if err != nil {
		return err
	}
	c, err := asNode(child)
	if err != nil {
		return err
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if err := h.failure("RemoveChild", c.Tag); err != nil {
		return err
	}
	if c.Parent != p {
		return fmt.Errorf("memhost: node #%d is not a child of #%d", c.ID, p.ID)
	}
	detach(c)
	h.record(Mutation{Op: OpRemove, Node: c.ID, Parent: p.ID})
	return nil
}

func detach(c *Node) {
	p := c.Parent
	for i, n := range p.Children {
		if n == c {
			p.Children = append(p.Children[:i], p.Children[i+1:]...)
			break
		}
	}
	c.Parent = nil
}

func asNode(n core.Node) (*Node, error) {
	node, ok := n.(*Node)
	if !ok || node == nil {
		return nil, fmt.Errorf("memhost: foreign node handle %T", n)
	}
	return node, nil
}

// Mutations returns a copy of the mutation log.
func (h *Host) Mutations() []Mutation {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Mutation, len(h.mutations))
	copy(out, h.mutations)
	return out
}

// ResetMutations clears the mutation log.
func (h *Host) ResetMutations() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.mutations = nil
}

// Dispatch delivers an event to the listener registered on node for
// eventType. It returns false when no listener is registered.
func (h *Host) Dispatch(node *Node, eventType string, data any) bool {
	h.mu.Lock()
	handler := node.listeners[eventType]
	h.mu.Unlock()
	if handler == nil {
		return false
	}
	handler.Call(core.Event{Type: eventType, Target: node, Data: data})
	return true
}
