package core

import "fmt"

// Type identifies what an Element describes: a host tag or a component.
// Two types are the same when they compare equal with ==, which is string
// equality for tags and pointer identity for components.
type Type interface {
	typeName() string
}

// Tag names a host node type, such as "div" or "h1".
type Tag string

func (t Tag) typeName() string { return string(t) }

// TextTag is the reserved tag of text elements. Their content is carried
// by the NodeValueKey prop.
const TextTag Tag = "TEXT_ELEMENT"

// NodeValueKey is the prop holding a text element's content.
const NodeValueKey = "nodeValue"

// RenderFunc evaluates a component. It may call hooks through ctx and
// returns the single element the component expands to, or nil.
type RenderFunc func(ctx *BuildContext, props Props) *Element

// Component is a function component. Create components once, at package
// scope, with NewComponent: the pointer is the component's identity, so a
// component recreated on every render would never match its previous fiber.
type Component struct {
	Name   string
	Render RenderFunc
}

// NewComponent creates a named function component.
func NewComponent(name string, render RenderFunc) *Component {
	return &Component{Name: name, Render: render}
}

func (c *Component) typeName() string {
	if c.Name == "" {
		return "Component"
	}
	return c.Name
}

// TypeName returns a printable name for t.
func TypeName(t Type) string {
	if t == nil {
		return "root"
	}
	return t.typeName()
}

// Element is an immutable description of the UI at one tree position.
type Element struct {
	Type  Type
	Props Props
}

// H builds an element from a type, its props and children.
//
// Children may be *Element, []*Element (flattened in order), nil (skipped),
// or any other value, which is wrapped in a text element using fmt.Sprint.
func H(t Type, props Props, children ...any) *Element {
	if len(children) == 0 {
		return &Element{Type: t, Props: props}
	}
	kids := make([]*Element, 0, len(children))
	for _, child := range children {
		switch c := child.(type) {
		case nil:
		case *Element:
			if c != nil {
				kids = append(kids, c)
			}
		case []*Element:
			for _, e := range c {
				if e != nil {
					kids = append(kids, e)
				}
			}
		default:
			kids = append(kids, Text(c))
		}
	}
	return &Element{Type: t, Props: props.WithChildren(kids)}
}

// Text creates a text element whose content is fmt.Sprint(v).
func Text(v any) *Element {
	var s string
	switch x := v.(type) {
	case string:
		s = x
	default:
		s = fmt.Sprint(v)
	}
	return &Element{
		Type:  TextTag,
		Props: NewProps(Prop{Key: NodeValueKey, Value: String(s)}),
	}
}

// IsText reports whether e is a text element.
func (e *Element) IsText() bool {
	return e != nil && e.Type == TextTag
}

func (e *Element) String() string {
	if e == nil {
		return "<nil>"
	}
	if e.IsText() {
		v, _ := e.Props.Get(NodeValueKey)
		return fmt.Sprintf("%q", v.String())
	}
	return fmt.Sprintf("<%s>", TypeName(e.Type))
}
