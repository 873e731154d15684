package core

import (
	"fmt"
	"strconv"
)

// ValueKind tags the variant held by a Value.
type ValueKind uint8

const (
	KindNull ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindHandler
)

func (k ValueKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindHandler:
		return "handler"
	default:
		return "null"
	}
}

// Event is delivered to handler props by the host.
type Event struct {
	// Type is the event name without the "on" prefix, lower-cased ("click").
	Type string
	// Target is the host node the event was dispatched to.
	Target Node
	// Data carries host-specific payload.
	Data any
}

// Handler is a callback-handle prop value. Handlers compare by identity:
// each call to Func yields a distinct handle.
type Handler struct {
	fn func(Event)
}

// Call invokes the handler. A nil handler is a no-op.
func (h *Handler) Call(e Event) {
	if h != nil && h.fn != nil {
		h.fn(e)
	}
}

// Value is the tagged union stored in props: a primitive or a handler.
// The zero Value is null.
type Value struct {
	kind ValueKind
	str  string
	num  int64
	flt  float64
	h    *Handler
}

// Null returns the null value.
func Null() Value { return Value{} }

// String wraps a string.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int wraps an integer.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Float wraps a float.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool wraps a boolean.
func Bool(b bool) Value {
	v := Value{kind: KindBool}
	if b {
		v.num = 1
	}
	return v
}

// Func wraps an event callback in a new handler.
func Func(fn func(Event)) Value {
	return Value{kind: KindHandler, h: &Handler{fn: fn}}
}

// ValueOf converts common Go values into a Value. Unknown types are
// stored as their fmt.Sprint string.
func ValueOf(v any) Value {
	switch x := v.(type) {
	case nil:
		return Null()
	case Value:
		return x
	case string:
		return String(x)
	case bool:
		return Bool(x)
	case int:
		return Int(int64(x))
	case int32:
		return Int(int64(x))
	case int64:
		return Int(x)
	case uint:
		return Int(int64(x))
	case float32:
		return Float(float64(x))
	case float64:
		return Float(x)
	case func(Event):
		return Func(x)
	case func():
		return Func(func(Event) { x() })
	case *Handler:
		return Value{kind: KindHandler, h: x}
	default:
		return String(fmt.Sprint(v))
	}
}

// Kind returns the variant tag.
func (v Value) Kind() ValueKind { return v.kind }

// IsNull reports whether v is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// Handler returns the callback handle, or nil for non-handler values.
func (v Value) Handler() *Handler {
	if v.kind != KindHandler {
		return nil
	}
	return v.h
}

// Int returns the integer payload and whether v is an int.
func (v Value) Int() (int64, bool) { return v.num, v.kind == KindInt }

// Float returns the float payload and whether v is a float.
func (v Value) Float() (float64, bool) { return v.flt, v.kind == KindFloat }

// Bool returns the boolean payload and whether v is a bool.
func (v Value) Bool() (bool, bool) { return v.num != 0, v.kind == KindBool }

// Equal compares primitives by value and handlers by identity.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt, KindBool:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindHandler:
		return v.h == o.h
	default:
		return true
	}
}

// String renders the value the way a host attribute would carry it.
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return strconv.FormatFloat(v.flt, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.num != 0)
	case KindHandler:
		return fmt.Sprintf("handler(%p)", v.h)
	default:
		return ""
	}
}

// Prop is one key/value pair of a props mapping.
type Prop struct {
	Key   string
	Value Value
}

// Attr builds a Prop, converting v with ValueOf.
func Attr(key string, v any) Prop {
	return Prop{Key: key, Value: ValueOf(v)}
}

// On builds an event-listener prop. The event "click" becomes key "onClick".
func On(event string, fn func(Event)) Prop {
	key := "on"
	if event != "" {
		key += string(upper(event[0])) + event[1:]
	}
	return Prop{Key: key, Value: Func(fn)}
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

// ChildrenKey is reserved for the children sequence and is never stored
// as a regular prop.
const ChildrenKey = "children"

// Props is an ordered mapping from string keys to Values plus the
// element's children. The zero Props is empty and ready to use.
type Props struct {
	entries  []Prop
	children []*Element
}

// NewProps builds props in the given order. A repeated key keeps its first
// position and takes the last value; the reserved children key is ignored.
func NewProps(entries ...Prop) Props {
	if len(entries) == 0 {
		return Props{}
	}
	out := make([]Prop, 0, len(entries))
	for _, e := range entries {
		if e.Key == ChildrenKey {
			continue
		}
		replaced := false
		for i := range out {
			if out[i].Key == e.Key {
				out[i].Value = e.Value
				replaced = true
				break
			}
		}
		if !replaced {
			out = append(out, e)
		}
	}
	return Props{entries: out}
}

// Get returns the value for key.
func (p Props) Get(key string) (Value, bool) {
	for _, e := range p.entries {
		if e.Key == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Has reports whether key is present.
func (p Props) Has(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// Len returns the number of regular props, excluding children.
func (p Props) Len() int { return len(p.entries) }

// Keys returns the regular prop keys in order.
func (p Props) Keys() []string {
	keys := make([]string, len(p.entries))
	for i, e := range p.entries {
		keys[i] = e.Key
	}
	return keys
}

// Range calls fn for every regular prop in order until fn returns false.
func (p Props) Range(fn func(key string, v Value) bool) {
	for _, e := range p.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Children returns the children sequence. Callers must not modify it.
func (p Props) Children() []*Element { return p.children }

// WithChildren returns a copy of p carrying children.
func (p Props) WithChildren(children []*Element) Props {
	p.children = children
	return p
}

// GetString returns the prop's string form, or "" when absent.
func (p Props) GetString(key string) string {
	v, _ := p.Get(key)
	return v.String()
}
