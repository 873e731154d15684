package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestH_Children(t *testing.T) {
	inner := H(Tag("span"), Props{})
	list := []*Element{H(Tag("li"), Props{}), nil, H(Tag("li"), Props{})}

	el := H(Tag("div"), NewProps(Attr("id", "app")), "hello", 42, nil, inner, list)

	kids := el.Props.Children()
	var got []string
	for _, k := range kids {
		got = append(got, k.String())
	}
	want := []string{`"hello"`, `"42"`, "<span>", "<li>", "<li>"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("children mismatch (-want +got):\n%s", diff)
	}
	if v, _ := el.Props.Get("id"); v.String() != "app" {
		t.Errorf("id = %q, want %q", v.String(), "app")
	}
}

func TestText(t *testing.T) {
	el := Text(3.5)
	if !el.IsText() {
		t.Fatal("expected a text element")
	}
	if got := el.Props.GetString(NodeValueKey); got != "3.5" {
		t.Errorf("nodeValue = %q, want %q", got, "3.5")
	}
	if len(el.Props.Children()) != 0 {
		t.Error("text elements have no children")
	}
}

func TestTypeIdentity(t *testing.T) {
	render := func(*BuildContext, Props) *Element { return nil }
	a := NewComponent("A", render)
	b := NewComponent("A", render)

	if sameType(&Fiber{Type: a}, &Element{Type: b}) {
		t.Error("distinct components must not match, even with the same name and func")
	}
	if !sameType(&Fiber{Type: a}, &Element{Type: a}) {
		t.Error("a component must match itself")
	}
	if !sameType(&Fiber{Type: Tag("div")}, &Element{Type: Tag("div")}) {
		t.Error("equal tags must match")
	}
	if sameType(&Fiber{Type: Tag("div")}, &Element{Type: TextTag}) {
		t.Error("different tags must not match")
	}
}

func TestNewProps_Order(t *testing.T) {
	p := NewProps(Attr("b", 1), Attr("a", 2), Attr("children", "x"), Attr("b", 3))
	if diff := cmp.Diff([]string{"b", "a"}, p.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	if v, _ := p.Get("b"); v.String() != "3" {
		t.Errorf("b = %s, want 3", v)
	}
}

func TestValueEqual(t *testing.T) {
	h := Func(func(Event) {})
	tests := []struct {
		name string
		a, b Value
		want bool
	}{
		{"same string", String("x"), String("x"), true},
		{"different string", String("x"), String("y"), false},
		{"int vs string", Int(1), String("1"), false},
		{"bools", Bool(true), Bool(true), true},
		{"floats", Float(1.5), Float(1.5), true},
		{"null", Null(), Value{}, true},
		{"same handler", h, h, true},
		{"fresh handlers", Func(func(Event) {}), Func(func(Event) {}), false},
	}
	for _, tt := range tests {
		if got := tt.a.Equal(tt.b); got != tt.want {
			t.Errorf("%s: Equal = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestDiffProps_Order(t *testing.T) {
	h1 := Func(func(Event) {})
	h2 := Func(func(Event) {})
	h3 := Func(func(Event) {})
	prev := NewProps(
		Prop{Key: "id", Value: String("a")},
		Prop{Key: "title", Value: String("t")},
		Prop{Key: "onClick", Value: h1},
	)
	next := NewProps(
		Prop{Key: "id", Value: String("b")},
		Prop{Key: "onClick", Value: h2},
		Prop{Key: "onMouseOver", Value: h3},
	)

	type change struct {
		Op    string
		Key   string
		Event string
	}
	var got []change
	for _, c := range DiffProps(prev, next) {
		got = append(got, change{c.Op.String(), c.Key, c.Event})
	}
	want := []change{
		{"remove-listener", "onClick", "click"},
		{"clear", "title", ""},
		{"set", "id", ""},
		{"add-listener", "onClick", "click"},
		{"add-listener", "onMouseOver", "mouseover"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DiffProps mismatch (-want +got):\n%s", diff)
	}
}

func TestDiffProps_EqualIsEmpty(t *testing.T) {
	h := Func(func(Event) {})
	p := NewProps(Attr("id", "x"), Prop{Key: "onClick", Value: h})
	q := NewProps(Attr("id", "x"), Prop{Key: "onClick", Value: h})
	if changes := DiffProps(p, q); len(changes) != 0 {
		t.Errorf("DiffProps of equal props = %v, want none", changes)
	}
}

func TestOn(t *testing.T) {
	p := On("click", func(Event) {})
	if p.Key != "onClick" {
		t.Errorf("key = %q, want onClick", p.Key)
	}
	if p.Value.Kind() != KindHandler {
		t.Errorf("kind = %v, want handler", p.Value.Kind())
	}
}
