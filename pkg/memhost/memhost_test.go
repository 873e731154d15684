package memhost

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fiber/pkg/core"
)

func mustHost(t *testing.T, h *Host, tag core.Tag) *Node {
	t.Helper()
	n, err := h.CreateHostNode(tag)
	if err != nil {
		t.Fatal(err)
	}
	return n.(*Node)
}

func TestPatchNode_AttributesAndListeners(t *testing.T) {
	h := New()
	n := mustHost(t, h, "button")
	h.ResetMutations()

	clicks := 0
	click := core.Func(func(core.Event) { clicks++ })
	first := core.NewProps(core.Attr("id", "a"), core.Attr("title", "t"), core.Prop{Key: "onClick", Value: click})
	if err := h.PatchNode(n, core.Props{}, first); err != nil {
		t.Fatal(err)
	}
	second := core.NewProps(core.Attr("id", "b"), core.Prop{Key: "onClick", Value: click})
	if err := h.PatchNode(n, first, second); err != nil {
		t.Fatal(err)
	}

	var got []string
	for _, m := range h.Mutations() {
		got = append(got, m.String())
	}
	want := []string{
		`set #1 id="a"`,
		`set #1 title="t"`,
		`add-listener #1 click=""`,
		`clear #1 title=""`,
		`set #1 id="b"`,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("mutations mismatch (-want +got):\n%s", diff)
	}

	if !h.Dispatch(n, "click", nil) || clicks != 1 {
		t.Errorf("click dispatch failed (clicks=%d)", clicks)
	}
	if h.Dispatch(n, "keydown", nil) {
		t.Error("no keydown listener is registered")
	}
	if v, _ := n.Attr("id"); v.String() != "b" {
		t.Errorf("id = %q, want %q", v.String(), "b")
	}
	if _, ok := n.Attr("title"); ok {
		t.Error("title should be cleared")
	}
}

func TestPatchNode_ReplacedHandler(t *testing.T) {
	h := New()
	n := mustHost(t, h, "button")

	var calls []string
	a := core.NewProps(core.On("click", func(core.Event) { calls = append(calls, "a") }))
	b := core.NewProps(core.On("click", func(core.Event) { calls = append(calls, "b") }))
	_ = h.PatchNode(n, core.Props{}, a)
	_ = h.PatchNode(n, a, b)
	h.Dispatch(n, "click", nil)

	if diff := cmp.Diff([]string{"b"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
}

func TestPatchNode_TextValue(t *testing.T) {
	h := New()
	tn, _ := h.CreateTextNode()
	text := tn.(*Node)

	_ = h.PatchNode(text, core.Props{}, core.Text("one").Props)
	_ = h.PatchNode(text, core.Text("one").Props, core.Text("two").Props)

	if text.Text != "two" {
		t.Errorf("text = %q, want %q", text.Text, "two")
	}
	if len(text.Attrs()) != 0 {
		t.Error("nodeValue is content, not an attribute")
	}
}

func TestAppendRemove(t *testing.T) {
	h := New()
	root := h.NewContainer()
	a := mustHost(t, h, "a")
	b := mustHost(t, h, "b")

	_ = h.AppendChild(root, a)
	_ = h.AppendChild(root, b)
	// Re-appending moves the node to the end.
	_ = h.AppendChild(root, a)
	if got := Dump(root); got != "<root>\n  <b>\n  <a>\n" {
		t.Errorf("dump = %q", got)
	}

	if err := h.RemoveChild(root, b); err != nil {
		t.Fatal(err)
	}
	if err := h.RemoveChild(root, b); err == nil {
		t.Error("removing a detached node should fail")
	}
	if len(root.Children) != 1 || b.Parent != nil {
		t.Error("b should be detached")
	}

	tn, _ := h.CreateTextNode()
	if err := h.AppendChild(tn, a); err == nil {
		t.Error("text nodes cannot have children")
	}
	if err := h.AppendChild(root, "not a node"); err == nil {
		t.Error("foreign handles are rejected")
	}
}

func TestFailOn(t *testing.T) {
	boom := errors.New("boom")
	h := New()
	h.FailOn("CreateHostNode:h1", boom)

	if _, err := h.CreateHostNode("h1"); !errors.Is(err, boom) {
		t.Errorf("h1 err = %v, want boom", err)
	}
	if _, err := h.CreateHostNode("h2"); err != nil {
		t.Errorf("h2 err = %v, want nil", err)
	}

	h.FailOn("CreateHostNode:h1", nil)
	if _, err := h.CreateHostNode("h1"); err != nil {
		t.Errorf("cleared failure still fires: %v", err)
	}
}

func TestDumpAndFind(t *testing.T) {
	h := New()
	root := h.NewContainer()
	div := mustHost(t, h, "div")
	_ = h.PatchNode(div, core.Props{}, core.NewProps(core.Attr("id", "app"), core.On("click", func(core.Event) {})))
	tn, _ := h.CreateTextNode()
	_ = h.PatchNode(tn, core.Props{}, core.Text("hi").Props)
	_ = h.AppendChild(root, div)
	_ = h.AppendChild(div, tn)

	want := "<root>\n  <div id=\"app\" @click>\n    \"hi\"\n"
	if diff := cmp.Diff(want, Dump(root)); diff != "" {
		t.Errorf("dump mismatch (-want +got):\n%s", diff)
	}
	if Find(root, "div") != div {
		t.Error("Find should return the div")
	}
	if Find(root, "span") != nil {
		t.Error("Find should return nil when nothing matches")
	}
	if TextContent(root) != "hi" {
		t.Errorf("text = %q", TextContent(root))
	}
}
