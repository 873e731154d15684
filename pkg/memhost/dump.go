package memhost

import (
	"fmt"
	"slices"
	"strings"

	"github.com/go-drift/fiber/pkg/core"
)

// Walk visits n and its descendants in document order until visit returns
// false.
func Walk(n *Node, visit func(*Node) bool) {
	if n == nil {
		return
	}
	stack := []*Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !visit(cur) {
			return
		}
		for i := len(cur.Children) - 1; i >= 0; i-- {
			stack = append(stack, cur.Children[i])
		}
	}
}

// FindAll returns the descendants of n (n included) with the given tag,
// in document order.
func FindAll(n *Node, tag core.Tag) []*Node {
	var out []*Node
	Walk(n, func(cur *Node) bool {
		if cur.Tag == tag {
			out = append(out, cur)
		}
		return true
	})
	return out
}

// Find returns the first node with the given tag, or nil.
func Find(n *Node, tag core.Tag) *Node {
	var found *Node
	Walk(n, func(cur *Node) bool {
		if cur.Tag == tag {
			found = cur
			return false
		}
		return true
	})
	return found
}

// TextContent concatenates the text nodes under n.
func TextContent(n *Node) string {
	var sb strings.Builder
	Walk(n, func(cur *Node) bool {
		if cur.IsText() {
			sb.WriteString(cur.Text)
		}
		return true
	})
	return sb.String()
}

// Dump renders the subtree as indented markup, one node per line:
//
//	<div id="app">
//	  <h1 @click>
//	    "Count: 0"
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	if n == nil {
		return
	}
	sb.WriteString(strings.Repeat("  ", depth))
	if n.IsText() {
		fmt.Fprintf(sb, "%q\n", n.Text)
		return
	}
	sb.WriteString("<")
	sb.WriteString(string(n.Tag))
	for _, a := range n.attrs {
		fmt.Fprintf(sb, " %s=%q", a.Key, a.Value.String())
	}
	for _, event := range n.ListenerTypes() {
		sb.WriteString(" @")
		sb.WriteString(event)
	}
	sb.WriteString(">\n")
	for _, c := range n.Children {
		dump(sb, c, depth+1)
	}
}

// ListenerTypes returns the registered event types, sorted.
func (n *Node) ListenerTypes() []string {
	out := make([]string, 0, len(n.listeners))
	for event := range n.listeners {
		out = append(out, event)
	}
	slices.Sort(out)
	return out
}
