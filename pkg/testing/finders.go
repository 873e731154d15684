package testing

import (
	"fmt"
	"strings"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/memhost"
)

// Finder locates nodes in the host tree.
type Finder interface {
	// Evaluate returns all matching nodes under root (depth-first pre-order).
	Evaluate(root *memhost.Node) []*memhost.Node
	// Description returns a human-readable description for error messages.
	Description() string
}

// FinderResult wraps finder results with convenient accessors.
type FinderResult struct {
	nodes  []*memhost.Node
	finder Finder
}

// First returns the first match. Panics if no matches.
func (r FinderResult) First() *memhost.Node {
	if len(r.nodes) == 0 {
		panic(fmt.Sprintf("Finder found no nodes: %s", r.describe()))
	}
	return r.nodes[0]
}

// FirstOrNil returns the first match, or nil if none.
func (r FinderResult) FirstOrNil() *memhost.Node {
	if len(r.nodes) == 0 {
		return nil
	}
	return r.nodes[0]
}

// At returns the match at index. Panics if out of range.
func (r FinderResult) At(index int) *memhost.Node {
	if index < 0 || index >= len(r.nodes) {
		panic(fmt.Sprintf("Finder index %d out of range (found %d): %s", index, len(r.nodes), r.describe()))
	}
	return r.nodes[index]
}

// All returns all matches in traversal order.
func (r FinderResult) All() []*memhost.Node {
	return r.nodes
}

// Count returns the number of matches.
func (r FinderResult) Count() int {
	return len(r.nodes)
}

// Exists returns true if at least one match was found.
func (r FinderResult) Exists() bool {
	return len(r.nodes) > 0
}

// Text returns the text content of the first match.
func (r FinderResult) Text() string {
	return memhost.TextContent(r.First())
}

func (r FinderResult) describe() string {
	if r.finder == nil {
		return "unknown"
	}
	return r.finder.Description()
}

// FindBy evaluates finder against the tester's container.
func (rt *RootTester) FindBy(finder Finder) FinderResult {
	return FinderResult{nodes: finder.Evaluate(rt.Container), finder: finder}
}

// --- Concrete finders ---

type tagFinder struct {
	tag core.Tag
}

func (f *tagFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return collectMatches(root, func(n *memhost.Node) bool { return n.Tag == f.tag })
}

func (f *tagFinder) Description() string {
	return fmt.Sprintf("ByTag(%s)", f.tag)
}

// ByTag returns a finder that matches host nodes with the given tag.
func ByTag(tag core.Tag) Finder {
	return &tagFinder{tag: tag}
}

type attrFinder struct {
	key   string
	value string
}

func (f *attrFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return collectMatches(root, func(n *memhost.Node) bool {
		v, ok := n.Attr(f.key)
		return ok && v.String() == f.value
	})
}

func (f *attrFinder) Description() string {
	return fmt.Sprintf("ByAttr(%s=%q)", f.key, f.value)
}

// ByAttr returns a finder that matches nodes whose attribute key renders
// as value.
func ByAttr(key, value string) Finder {
	return &attrFinder{key: key, value: value}
}

type textFinder struct {
	text     string
	contains bool
}

func (f *textFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return collectMatches(root, func(n *memhost.Node) bool {
		if !n.IsText() {
			return false
		}
		if f.contains {
			return strings.Contains(n.Text, f.text)
		}
		return n.Text == f.text
	})
}

func (f *textFinder) Description() string {
	if f.contains {
		return fmt.Sprintf("ByTextContaining(%q)", f.text)
	}
	return fmt.Sprintf("ByText(%q)", f.text)
}

// ByText returns a finder that matches text nodes with exact content.
func ByText(text string) Finder {
	return &textFinder{text: text}
}

// ByTextContaining returns a finder that matches text nodes containing
// substring.
func ByTextContaining(substring string) Finder {
	return &textFinder{text: substring, contains: true}
}

type listenerFinder struct {
	event string
}

func (f *listenerFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return collectMatches(root, func(n *memhost.Node) bool { return n.Listener(f.event) != nil })
}

func (f *listenerFinder) Description() string {
	return fmt.Sprintf("ByListener(%s)", f.event)
}

// ByListener returns a finder that matches nodes listening for event.
func ByListener(event string) Finder {
	return &listenerFinder{event: event}
}

type predicateFinder struct {
	fn   func(*memhost.Node) bool
	desc string
}

func (f *predicateFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	return collectMatches(root, f.fn)
}

func (f *predicateFinder) Description() string {
	return f.desc
}

// ByPredicate returns a finder that matches nodes satisfying fn.
func ByPredicate(fn func(*memhost.Node) bool) Finder {
	return &predicateFinder{fn: fn, desc: "ByPredicate(...)"}
}

// descendantFinder finds nodes matching 'matching' below nodes matching 'of'.
type descendantFinder struct {
	of       Finder
	matching Finder
}

func (f *descendantFinder) Evaluate(root *memhost.Node) []*memhost.Node {
	var results []*memhost.Node
	seen := make(map[*memhost.Node]bool)
	for _, ancestor := range f.of.Evaluate(root) {
		// Search within each ancestor's subtree, skipping the ancestor.
		for _, child := range ancestor.Children {
			for _, match := range f.matching.Evaluate(child) {
				if !seen[match] {
					seen[match] = true
					results = append(results, match)
				}
			}
		}
	}
	return results
}

func (f *descendantFinder) Description() string {
	return fmt.Sprintf("Descendant(of: %s, matching: %s)", f.of.Description(), f.matching.Description())
}

// Descendant returns a finder that matches nodes satisfying 'matching'
// that are descendants of nodes matching 'of'.
func Descendant(of, matching Finder) Finder {
	return &descendantFinder{of: of, matching: matching}
}

// collectMatches performs a depth-first pre-order traversal, collecting
// nodes that satisfy the predicate.
func collectMatches(root *memhost.Node, predicate func(*memhost.Node) bool) []*memhost.Node {
	var results []*memhost.Node
	memhost.Walk(root, func(n *memhost.Node) bool {
		if predicate(n) {
			results = append(results, n)
		}
		return true
	})
	return results
}
