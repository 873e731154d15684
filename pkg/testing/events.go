package testing

import (
	"fmt"

	"github.com/go-drift/fiber/pkg/memhost"
)

// Tap dispatches a click to the first node matched by finder.
func (rt *RootTester) Tap(finder Finder) error {
	return rt.DispatchEvent(finder, "click", nil)
}

// Input dispatches an input event carrying value to the first node
// matched by finder.
func (rt *RootTester) Input(finder Finder, value string) error {
	return rt.DispatchEvent(finder, "input", value)
}

// DispatchEvent delivers event to the first node matched by finder. It
// fails when nothing matches or the node has no listener for event. State
// updates triggered by the listener stay queued until the test pumps.
func (rt *RootTester) DispatchEvent(finder Finder, event string, data any) error {
	result := rt.FindBy(finder)
	if !result.Exists() {
		return fmt.Errorf("%s: finder matched no nodes: %s", event, finder.Description())
	}
	node := result.First()
	if !rt.Host.Dispatch(node, event, data) {
		return fmt.Errorf("%s: %s has no %s listener", event, describeNode(node), event)
	}
	return nil
}

func describeNode(n *memhost.Node) string {
	if n.IsText() {
		return fmt.Sprintf("text #%d", n.ID)
	}
	return fmt.Sprintf("<%s> #%d", n.Tag, n.ID)
}
