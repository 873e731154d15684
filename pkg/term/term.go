// Package term hosts a fiber root inside a bubbletea terminal program.
//
// The program's ticks stand in for the host's idle callbacks, key presses
// become click events on the rendered tree, and the view draws the
// in-memory host tree with lipgloss styles:
//
//	m := term.New(demo.App(), term.Options{Title: "counter"})
//	_, err := tea.NewProgram(m).Run()
//
// Digits 1-9 click the matching clickable node in document order; q, esc
// and ctrl+c quit.
package term

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/tliron/commonlog"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/memhost"
	"github.com/go-drift/fiber/pkg/platform"
)

var log = commonlog.GetLogger("fiber.term")

// Options configures a terminal host.
type Options struct {
	// Title is shown above the tree.
	Title string
	// Frame is the delay between idle rounds. Zero runs rounds back to back.
	Frame time.Duration
	// Slice is the budget of each idle callback. Defaults to
	// platform.DefaultSlice.
	Slice time.Duration
	// YieldThreshold is passed to the root. Defaults to
	// core.DefaultYieldThreshold.
	YieldThreshold time.Duration
	// Clock computes idle deadlines. Defaults to the system clock.
	Clock platform.Clock
	// Styles overrides DefaultStyles.
	Styles *Styles
}

// Styles controls how the tree is drawn.
type Styles struct {
	Title  lipgloss.Style
	Tag    lipgloss.Style
	Attr   lipgloss.Style
	Text   lipgloss.Style
	Key    lipgloss.Style
	Frame  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles returns the built-in styles.
func DefaultStyles() Styles {
	return Styles{
		Title:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Tag:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5")),
		Attr:   lipgloss.NewStyle().Faint(true),
		Text:   lipgloss.NewStyle(),
		Key:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Frame:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Status: lipgloss.NewStyle().Faint(true),
		Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("9")),
	}
}

// Model is a bubbletea model owning one root and its in-memory host.
type Model struct {
	host      *memhost.Host
	container *memhost.Node
	root      *core.Root
	sched     *tickScheduler

	title  string
	styles Styles

	commits int
	last    core.CommitStats
	status  string
	err     error
}

var _ tea.Model = (*Model)(nil)

// New creates a model and starts rendering el. Nothing runs until the
// program delivers its first tick.
func New(el *core.Element, opts Options) *Model {
	if opts.Slice <= 0 {
		opts.Slice = platform.DefaultSlice
	}
	if opts.YieldThreshold <= 0 {
		opts.YieldThreshold = core.DefaultYieldThreshold
	}
	if opts.Clock == nil {
		opts.Clock = platform.SystemClock{}
	}
	styles := DefaultStyles()
	if opts.Styles != nil {
		styles = *opts.Styles
	}

	host := memhost.New()
	m := &Model{
		host:      host,
		container: host.NewContainer(),
		sched:     &tickScheduler{slice: opts.Slice, frame: opts.Frame, clock: opts.Clock},
		title:     opts.Title,
		styles:    styles,
	}
	m.root = core.NewRoot(m.container, host,
		core.WithScheduler(m.sched),
		core.WithYieldThreshold(opts.YieldThreshold),
		core.WithLogger(log),
		core.OnCommit(func(s core.CommitStats) {
			m.commits++
			m.last = s
		}),
		core.OnError(func(err error) { m.err = err }),
	)
	m.root.Render(el)
	return m
}

// Run starts an interactive program for el and blocks until the user
// quits or ctx is cancelled.
func Run(ctx context.Context, el *core.Element, opts Options, programOpts ...tea.ProgramOption) error {
	m := New(el, opts)
	programOpts = append(programOpts, tea.WithContext(ctx))
	_, err := tea.NewProgram(m, programOpts...).Run()
	if uerr := m.root.Unmount(); err == nil {
		err = uerr
	}
	return err
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return m.sched.tick()
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case idleMsg:
		m.sched.runRound()
	case tea.KeyMsg:
		switch key := msg.String(); key {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		default:
			if n, err := strconv.Atoi(key); err == nil {
				m.press(n)
			}
		}
	}
	return m, m.sched.tick()
}

func (m *Model) press(n int) {
	targets := m.Clickable()
	if n < 1 || n > len(targets) {
		m.status = fmt.Sprintf("nothing to click at %d", n)
		return
	}
	target := targets[n-1]
	log.Debugf("click %d on <%s> #%d", n, target.Tag, target.ID)
	m.host.Dispatch(target, "click", nil)
	m.status = ""
}

// Clickable returns the nodes listening for clicks, in document order.
func (m *Model) Clickable() []*memhost.Node {
	var out []*memhost.Node
	memhost.Walk(m.container, func(n *memhost.Node) bool {
		if n.Listener("click") != nil {
			out = append(out, n)
		}
		return true
	})
	return out
}

// Root returns the hosted root.
func (m *Model) Root() *core.Root { return m.root }

// Container returns the host container.
func (m *Model) Container() *memhost.Node { return m.container }

// Commits returns the number of commits so far.
func (m *Model) Commits() int { return m.commits }

// View implements tea.Model.
func (m *Model) View() string {
	keys := make(map[*memhost.Node]int)
	for i, n := range m.Clickable() {
		keys[n] = i + 1
	}

	var tree strings.Builder
	for _, child := range m.container.Children {
		m.renderNode(&tree, child, 0, keys)
	}
	body := strings.TrimRight(tree.String(), "\n")
	if body == "" {
		body = m.styles.Status.Render("(empty)")
	}

	var out strings.Builder
	if m.title != "" {
		out.WriteString(m.styles.Title.Render(m.title))
		out.WriteString("\n")
	}
	out.WriteString(m.styles.Frame.Render(body))
	out.WriteString("\n")

	status := fmt.Sprintf("commits: %d  patched: %d  press 1-%d to click, q to quit",
		m.commits, m.last.Patched, len(keys))
	if m.status != "" {
		status = m.status + "  " + status
	}
	out.WriteString(m.styles.Status.Render(status))
	out.WriteString("\n")
	if m.err != nil {
		out.WriteString(m.styles.Error.Render("error: " + m.err.Error()))
		out.WriteString("\n")
	}
	return out.String()
}

func (m *Model) renderNode(sb *strings.Builder, n *memhost.Node, depth int, keys map[*memhost.Node]int) {
	indent := strings.Repeat("  ", depth)
	if n.IsText() {
		sb.WriteString(indent)
		sb.WriteString(m.styles.Text.Render(n.Text))
		sb.WriteString("\n")
		return
	}

	sb.WriteString(indent)
	if k, ok := keys[n]; ok {
		sb.WriteString(m.styles.Key.Render(fmt.Sprintf("[%d] ", k)))
	}
	sb.WriteString(m.styles.Tag.Render(string(n.Tag)))
	for _, a := range n.Attrs() {
		sb.WriteString(" ")
		sb.WriteString(m.styles.Attr.Render(fmt.Sprintf("%s=%q", a.Key, a.Value.String())))
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		m.renderNode(sb, c, depth+1, keys)
	}
}
