package cmd

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/go-drift/fiber/cmd/fiber/internal/config"
	"github.com/go-drift/fiber/cmd/fiber/internal/demo"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/memhost"
	"github.com/go-drift/fiber/pkg/platform"
)

func init() {
	RegisterCommand(&Command{
		Name:  "render",
		Short: "Render the demo into an in-memory host",
		Long: `Render the demo counter into an in-memory host and print the result.

The render runs on the idle loop with the configured slice and frame, so a
large tree is reconciled across several idle callbacks before it commits.

Flags:
  --clicks N      Click the target N times after the first commit
  --target K      Clickable node to click, 1-based in document order (default 1)
  --mutations     Print every host mutation instead of only the final tree`,
		Usage: "fiber render [--clicks N] [--target K] [--mutations]",
		Run:   runRender,
	})
}

type renderOptions struct {
	clicks    int
	target    int
	mutations bool
}

func parseRenderArgs(args []string) (renderOptions, error) {
	opts := renderOptions{target: 1}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		var name, value string
		var hasValue bool
		if k, v, ok := strings.Cut(arg, "="); ok && strings.HasPrefix(k, "--") {
			name, value, hasValue = k, v, true
		} else {
			name = arg
		}

		switch name {
		case "--mutations":
			if hasValue {
				return opts, fmt.Errorf("--mutations takes no value")
			}
			opts.mutations = true
		case "--clicks", "--target":
			if !hasValue {
				if i+1 >= len(args) {
					return opts, fmt.Errorf("%s requires a number", name)
				}
				i++
				value = args[i]
			}
			n, err := strconv.Atoi(value)
			if err != nil {
				return opts, fmt.Errorf("%s: invalid number %q", name, value)
			}
			if name == "--clicks" {
				if n < 0 {
					return opts, fmt.Errorf("--clicks cannot be negative")
				}
				opts.clicks = n
			} else {
				if n < 1 {
					return opts, fmt.Errorf("--target must be at least 1")
				}
				opts.target = n
			}
		default:
			return opts, fmt.Errorf("unknown flag: %s", arg)
		}
	}
	return opts, nil
}

func runRender(env *Env, args []string) error {
	opts, err := parseRenderArgs(args)
	if err != nil {
		return err
	}
	cfg, err := env.Config()
	if err != nil {
		return err
	}
	return renderDemo(context.Background(), env.Stdout, cfg, opts)
}

func renderDemo(ctx context.Context, w io.Writer, cfg *config.Resolved, opts renderOptions) error {
	log := commonlog.GetLogger("fiber.render")

	host := memhost.New()
	container := host.NewContainer()
	loop := platform.NewLoop(
		platform.WithSlice(cfg.Slice),
		platform.WithFrame(cfg.Frame),
	)

	var commits []core.CommitStats
	root := core.NewRoot(container, host,
		core.WithScheduler(loop),
		core.WithYieldThreshold(cfg.YieldThreshold),
		core.WithLogger(log),
		core.OnCommit(func(s core.CommitStats) { commits = append(commits, s) }),
	)
	defer root.Unmount()

	platform.RegisterDispatch(loop.Dispatch)
	defer platform.RegisterDispatch(nil)

	root.Render(demo.App())
	if err := loop.RunUntilIdle(ctx); err != nil {
		return err
	}
	if err := root.Err(); err != nil {
		return err
	}

	for i := 0; i < opts.clicks; i++ {
		target, err := clickTarget(container, opts.target)
		if err != nil {
			return err
		}
		log.Debugf("click %d on <%s> #%d", i+1, target.Tag, target.ID)
		platform.Dispatch(func() { host.Dispatch(target, "click", nil) })
		if err := loop.RunUntilIdle(ctx); err != nil {
			return err
		}
		if err := root.Err(); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "%s\n\n", cfg.AppName)
	if opts.mutations {
		for _, m := range host.Mutations() {
			fmt.Fprintln(w, m)
		}
		fmt.Fprintln(w)
	}
	fmt.Fprint(w, memhost.Dump(container))
	fmt.Fprintln(w)
	for i, s := range commits {
		fmt.Fprintf(w, "commit %d: units=%d placements=%d updates=%d deletions=%d patched=%d\n",
			i+1, s.Units, s.Placements, s.Updates, s.Deletions, s.Patched)
	}
	return nil
}

func clickTarget(container *memhost.Node, k int) (*memhost.Node, error) {
	var targets []*memhost.Node
	memhost.Walk(container, func(n *memhost.Node) bool {
		if n.Listener("click") != nil {
			targets = append(targets, n)
		}
		return true
	})
	if k > len(targets) {
		return nil, fmt.Errorf("--target %d out of range: %d clickable nodes", k, len(targets))
	}
	return targets[k-1], nil
}
