package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/mattn/go-isatty"

	"github.com/go-drift/fiber/cmd/fiber/internal/demo"
	"github.com/go-drift/fiber/pkg/term"
)

func init() {
	RegisterCommand(&Command{
		Name:  "run",
		Short: "Run the demo interactively in the terminal",
		Long: `Run the demo counter interactively in the terminal.

Digits 1-9 click the matching node, q quits. When stdout is not a terminal
the demo is rendered once, as with "fiber render".`,
		Usage: "fiber run",
		Run:   runRun,
	})
}

// isTerminal reports whether stdout is attached to a terminal.
var isTerminal = func() bool {
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func runRun(env *Env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	cfg, err := env.Config()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if !isTerminal() {
		return renderDemo(ctx, env.Stdout, cfg, renderOptions{target: 1})
	}

	return term.Run(ctx, demo.App(), term.Options{
		Title:          cfg.AppName,
		Frame:          cfg.Frame,
		Slice:          cfg.Slice,
		YieldThreshold: cfg.YieldThreshold,
	})
}
