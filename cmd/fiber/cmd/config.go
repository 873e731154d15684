package cmd

import (
	"fmt"
)

func init() {
	RegisterCommand(&Command{
		Name:  "config",
		Short: "Show the resolved configuration",
		Long: `Show the configuration fiber would use in this directory.

Values come from fiber.yaml when present, with defaults for anything unset.`,
		Usage: "fiber config",
		Run:   runConfig,
	})
}

func runConfig(env *Env, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument: %s", args[0])
	}
	cfg, err := env.Config()
	if err != nil {
		return err
	}

	module := cfg.ModulePath
	if module == "" {
		module = "(none)"
	}
	w := env.Stdout
	fmt.Fprintf(w, "Project: %s\n", cfg.AppName)
	fmt.Fprintf(w, "  %-16s %s\n", "root:", cfg.Root)
	fmt.Fprintf(w, "  %-16s %s\n", "module:", module)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Scheduler:")
	fmt.Fprintf(w, "  %-16s %s\n", "frame:", cfg.Frame)
	fmt.Fprintf(w, "  %-16s %s\n", "slice:", cfg.Slice)
	fmt.Fprintf(w, "  %-16s %s\n", "yield_threshold:", cfg.YieldThreshold)
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Log verbosity: %d\n", cfg.Verbosity+env.Verbose)
	return nil
}
