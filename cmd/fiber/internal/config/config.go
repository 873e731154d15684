package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/mod/modfile"
	"golang.org/x/mod/module"
	"gopkg.in/yaml.v3"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/platform"
)

// FileName is the optional project configuration file.
const FileName = "fiber.yaml"

// Config represents the optional fiber.yaml configuration.
type Config struct {
	App       AppConfig       `yaml:"app"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Log       LogConfig       `yaml:"log"`
}

// AppConfig contains application metadata.
type AppConfig struct {
	Name string `yaml:"name,omitempty"`
}

// SchedulerConfig tunes the host loop and the work loop.
type SchedulerConfig struct {
	// Frame is the pause between idle rounds while work keeps yielding.
	Frame *time.Duration `yaml:"frame,omitempty"`
	// Slice is the time budget handed to each idle callback.
	Slice *time.Duration `yaml:"slice,omitempty"`
	// YieldThreshold is the remaining slice time below which the work
	// loop yields.
	YieldThreshold *time.Duration `yaml:"yield_threshold,omitempty"`
}

// LogConfig contains logging settings.
type LogConfig struct {
	Verbosity int `yaml:"verbosity,omitempty"`
}

// Resolved contains resolved configuration values.
type Resolved struct {
	Root           string
	ModulePath     string
	AppName        string
	Frame          time.Duration
	Slice          time.Duration
	YieldThreshold time.Duration
	Verbosity      int
}

// LoadOptional reads fiber.yaml if present.
func LoadOptional(dir string) (*Config, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	return &cfg, nil
}

// Resolve loads fiber.yaml (if present) and resolves defaults. A go.mod
// in dir supplies the default app name; without one the directory name is
// used.
func Resolve(dir string) (*Resolved, error) {
	modulePath, err := modulePath(dir)
	if err != nil {
		return nil, err
	}

	cfg, err := LoadOptional(dir)
	if err != nil {
		return nil, err
	}

	appName := strings.TrimSpace(cfg.App.Name)
	if appName == "" {
		appName = defaultAppName(modulePath, dir)
	}

	r := &Resolved{
		Root:           dir,
		ModulePath:     modulePath,
		AppName:        appName,
		Frame:          durationOr(cfg.Scheduler.Frame, platform.DefaultFrame),
		Slice:          durationOr(cfg.Scheduler.Slice, platform.DefaultSlice),
		YieldThreshold: durationOr(cfg.Scheduler.YieldThreshold, core.DefaultYieldThreshold),
		Verbosity:      cfg.Log.Verbosity,
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	return r, nil
}

// Validate checks the scheduler settings.
func (r *Resolved) Validate() error {
	if r.Slice <= 0 {
		return fmt.Errorf("scheduler.slice must be positive (got %s)", r.Slice)
	}
	if r.Frame < 0 {
		return fmt.Errorf("scheduler.frame cannot be negative (got %s)", r.Frame)
	}
	if r.YieldThreshold < 0 {
		return fmt.Errorf("scheduler.yield_threshold cannot be negative (got %s)", r.YieldThreshold)
	}
	if r.YieldThreshold >= r.Slice {
		return fmt.Errorf("scheduler.yield_threshold (%s) must be below scheduler.slice (%s)", r.YieldThreshold, r.Slice)
	}
	return nil
}

// FindProjectRoot walks up from the current directory to the first
// directory holding fiber.yaml or go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, name := range []string{FileName, "go.mod"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("no %s or go.mod found", FileName)
		}
		dir = parent
	}
}

func modulePath(dir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, "go.mod"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("failed to read go.mod: %w", err)
	}
	path := modfile.ModulePath(data)
	if path == "" {
		return "", fmt.Errorf("could not determine module path from go.mod")
	}
	return path, nil
}

func defaultAppName(modulePath, dir string) string {
	base := filepath.Base(dir)
	if modulePath != "" {
		if modName, _, ok := module.SplitPathVersion(modulePath); ok {
			parts := strings.Split(modName, "/")
			base = parts[len(parts)-1]
		}
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "fiber_app"
	}
	return base
}

func durationOr(d *time.Duration, def time.Duration) time.Duration {
	if d == nil {
		return def
	}
	return *d
}
