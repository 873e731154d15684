package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/platform"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestResolve_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/acme/counter\n\ngo 1.24\n")

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ModulePath != "example.com/acme/counter" {
		t.Errorf("ModulePath = %q", cfg.ModulePath)
	}
	if cfg.AppName != "counter" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "counter")
	}
	if cfg.Frame != platform.DefaultFrame || cfg.Slice != platform.DefaultSlice {
		t.Errorf("frame/slice = %s/%s, want defaults", cfg.Frame, cfg.Slice)
	}
	if cfg.YieldThreshold != core.DefaultYieldThreshold {
		t.Errorf("YieldThreshold = %s, want %s", cfg.YieldThreshold, core.DefaultYieldThreshold)
	}
}

func TestResolve_File(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "go.mod", "module example.com/acme/counter\n")
	writeFile(t, dir, FileName, `app:
  name: clicker
scheduler:
  frame: 0s
  slice: 4ms
  yield_threshold: 500us
log:
  verbosity: 2
`)

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AppName != "clicker" {
		t.Errorf("AppName = %q, want %q", cfg.AppName, "clicker")
	}
	if cfg.Frame != 0 {
		t.Errorf("Frame = %s, want an explicit 0", cfg.Frame)
	}
	if cfg.Slice != 4*time.Millisecond {
		t.Errorf("Slice = %s, want 4ms", cfg.Slice)
	}
	if cfg.YieldThreshold != 500*time.Microsecond {
		t.Errorf("YieldThreshold = %s, want 500µs", cfg.YieldThreshold)
	}
	if cfg.Verbosity != 2 {
		t.Errorf("Verbosity = %d, want 2", cfg.Verbosity)
	}
}

func TestResolve_NoModule(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "scratch")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Resolve(dir)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.AppName != "scratch" {
		t.Errorf("AppName = %q, want the directory name", cfg.AppName)
	}
}

func TestResolve_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"malformed", "app: [unterminated"},
		{"bad duration", "scheduler:\n  slice: soon\n"},
		{"zero slice", "scheduler:\n  slice: 0s\n"},
		{"negative frame", "scheduler:\n  frame: -1ms\n"},
		{"threshold above slice", "scheduler:\n  slice: 2ms\n  yield_threshold: 3ms\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeFile(t, dir, FileName, tt.yaml)
			if _, err := Resolve(dir); err == nil {
				t.Errorf("Resolve(%q) succeeded, want an error", tt.yaml)
			}
		})
	}
}

func TestDefaultAppName(t *testing.T) {
	tests := []struct {
		modulePath string
		dir        string
		want       string
	}{
		{"example.com/acme/widget", "/src/x", "widget"},
		{"example.com/acme/widget/v2", "/src/x", "widget"},
		{"", "/src/x", "x"},
		{"", "/", "fiber_app"},
	}
	for _, tt := range tests {
		if got := defaultAppName(tt.modulePath, tt.dir); got != tt.want {
			t.Errorf("defaultAppName(%q, %q) = %q, want %q", tt.modulePath, tt.dir, got, tt.want)
		}
	}
}
