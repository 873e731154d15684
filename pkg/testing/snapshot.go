package testing

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/go-drift/fiber/pkg/memhost"
)

// TestingT is the subset of *testing.T used by MatchesFile, allowing
// test doubles to intercept failures.
type TestingT interface {
	Helper()
	Fatalf(format string, args ...any)
	Errorf(format string, args ...any)
	Name() string
}

// updateSnapshotsEnv enables rewriting golden files instead of comparing.
const updateSnapshotsEnv = "FIBER_UPDATE_SNAPSHOTS"

// Snapshot is the markup dump of a host tree.
type Snapshot struct {
	Markup string
}

// CaptureSnapshot dumps the tester's container.
func (rt *RootTester) CaptureSnapshot() *Snapshot {
	return &Snapshot{Markup: rt.Dump()}
}

// CaptureNode dumps an arbitrary host subtree.
func CaptureNode(n *memhost.Node) *Snapshot {
	return &Snapshot{Markup: memhost.Dump(n)}
}

// MatchesFile compares this snapshot against a golden file. On mismatch it
// reports a diff and instructions for updating. When
// FIBER_UPDATE_SNAPSHOTS=1 is set, the file is silently updated instead.
func (s *Snapshot) MatchesFile(t TestingT, path string) {
	t.Helper()

	if os.Getenv(updateSnapshotsEnv) == "1" {
		if err := s.UpdateFile(path); err != nil {
			t.Fatalf("failed to update snapshot: %v", err)
		}
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Fatalf("snapshot file missing: %s\n\nTo create: %s=1 go test -run %s", path, updateSnapshotsEnv, t.Name())
			return
		}
		t.Fatalf("failed to load snapshot: %v", err)
		return
	}

	if diff := s.Diff(&Snapshot{Markup: string(data)}); diff != "" {
		t.Errorf("snapshot mismatch: %s (-want +got):\n%s\nTo update: %s=1 go test -run %s", path, diff, updateSnapshotsEnv, t.Name())
	}
}

// UpdateFile writes this snapshot to the given path, creating directories
// as needed.
func (s *Snapshot) UpdateFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	return os.WriteFile(path, []byte(s.Markup), 0o644)
}

// Diff returns a line diff between other (wanted) and this snapshot, or ""
// when they are equal.
func (s *Snapshot) Diff(other *Snapshot) string {
	return cmp.Diff(lines(other.Markup), lines(s.Markup))
}

func lines(s string) []string {
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
