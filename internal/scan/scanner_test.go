package scan

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/macsweep/macsweep/internal/boundary"
	"github.com/macsweep/macsweep/internal/classify"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/store"
)

func newTestScanner(t *testing.T, home string, roots []entry.ScanRoot) *Scanner {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	cfg := Config{Roots: roots, Workers: 2}
	return New(cfg, boundary.ForRoots(home), classify.New(st))
}

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestScanOmitsMissingRoots(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "Caches", "blob.bin"), 100)

	roots := []entry.ScanRoot{
		{ID: "caches", Path: filepath.Join(home, "Caches"), Label: "Caches"},
		{ID: "trash", Path: filepath.Join(home, ".Trash"), Label: "Trash"},
	}
	s := newTestScanner(t, home, roots)

	entries := s.Scan()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if entries[0].Name != "Caches" {
		t.Fatalf("entry = %s, want Caches", entries[0].Name)
	}
	for _, e := range entries {
		if e.Name == "Trash" {
			t.Fatalf("missing root must be omitted, not reported")
		}
	}
}

func TestScanOrdersRootsBySizeDescending(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "small", "f.bin"), 10)
	writeFile(t, filepath.Join(home, "big", "f.bin"), 500)
	writeFile(t, filepath.Join(home, "mid", "f.bin"), 100)

	roots := []entry.ScanRoot{
		{ID: "small", Path: filepath.Join(home, "small"), Label: "small"},
		{ID: "big", Path: filepath.Join(home, "big"), Label: "big"},
		{ID: "mid", Path: filepath.Join(home, "mid"), Label: "mid"},
	}
	s := newTestScanner(t, home, roots)

	entries := s.Scan()
	var names []string
	for _, e := range entries {
		names = append(names, e.Name)
	}
	want := []string{"big", "mid", "small"}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("order = %v, want %v", names, want)
		}
	}
}

func TestScanTiesKeepDeclarationOrder(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "zeta", "f.bin"), 64)
	writeFile(t, filepath.Join(home, "alpha", "f.bin"), 64)

	roots := []entry.ScanRoot{
		{ID: "zeta", Path: filepath.Join(home, "zeta"), Label: "zeta"},
		{ID: "alpha", Path: filepath.Join(home, "alpha"), Label: "alpha"},
	}
	s := newTestScanner(t, home, roots)

	entries := s.Scan()
	if len(entries) != 2 || entries[0].Name != "zeta" || entries[1].Name != "alpha" {
		t.Fatalf("tie order broken: %+v", entries)
	}
}

func TestScanInaccessibleRootReportedNotDropped(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are ignored")
	}

	home := t.TempDir()
	locked := filepath.Join(home, "locked")
	writeFile(t, filepath.Join(locked, "f.bin"), 10)
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })
	writeFile(t, filepath.Join(home, "open", "f.bin"), 20)

	roots := []entry.ScanRoot{
		{ID: "locked", Path: locked, Label: "locked"},
		{ID: "open", Path: filepath.Join(home, "open"), Label: "open"},
	}
	s := newTestScanner(t, home, roots)

	entries := s.Scan()
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	var found bool
	for _, e := range entries {
		if e.Name == "locked" {
			found = true
			if !e.Partial || e.Size != 0 || e.Err == "" {
				t.Fatalf("locked root = %+v, want zero-size partial with error", e)
			}
		}
	}
	if !found {
		t.Fatalf("inaccessible root missing from results")
	}
}

func TestScanAttachesClassificationToChildren(t *testing.T) {
	home := t.TempDir()
	writeFile(t, filepath.Join(home, "Caches", "node_modules", "pkg", "f.js"), 100)

	roots := []entry.ScanRoot{
		{ID: "caches", Path: filepath.Join(home, "Caches"), Label: "Caches"},
	}
	s := newTestScanner(t, home, roots)

	entries := s.Scan()
	if len(entries) != 1 || len(entries[0].Children) != 1 {
		t.Fatalf("unexpected shape: %+v", entries)
	}
	child := entries[0].Children[0]
	if child.Name != "node_modules" {
		t.Fatalf("child = %s", child.Name)
	}
	if child.Label.Risk != entry.RiskSafe {
		t.Fatalf("node_modules risk = %s, want safe", child.Label.Risk)
	}
}

func TestDrillDownOrdersChildrenBySize(t *testing.T) {
	home := t.TempDir()
	parent := filepath.Join(home, "stuff")
	writeFile(t, filepath.Join(parent, "mid", "f"), 100)
	writeFile(t, filepath.Join(parent, "small", "f"), 50)
	writeFile(t, filepath.Join(parent, "big", "f"), 200)

	s := newTestScanner(t, home, nil)

	children, err := s.DrillDown(parent)
	if err != nil {
		t.Fatalf("drill down: %v", err)
	}
	var sizes []int64
	for _, c := range children {
		sizes = append(sizes, c.Size)
	}
	want := []int64{200, 100, 50}
	if len(sizes) != 3 {
		t.Fatalf("children = %v", sizes)
	}
	for i := range want {
		if sizes[i] != want[i] {
			t.Fatalf("order = %v, want %v", sizes, want)
		}
	}
}

func TestDrillDownRejectsOutsideBoundary(t *testing.T) {
	s := newTestScanner(t, t.TempDir(), nil)

	if _, err := s.DrillDown("/etc"); !errors.Is(err, entry.ErrSecurityRejected) {
		t.Fatalf("err = %v, want ErrSecurityRejected", err)
	}
}

func TestDrillDownVanishedPathIsNotFound(t *testing.T) {
	home := t.TempDir()
	s := newTestScanner(t, home, nil)

	if _, err := s.DrillDown(filepath.Join(home, "gone")); !errors.Is(err, entry.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}

	// A file is not drillable either: the caller's view is stale.
	f := filepath.Join(home, "plain.txt")
	writeFile(t, f, 5)
	if _, err := s.DrillDown(f); !errors.Is(err, entry.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestDrillDownCapsChildrenWithTailEntry(t *testing.T) {
	home := t.TempDir()
	parent := filepath.Join(home, "many")
	for i := 0; i < 6; i++ {
		writeFile(t, filepath.Join(parent, string(rune('a'+i))+".bin"), 10*(i+1))
	}

	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	s := New(Config{Workers: 2, MaxChildren: 4}, boundary.ForRoots(home), classify.New(st))

	children, err := s.DrillDown(parent)
	if err != nil {
		t.Fatalf("drill down: %v", err)
	}
	if len(children) != 5 {
		t.Fatalf("got %d entries, want 4 + tail", len(children))
	}
	tail := children[len(children)-1]
	if tail.Path != "" || tail.Size != 10+20 {
		t.Fatalf("tail = %+v", tail)
	}
}
