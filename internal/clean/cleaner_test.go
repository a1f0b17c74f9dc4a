package clean

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/macsweep/macsweep/internal/boundary"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/history"
	"github.com/macsweep/macsweep/internal/store"
)

// fakeElevator stands in for sudo and the admin dialog. Remove makes
// the parent writable first, the way real elevation sidesteps the
// permission bits the test set up.
type fakeElevator struct {
	sudoOK    bool
	grant     bool
	promptErr error

	sudoCalls int
	prompts   int
	removed   []string
}

func (f *fakeElevator) TryNonInteractive(ctx context.Context, path string) error {
	f.sudoCalls++
	if !f.sudoOK {
		return errors.New("sudo: a password is required")
	}
	return f.doRemove(path)
}

func (f *fakeElevator) PromptInteractive(ctx context.Context) (bool, error) {
	f.prompts++
	return f.grant, f.promptErr
}

func (f *fakeElevator) Remove(ctx context.Context, path string) error {
	return f.doRemove(path)
}

func (f *fakeElevator) doRemove(path string) error {
	os.Chmod(path, 0o755)
	if err := os.RemoveAll(path); err != nil {
		return err
	}
	f.removed = append(f.removed, path)
	return nil
}

func newTestCleaner(t *testing.T, home string, e Elevator) (*Cleaner, *history.Log) {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	h := history.NewLog(st, 0)
	return New(boundary.ForRoots(home), h, e, 2), h
}

func mkTree(t *testing.T, dir string, files map[string]int) {
	t.Helper()
	for name, size := range files {
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, make([]byte, size), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
}

// lockedDir creates a non-empty directory the test user cannot delete:
// mode 000 on the directory makes RemoveAll fail with EACCES before it
// removes anything.
func lockedDir(t *testing.T, home, name string) string {
	t.Helper()
	target := filepath.Join(home, name)
	mkTree(t, target, map[string]int{"f.bin": 10})
	if err := os.Chmod(target, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(target, 0o755) })
	return target
}

func TestDeleteBatchRejectsOutsideBoundaryWithoutPrompting(t *testing.T) {
	home := t.TempDir()
	fake := &fakeElevator{grant: true}
	c, h := newTestCleaner(t, home, fake)

	results := c.DeleteBatch(context.Background(), []Request{{Path: "/etc/passwd"}})
	if len(results) != 1 {
		t.Fatalf("got %d results", len(results))
	}
	res := results[0]
	if res.Outcome != entry.OutcomeFailed || res.Reason != reasonRejected {
		t.Fatalf("result = %+v, want rejected failure", res)
	}
	if fake.prompts != 0 || fake.sudoCalls != 0 {
		t.Fatalf("elevation attempted for rejected path")
	}
	if _, err := os.Stat("/etc/passwd"); err != nil {
		t.Fatalf("/etc/passwd mutated: %v", err)
	}

	recs, err := h.Recent(0)
	if err != nil || len(recs) != 1 {
		t.Fatalf("history = %v, %v; want one record", recs, err)
	}
	if recs[0].Outcome != entry.OutcomeFailed {
		t.Fatalf("history outcome = %s", recs[0].Outcome)
	}
}

func TestDeleteBatchVanishedPathIsNotFound(t *testing.T) {
	home := t.TempDir()
	fake := &fakeElevator{}
	c, _ := newTestCleaner(t, home, fake)

	results := c.DeleteBatch(context.Background(), []Request{
		{Path: filepath.Join(home, "already-gone")},
	})
	if results[0].Outcome != entry.OutcomeFailed || results[0].Reason != reasonNotFound {
		t.Fatalf("result = %+v, want not-found failure", results[0])
	}
	if fake.prompts != 0 {
		t.Fatalf("prompted for a vanished path")
	}
}

func TestDeleteBatchSuccessRecordsSize(t *testing.T) {
	home := t.TempDir()
	target := filepath.Join(home, "cache")
	mkTree(t, target, map[string]int{"a.bin": 100, "sub/b.bin": 50})

	c, h := newTestCleaner(t, home, &fakeElevator{})
	results := c.DeleteBatch(context.Background(), []Request{{Path: target}})

	res := results[0]
	if res.Outcome != entry.OutcomeSuccess || res.Privilege != entry.PrivilegeNormal {
		t.Fatalf("result = %+v", res)
	}
	if res.Size != 150 {
		t.Fatalf("size = %d, want 150", res.Size)
	}
	if _, err := os.Stat(target); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("target still exists")
	}

	recs, _ := h.Recent(1)
	if len(recs) != 1 || recs[0].Size != 150 || recs[0].Name != "cache" {
		t.Fatalf("history = %+v", recs)
	}
}

func TestDeleteBatchRecreateLeavesEmptyDir(t *testing.T) {
	home := t.TempDir()
	target := filepath.Join(home, "Caches")
	mkTree(t, target, map[string]int{"x.bin": 10})

	c, _ := newTestCleaner(t, home, &fakeElevator{})
	results := c.DeleteBatch(context.Background(), []Request{{Path: target, Recreate: true}})
	if results[0].Outcome != entry.OutcomeSuccess {
		t.Fatalf("result = %+v", results[0])
	}

	dirents, err := os.ReadDir(target)
	if err != nil {
		t.Fatalf("recreated dir missing: %v", err)
	}
	if len(dirents) != 0 {
		t.Fatalf("recreated dir not empty: %d entries", len(dirents))
	}
}

func TestDeleteBatchPromptsOncePerBatch(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are ignored")
	}

	home := t.TempDir()
	a := lockedDir(t, home, "a")
	b := lockedDir(t, home, "b")
	d := lockedDir(t, home, "c")

	fake := &fakeElevator{grant: true}
	c, _ := newTestCleaner(t, home, fake)

	results := c.DeleteBatch(context.Background(), []Request{
		{Path: a}, {Path: b}, {Path: d},
	})
	for i, res := range results {
		if res.Outcome != entry.OutcomeSuccess || res.Privilege != entry.PrivilegeElevated {
			t.Fatalf("result[%d] = %+v, want elevated success", i, res)
		}
	}
	if fake.prompts != 1 {
		t.Fatalf("prompts = %d, want exactly 1 for the batch", fake.prompts)
	}
	if len(fake.removed) != 3 {
		t.Fatalf("removed = %v", fake.removed)
	}
}

func TestDeleteBatchCachedSudoSkipsPrompt(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are ignored")
	}

	home := t.TempDir()
	a := lockedDir(t, home, "a")
	b := lockedDir(t, home, "b")

	fake := &fakeElevator{sudoOK: true}
	c, _ := newTestCleaner(t, home, fake)

	results := c.DeleteBatch(context.Background(), []Request{{Path: a}, {Path: b}})
	for i, res := range results {
		if res.Outcome != entry.OutcomeSuccess || res.Privilege != entry.PrivilegeElevated {
			t.Fatalf("result[%d] = %+v", i, res)
		}
	}
	if fake.prompts != 0 {
		t.Fatalf("prompted despite working non-interactive sudo")
	}
}

func TestDeleteBatchDeclinedElevationCancelsRemainder(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are ignored")
	}

	home := t.TempDir()
	plain := filepath.Join(home, "plain")
	mkTree(t, plain, map[string]int{"f.bin": 10})
	a := lockedDir(t, home, "a")
	b := lockedDir(t, home, "b")

	fake := &fakeElevator{grant: false}
	c, _ := newTestCleaner(t, home, fake)

	results := c.DeleteBatch(context.Background(), []Request{
		{Path: plain}, {Path: a}, {Path: b},
	})

	if results[0].Outcome != entry.OutcomeSuccess {
		t.Fatalf("unprivileged path = %+v, want success", results[0])
	}
	for i := 1; i < 3; i++ {
		if results[i].Outcome != entry.OutcomeFailed || results[i].Reason != reasonCancelled {
			t.Fatalf("result[%d] = %+v, want cancelled failure", i, results[i])
		}
	}
	if fake.prompts != 1 {
		t.Fatalf("prompts = %d, want 1; decline must stick for the batch", fake.prompts)
	}
	if _, err := os.Stat(a); err != nil {
		t.Fatalf("declined path was mutated: %v", err)
	}
}

func TestDeleteBatchPartialRemovalGradedPartial(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("running as root, permission bits are ignored")
	}

	home := t.TempDir()
	target := filepath.Join(home, "mixed")
	mkTree(t, target, map[string]int{"f.bin": 10, "sub/g.bin": 20})
	sub := filepath.Join(target, "sub")
	if err := os.Chmod(sub, 0o000); err != nil {
		t.Fatalf("chmod: %v", err)
	}
	t.Cleanup(func() { os.Chmod(sub, 0o755) })

	// Decline elevation so the failed removal has to be graded on its
	// own: the plain file went away, the locked subtree did not.
	c, _ := newTestCleaner(t, home, &fakeElevator{grant: false})
	results := c.DeleteBatch(context.Background(), []Request{{Path: target}})

	if results[0].Outcome != entry.OutcomePartial {
		t.Fatalf("result = %+v, want partial", results[0])
	}
	if _, err := os.Stat(filepath.Join(target, "f.bin")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("plain file should have been removed")
	}
	if _, err := os.Stat(sub); err != nil {
		t.Fatalf("locked subtree should survive: %v", err)
	}
}

func TestDeleteBatchResultsMatchRequestOrder(t *testing.T) {
	home := t.TempDir()
	a := filepath.Join(home, "a")
	b := filepath.Join(home, "b")
	mkTree(t, a, map[string]int{"f": 1})
	mkTree(t, b, map[string]int{"f": 1})

	c, _ := newTestCleaner(t, home, &fakeElevator{})
	reqs := []Request{{Path: b}, {Path: filepath.Join(home, "gone")}, {Path: a}}
	results := c.DeleteBatch(context.Background(), reqs)

	if len(results) != len(reqs) {
		t.Fatalf("got %d results for %d requests", len(results), len(reqs))
	}
	for i := range reqs {
		if results[i].Path != reqs[i].Path {
			t.Fatalf("results[%d].Path = %s, want %s", i, results[i].Path, reqs[i].Path)
		}
	}
}

func TestDeleteBatchEveryAttemptLandsInHistory(t *testing.T) {
	home := t.TempDir()
	a := filepath.Join(home, "a")
	mkTree(t, a, map[string]int{"f": 1})

	c, h := newTestCleaner(t, home, &fakeElevator{})
	c.DeleteBatch(context.Background(), []Request{
		{Path: a},
		{Path: filepath.Join(home, "gone")},
		{Path: "/etc/hosts"},
	})

	recs, err := h.Recent(0)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(recs) != 3 {
		t.Fatalf("history has %d records, want 3", len(recs))
	}
}
