package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/macsweep/macsweep/internal/entry"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOverlayKeysAreLowercased(t *testing.T) {
	s := openTestStore(t)

	label := entry.Label{Description: "Xcode derived data", Risk: entry.RiskSafe}
	if err := s.LearnOverlay("DerivedData", label); err != nil {
		t.Fatalf("learn: %v", err)
	}

	for _, name := range []string{"deriveddata", "DerivedData", "DERIVEDDATA"} {
		got, ok := s.OverlayGet(name)
		if !ok {
			t.Fatalf("OverlayGet(%q) missed", name)
		}
		if got != label {
			t.Fatalf("OverlayGet(%q) = %+v", name, got)
		}
	}
}

func TestOverlayLaterWriteOverwrites(t *testing.T) {
	s := openTestStore(t)

	first := entry.Label{Description: "old", Risk: entry.RiskCaution}
	second := entry.Label{Description: "new", Risk: entry.RiskSafe}
	if err := s.LearnOverlay("npm-cache", first); err != nil {
		t.Fatalf("learn first: %v", err)
	}
	if err := s.LearnOverlay("NPM-Cache", second); err != nil {
		t.Fatalf("learn second: %v", err)
	}

	got, ok := s.OverlayGet("npm-cache")
	if !ok || got != second {
		t.Fatalf("got %+v, want %+v", got, second)
	}
	if s.OverlayLen() != 1 {
		t.Fatalf("overlay len = %d, want 1", s.OverlayLen())
	}
}

func TestOverlayRejectsInvalidInput(t *testing.T) {
	s := openTestStore(t)

	if err := s.LearnOverlay("", entry.Label{Risk: entry.RiskSafe}); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if err := s.LearnOverlay("x", entry.Label{Risk: "harmless"}); err == nil {
		t.Fatalf("expected error for invalid risk")
	}
}

func TestOverlaySurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macsweep.db")

	s, err := Open(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	label := entry.Label{Description: "Homebrew cache", Risk: entry.RiskSafe}
	if err := s.LearnOverlay("Homebrew", label); err != nil {
		t.Fatalf("learn: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()

	got, ok := reopened.OverlayGet("homebrew")
	if !ok || got != label {
		t.Fatalf("after reopen: got %+v ok=%v", got, ok)
	}
}

func TestHistoryAppendEvictsBeyondCapacity(t *testing.T) {
	s := openTestStore(t)

	base := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 4; i++ {
		rec := entry.DeletionRecord{
			Path:      "/home/u/c" + string(rune('0'+i)),
			Name:      "c" + string(rune('0'+i)),
			Size:      int64(i),
			Outcome:   entry.OutcomeSuccess,
			Privilege: entry.PrivilegeNormal,
			Timestamp: base.Add(time.Duration(i) * time.Minute),
		}
		if err := s.AppendHistory(rec, 3); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}

	records, err := s.RecentHistory(0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("retained %d records, want 3", len(records))
	}
	if records[0].Name != "c3" {
		t.Fatalf("newest = %s, want c3", records[0].Name)
	}
	for _, r := range records {
		if r.Name == "c0" {
			t.Fatalf("oldest record was not evicted")
		}
	}
}

func TestRecentHistoryHonorsLimit(t *testing.T) {
	s := openTestStore(t)

	for i := 0; i < 5; i++ {
		rec := entry.DeletionRecord{
			Path:      "/home/u/x",
			Name:      "x",
			Outcome:   entry.OutcomeFailed,
			Privilege: entry.PrivilegeNormal,
			Timestamp: time.Now(),
		}
		if err := s.AppendHistory(rec, 0); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	records, err := s.RecentHistory(2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
}
