package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/store"
)

func newTestLog(t *testing.T, capacity int) *Log {
	t.Helper()
	st, err := store.Open(":memory:")
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewLog(st, capacity)
}

func TestRecordEvictsOldestBeyondCapacity(t *testing.T) {
	const capacity = 5
	l := newTestLog(t, capacity)

	for i := 0; i <= capacity; i++ {
		rec := entry.DeletionRecord{
			Path:      fmt.Sprintf("/home/u/folder-%d", i),
			Size:      int64(i * 10),
			Outcome:   entry.OutcomeSuccess,
			Privilege: entry.PrivilegeNormal,
		}
		if err := l.Record(rec); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	records, err := l.Recent(0)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(records) != capacity {
		t.Fatalf("retained %d, want %d", len(records), capacity)
	}
	if records[0].Path != fmt.Sprintf("/home/u/folder-%d", capacity) {
		t.Fatalf("newest = %s", records[0].Path)
	}
	for _, r := range records {
		if r.Path == "/home/u/folder-0" {
			t.Fatalf("oldest record survived eviction")
		}
	}
}

func TestRecordFillsNameAndTimestamp(t *testing.T) {
	l := newTestLog(t, 10)

	if err := l.Record(entry.DeletionRecord{
		Path:      "/home/u/Library/Caches/npm",
		Outcome:   entry.OutcomeFailed,
		Privilege: entry.PrivilegeNormal,
		Reason:    "permission denied",
	}); err != nil {
		t.Fatalf("record: %v", err)
	}

	records, err := l.Recent(1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if records[0].Name != "npm" {
		t.Fatalf("name = %q, want npm", records[0].Name)
	}
	if records[0].Timestamp.IsZero() {
		t.Fatalf("timestamp not filled")
	}
}

func TestStatsCountsOnlySuccesses(t *testing.T) {
	l := newTestLog(t, 50)
	now := time.Date(2026, time.August, 23, 12, 0, 0, 0, time.UTC)

	recs := []entry.DeletionRecord{
		{Path: "/h/a", Size: 100, Outcome: entry.OutcomeSuccess, Privilege: entry.PrivilegeNormal, Timestamp: now.AddDate(0, -2, 0)},
		{Path: "/h/b", Size: 40, Outcome: entry.OutcomeSuccess, Privilege: entry.PrivilegeElevated, Timestamp: now.Add(-time.Hour)},
		{Path: "/h/c", Size: 999, Outcome: entry.OutcomeFailed, Privilege: entry.PrivilegeNormal, Timestamp: now},
		{Path: "/h/d", Size: 60, Outcome: entry.OutcomeSuccess, Privilege: entry.PrivilegeNormal, Timestamp: now},
	}
	for _, r := range recs {
		if err := l.Record(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	stats, err := l.Stats(now)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.TotalDeleted != 3 || stats.TotalBytes != 200 {
		t.Fatalf("total = %d/%d, want 3/200", stats.TotalDeleted, stats.TotalBytes)
	}
	if stats.MonthDeleted != 2 || stats.MonthBytes != 100 {
		t.Fatalf("month = %d/%d, want 2/100", stats.MonthDeleted, stats.MonthBytes)
	}
}
