// Package history keeps the bounded deletion audit trail. Appends are
// serialized under one lock because batches may be issued concurrently,
// and every mutation is flushed to the store before Record returns.
package history

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/store"
)

// DefaultCapacity bounds the retained history; the oldest record is
// evicted first once the cap is reached.
const DefaultCapacity = 500

// Log is the shared deletion history. Construct one per process and
// inject it wherever deletions are recorded.
type Log struct {
	mu       sync.Mutex
	store    *store.Store
	capacity int
}

// NewLog wraps the store with FIFO bookkeeping. capacity <= 0 falls
// back to DefaultCapacity.
func NewLog(st *store.Store, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{store: st, capacity: capacity}
}

// Record appends one deletion attempt, evicting the oldest entry when
// over capacity. Missing Name and Timestamp fields are filled in.
func (l *Log) Record(rec entry.DeletionRecord) error {
	if rec.Name == "" {
		rec.Name = filepath.Base(rec.Path)
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.store.AppendHistory(rec, l.capacity)
}

// Recent returns the newest records first. limit <= 0 returns the
// full retained history.
func (l *Log) Recent(limit int) ([]entry.DeletionRecord, error) {
	return l.store.RecentHistory(limit)
}

// Stats aggregates successful deletions: lifetime and current month.
type Stats struct {
	TotalDeleted int   `json:"total_deleted"`
	TotalBytes   int64 `json:"total_bytes"`
	MonthDeleted int   `json:"month_deleted"`
	MonthBytes   int64 `json:"month_bytes"`
}

// Stats computes aggregates over the retained history. Only successful
// deletions count toward reclaimed space.
func (l *Log) Stats(now time.Time) (Stats, error) {
	records, err := l.store.RecentHistory(0)
	if err != nil {
		return Stats{}, err
	}

	var s Stats
	year, month, _ := now.UTC().Date()
	for _, r := range records {
		if r.Outcome != entry.OutcomeSuccess {
			continue
		}
		s.TotalDeleted++
		s.TotalBytes += r.Size
		ry, rm, _ := r.Timestamp.UTC().Date()
		if ry == year && rm == month {
			s.MonthDeleted++
			s.MonthBytes += r.Size
		}
	}
	return s, nil
}
