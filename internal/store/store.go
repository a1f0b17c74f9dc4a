// Package store is the persistence substrate for the two pieces of
// continuously mutated state: the learned classification overlay and
// the deletion history. Both are flushed on every mutation.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/macsweep/macsweep/internal/entry"

	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database. Overlay reads are served from an
// in-memory snapshot so classifiers never block on the writer; the
// read-modify-write path for overlay mutations is serialized.
type Store struct {
	db *sql.DB

	mu      sync.RWMutex
	overlay map[string]entry.Label
}

// DefaultPath returns the per-user database location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, ".macsweep", "macsweep.db"), nil
}

// Open opens (creating if needed) the database at path and loads the
// overlay snapshot. Use ":memory:" in tests.
func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create store directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := initSchema(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &Store{db: db}
	if err := s.loadOverlay(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) loadOverlay() error {
	rows, err := s.db.Query(`SELECT name, description, risk FROM overlay`)
	if err != nil {
		return fmt.Errorf("load overlay: %w", err)
	}
	defer rows.Close()

	overlay := make(map[string]entry.Label)
	for rows.Next() {
		var name string
		var l entry.Label
		if err := rows.Scan(&name, &l.Description, &l.Risk); err != nil {
			return fmt.Errorf("scan overlay row: %w", err)
		}
		overlay[name] = l
	}
	if err := rows.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.overlay = overlay
	s.mu.Unlock()
	return nil
}

// OverlayGet looks up a previously learned label. Keys are matched
// case-insensitively against the lowercase overlay.
func (s *Store) OverlayGet(name string) (entry.Label, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.overlay[strings.ToLower(name)]
	return l, ok
}

// OverlayLen reports the number of learned entries.
func (s *Store) OverlayLen() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.overlay)
}

// LearnOverlay persists a learned label. Keys are always stored
// lowercase; a later write with the same key overwrites the earlier
// value. The write is durable before the in-memory snapshot moves.
func (s *Store) LearnOverlay(name string, label entry.Label) error {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" {
		return fmt.Errorf("learn overlay: empty name")
	}
	if !label.Risk.Valid() {
		return fmt.Errorf("learn overlay %q: invalid risk %q", key, label.Risk)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(
		`INSERT INTO overlay (name, description, risk) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET description = excluded.description, risk = excluded.risk`,
		key, label.Description, string(label.Risk),
	)
	if err != nil {
		return fmt.Errorf("persist overlay %q: %w", key, err)
	}
	s.overlay[key] = label
	return nil
}

// AppendHistory records one deletion attempt and evicts the oldest
// rows beyond capacity, in a single transaction.
func (s *Store) AppendHistory(rec entry.DeletionRecord, capacity int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin history append: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO history (path, name, size, outcome, privilege, reason, ts)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.Path, rec.Name, rec.Size, string(rec.Outcome), string(rec.Privilege),
		rec.Reason, rec.Timestamp.Unix(),
	)
	if err != nil {
		return fmt.Errorf("insert history row: %w", err)
	}

	if capacity > 0 {
		_, err = tx.Exec(
			`DELETE FROM history WHERE id NOT IN (
			     SELECT id FROM history ORDER BY id DESC LIMIT ?
			 )`, capacity,
		)
		if err != nil {
			return fmt.Errorf("evict history rows: %w", err)
		}
	}

	return tx.Commit()
}

// RecentHistory returns the most recent records, newest first.
// limit <= 0 returns the full retained history.
func (s *Store) RecentHistory(limit int) ([]entry.DeletionRecord, error) {
	query := `SELECT path, name, size, outcome, privilege, reason, ts
	          FROM history ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var records []entry.DeletionRecord
	for rows.Next() {
		var rec entry.DeletionRecord
		var ts int64
		if err := rows.Scan(&rec.Path, &rec.Name, &rec.Size, &rec.Outcome,
			&rec.Privilege, &rec.Reason, &ts); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		rec.Timestamp = time.Unix(ts, 0).UTC()
		records = append(records, rec)
	}
	return records, rows.Err()
}
