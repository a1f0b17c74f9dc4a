package scan

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/walk"
)

// DrillDown sizes the direct children of path, largest first. The
// path is re-validated against the security boundary even though it
// came from a prior scan result; no trust survives across calls. A
// path that vanished or is not a directory is a reported error so the
// caller knows its cached view is stale.
func (s *Scanner) DrillDown(path string) ([]entry.FolderEntry, error) {
	resolved, err := s.boundary.Resolve(path)
	if err != nil {
		if errors.Is(err, entry.ErrSecurityRejected) {
			return nil, entry.ErrSecurityRejected
		}
		return nil, fmt.Errorf("drill down %s: %w", path, err)
	}

	info, err := os.Lstat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entry.ErrNotFound
		}
		return nil, fmt.Errorf("drill down %s: %w", resolved, err)
	}
	if !info.IsDir() {
		return nil, entry.ErrNotFound
	}

	pool := walk.NewPool(s.cfg.Workers)
	defer pool.Close()

	res, err := pool.Walk(resolved, 1)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, entry.ErrNotFound
		}
		return nil, fmt.Errorf("drill down %s: %w", resolved, err)
	}

	return s.folderEntries(res.Children, s.cfg.MinChildBytes, s.cfg.MaxChildren), nil
}
