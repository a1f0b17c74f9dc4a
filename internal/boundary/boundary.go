// Package boundary enforces the security invariant shared by every
// operation that accepts an external path: after symlink and ".."
// normalization the path must sit under the user's home directory or
// the system log directory. The check is re-applied at every entry
// point; no trust is carried from a prior call.
package boundary

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/macsweep/macsweep/internal/entry"
)

// SystemLogDir is the one location outside the home directory the
// cleaner is allowed to touch.
const SystemLogDir = "/var/log"

// Boundary confines externally supplied paths to a fixed set of roots.
type Boundary struct {
	roots []string
}

// New builds the process-wide boundary: the current user's home
// directory plus the system log directory.
func New() (*Boundary, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("resolve home directory: %w", err)
	}
	return ForRoots(home, SystemLogDir), nil
}

// ForRoots builds a boundary over explicit roots. Roots are resolved
// through symlinks up front so that e.g. /var/log on darwin compares
// against its /private/var/log reality.
func ForRoots(roots ...string) *Boundary {
	b := &Boundary{}
	for _, r := range roots {
		r = filepath.Clean(r)
		if resolved, err := filepath.EvalSymlinks(r); err == nil {
			r = resolved
		}
		b.roots = append(b.roots, r)
	}
	return b
}

// Resolve normalizes path and verifies it falls inside the boundary.
// It returns the fully resolved path on success, ErrSecurityRejected
// when the path escapes, and the underlying error when the path could
// not be resolved at all.
func (b *Boundary) Resolve(path string) (string, error) {
	if path == "" {
		return "", entry.ErrSecurityRejected
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", entry.ErrSecurityRejected
	}
	resolved, err := resolveSymlinks(filepath.Clean(abs))
	if err != nil {
		return "", err
	}
	for _, root := range b.roots {
		if resolved == root || strings.HasPrefix(resolved, root+string(filepath.Separator)) {
			return resolved, nil
		}
	}
	return "", entry.ErrSecurityRejected
}

// resolveSymlinks evaluates symlinks even when the leaf no longer
// exists: deletion retries must still be boundary-checked through
// their (possibly symlinked) parents.
func resolveSymlinks(abs string) (string, error) {
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return filepath.Clean(resolved), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	resolvedParent, err := resolveSymlinks(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(resolvedParent, filepath.Base(abs)), nil
}
