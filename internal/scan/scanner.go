// Package scan coordinates full scans over the fixed root set and
// on-demand drill-downs into already scanned folders. Results are
// produced fresh per call; there is no authoritative cached size
// state between requests.
package scan

import (
	"os"
	"sort"
	"sync"

	"github.com/dustin/go-humanize"

	"github.com/macsweep/macsweep/internal/boundary"
	"github.com/macsweep/macsweep/internal/classify"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/walk"
)

// Thresholds carried over from the interactive defaults: roots and
// children below these sizes are noise, not reclaimable space. Scan
// listings use the item floor; drill-downs go finer with the child
// floor.
const (
	DefaultMinRootBytes  = 50 << 20
	DefaultMinItemBytes  = 20 << 20
	DefaultMinChildBytes = 512 << 10
	DefaultMaxChildren   = 30
)

// Config tunes one Scanner. The zero value of the limits disables
// filtering, which tests rely on.
type Config struct {
	Roots         []entry.ScanRoot
	Workers       int
	MinRootBytes  int64
	MinItemBytes  int64
	MinChildBytes int64
	MaxChildren   int
}

// DefaultConfig returns the production configuration for home.
func DefaultConfig(home string) Config {
	return Config{
		Roots:         DefaultRoots(home),
		Workers:       walk.DefaultWorkers,
		MinRootBytes:  DefaultMinRootBytes,
		MinItemBytes:  DefaultMinItemBytes,
		MinChildBytes: DefaultMinChildBytes,
		MaxChildren:   DefaultMaxChildren,
	}
}

// Scanner runs scans and drill-downs. Safe for concurrent use; each
// invocation owns its walker pool and its results.
type Scanner struct {
	cfg        Config
	boundary   *boundary.Boundary
	classifier *classify.Classifier
}

// New creates a Scanner over the injected boundary and classifier.
func New(cfg Config, b *boundary.Boundary, c *classify.Classifier) *Scanner {
	if cfg.Workers <= 0 {
		cfg.Workers = walk.DefaultWorkers
	}
	return &Scanner{cfg: cfg, boundary: b, classifier: c}
}

// Scan walks every configured root and returns one classified entry
// per root, largest first (ties keep declaration order). Roots missing
// from this machine are omitted. A root that exists but cannot be
// walked is reported as a zero-size partial entry rather than failing
// the scan.
func (s *Scanner) Scan() []entry.FolderEntry {
	pool := walk.NewPool(s.cfg.Workers)
	defer pool.Close()

	results := make([]*entry.FolderEntry, len(s.cfg.Roots))
	var wg sync.WaitGroup

	for i, root := range s.cfg.Roots {
		if _, err := os.Lstat(root.Path); err != nil {
			continue
		}
		wg.Add(1)
		go func(i int, root entry.ScanRoot) {
			defer wg.Done()
			results[i] = s.scanRoot(pool, root)
		}(i, root)
	}
	wg.Wait()

	entries := make([]entry.FolderEntry, 0, len(results))
	for _, r := range results {
		if r == nil {
			continue
		}
		if s.cfg.MinRootBytes > 0 && r.Size < s.cfg.MinRootBytes && r.Err == "" {
			continue
		}
		entries = append(entries, *r)
	}

	// Stable sort: ties keep root declaration order.
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Size > entries[j].Size
	})
	return entries
}

func (s *Scanner) scanRoot(pool *walk.Pool, root entry.ScanRoot) *entry.FolderEntry {
	fe := &entry.FolderEntry{
		Name:  root.Label,
		Path:  root.Path,
		IsDir: true,
		Label: s.classifier.Classify(root.Path),
	}

	res, err := pool.Walk(root.Path, 1)
	if err != nil {
		// Root exists but is unreadable: report it rather than hide
		// it, with size zero and the partial flag set.
		fe.Partial = true
		fe.Err = err.Error()
		fe.SizeHuman = humanize.Bytes(0)
		return fe
	}

	fe.Size = res.Total
	fe.SizeHuman = humanize.Bytes(uint64(res.Total))
	fe.Items = res.Items
	fe.Partial = res.Partial
	fe.HasChildren = len(res.Children) > 0
	fe.Children = s.folderEntries(res.Children, s.cfg.MinItemBytes, s.cfg.MaxChildren)
	return fe
}

// folderEntries converts walker children into classified entries,
// applying the size floor and the per-listing cap. Anything trimmed by
// the cap is folded into a synthetic tail entry so totals still add up.
func (s *Scanner) folderEntries(children []walk.Child, minBytes int64, maxChildren int) []entry.FolderEntry {
	out := make([]entry.FolderEntry, 0, len(children))
	var restSize int64
	var restCount int

	for _, c := range children {
		if minBytes > 0 && c.Size < minBytes {
			continue
		}
		if maxChildren > 0 && len(out) >= maxChildren {
			restSize += c.Size
			restCount++
			continue
		}
		out = append(out, entry.FolderEntry{
			Name:        c.Name,
			Path:        c.Path,
			Size:        c.Size,
			SizeHuman:   humanize.Bytes(uint64(c.Size)),
			Items:       c.Items,
			IsDir:       c.IsDir,
			HasChildren: c.HasChildren,
			Partial:     c.Partial,
			Label:       s.classifier.Classify(c.Path),
		})
	}

	if restCount > 0 {
		out = append(out, entry.FolderEntry{
			Name:      humanize.Comma(int64(restCount)) + " more items",
			Size:      restSize,
			SizeHuman: humanize.Bytes(uint64(restSize)),
		})
	}
	return out
}
