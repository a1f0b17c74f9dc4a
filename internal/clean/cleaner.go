// Package clean deletes folders picked from scan results. Every path
// is re-checked against the security boundary at deletion time, every
// attempt is written to the history regardless of outcome, and
// privilege elevation is requested at most once per batch.
package clean

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"github.com/macsweep/macsweep/internal/boundary"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/history"
	"github.com/macsweep/macsweep/internal/walk"
)

// Request names one folder to delete. Recreate leaves an empty
// directory behind, for locations applications expect to exist.
type Request struct {
	Path     string `json:"path"`
	Recreate bool   `json:"recreate,omitempty"`
}

// Result reports one deletion attempt. Size is the bytes measured just
// before removal, so reclaimed-space accounting survives the deletion.
type Result struct {
	Path      string          `json:"path"`
	Outcome   entry.Outcome   `json:"outcome"`
	Privilege entry.Privilege `json:"privilege"`
	Size      int64           `json:"size"`
	Reason    string          `json:"reason,omitempty"`
}

// Reasons recorded on failed attempts.
const (
	reasonRejected  = "outside allowed roots"
	reasonNotFound  = "not found"
	reasonCancelled = "elevation declined"
)

// Cleaner executes deletion batches.
type Cleaner struct {
	boundary *boundary.Boundary
	history  *history.Log
	elevator Elevator
	workers  int
}

// New builds a Cleaner. A nil elevator falls back to the system one.
func New(b *boundary.Boundary, h *history.Log, e Elevator, workers int) *Cleaner {
	if e == nil {
		e = NewElevator()
	}
	if workers <= 0 {
		workers = walk.DefaultWorkers
	}
	return &Cleaner{boundary: b, history: h, elevator: e, workers: workers}
}

// DeleteBatch processes reqs in order and returns one Result per
// request, positionally matched. Paths run sequentially: the elevation
// gate holds batch-wide state, and one failed path must not stop the
// rest. Every attempt, including rejected and failed ones, lands in
// the history.
func (c *Cleaner) DeleteBatch(ctx context.Context, reqs []Request) []Result {
	pool := walk.NewPool(c.workers)
	defer pool.Close()

	g := &gate{elevator: c.elevator}

	results := make([]Result, 0, len(reqs))
	for _, req := range reqs {
		res := c.deleteOne(ctx, pool, g, req)
		c.record(res)
		results = append(results, res)
	}
	return results
}

func (c *Cleaner) deleteOne(ctx context.Context, pool *walk.Pool, g *gate, req Request) Result {
	res := Result{Path: req.Path, Outcome: entry.OutcomeFailed, Privilege: entry.PrivilegeNormal}

	resolved, err := c.boundary.Resolve(req.Path)
	if err != nil {
		if errors.Is(err, entry.ErrSecurityRejected) {
			res.Reason = reasonRejected
		} else {
			res.Reason = err.Error()
		}
		return res
	}

	info, err := os.Lstat(resolved)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			res.Reason = reasonNotFound
		} else {
			res.Reason = err.Error()
		}
		return res
	}

	// Measure before removing; afterwards there is nothing to measure.
	// A direct-child count taken here also lets a failed removal be
	// graded partial when some contents did go away.
	var before int
	if info.IsDir() {
		if wr, err := pool.Walk(resolved, 1); err == nil {
			res.Size = wr.Total
			before = len(wr.Children)
		}
	} else {
		res.Size = info.Size()
	}

	rmErr := remove(resolved, info.IsDir())
	switch {
	case rmErr == nil:
		res.Outcome = entry.OutcomeSuccess
	case errors.Is(rmErr, fs.ErrPermission):
		if gerr := g.remove(ctx, resolved); gerr == nil {
			res.Outcome = entry.OutcomeSuccess
			res.Privilege = entry.PrivilegeElevated
		} else if errors.Is(gerr, entry.ErrElevationCancelled) {
			res.Outcome = c.failedOutcome(resolved, info.IsDir(), before)
			res.Reason = reasonCancelled
		} else {
			res.Outcome = c.failedOutcome(resolved, info.IsDir(), before)
			res.Privilege = entry.PrivilegeElevated
			res.Reason = gerr.Error()
		}
	default:
		res.Outcome = c.failedOutcome(resolved, info.IsDir(), before)
		res.Reason = rmErr.Error()
	}

	if res.Outcome == entry.OutcomeSuccess && req.Recreate {
		if err := os.MkdirAll(resolved, 0o755); err != nil {
			res.Reason = "recreate: " + err.Error()
		}
	}
	return res
}

func remove(path string, isDir bool) error {
	if isDir {
		return os.RemoveAll(path)
	}
	return os.Remove(path)
}

// failedOutcome distinguishes a removal that got nowhere from one that
// deleted part of a directory before failing.
func (c *Cleaner) failedOutcome(path string, isDir bool, before int) entry.Outcome {
	if !isDir {
		return entry.OutcomeFailed
	}
	if dirents, err := os.ReadDir(path); err == nil && len(dirents) < before {
		return entry.OutcomePartial
	}
	return entry.OutcomeFailed
}

func (c *Cleaner) record(res Result) {
	if c.history == nil {
		return
	}
	// History write failures must not mask the deletion outcome; the
	// deletion already happened.
	_ = c.history.Record(entry.DeletionRecord{
		Path:      res.Path,
		Size:      res.Size,
		Outcome:   res.Outcome,
		Privilege: res.Privilege,
		Reason:    res.Reason,
	})
}
