// Package tmutil inspects and prunes local Time Machine snapshots,
// which hold deleted data on the volume until the snapshot itself is
// thinned.
package tmutil

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
)

var snapshotRe = regexp.MustCompile(`com\.apple\.TimeMachine\.(\d{4}-\d{2}-\d{2}-\d{6})\.local`)

// Snapshot is one local Time Machine snapshot. Stamp is the timestamp
// token tmutil commands accept.
type Snapshot struct {
	Name  string `json:"name"`
	Stamp string `json:"stamp"`
}

// List returns the local snapshots on the root volume, oldest first as
// tmutil reports them. A missing tmutil binary means no snapshots, not
// an error; the tool only exists on macOS.
func List(ctx context.Context) ([]Snapshot, error) {
	cmd := exec.CommandContext(ctx, "tmutil", "listlocalsnapshots", "/")
	out, err := cmd.Output()
	if err != nil {
		if _, lookErr := exec.LookPath("tmutil"); lookErr != nil {
			return nil, nil
		}
		return nil, fmt.Errorf("tmutil listlocalsnapshots: %w", err)
	}
	return Parse(string(out)), nil
}

// Parse extracts snapshots from tmutil listlocalsnapshots output.
func Parse(out string) []Snapshot {
	var snaps []Snapshot
	for _, line := range strings.Split(out, "\n") {
		m := snapshotRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		snaps = append(snaps, Snapshot{Name: m[0], Stamp: m[1]})
	}
	return snaps
}

// Count returns how many local snapshots exist.
func Count(ctx context.Context) (int, error) {
	snaps, err := List(ctx)
	if err != nil {
		return 0, err
	}
	return len(snaps), nil
}

// Delete removes one snapshot by stamp. Deletion needs root, so it
// runs through sudo with cached credentials only; callers surface the
// error and let the user elevate by hand rather than popping a dialog
// for a maintenance action.
func Delete(ctx context.Context, stamp string) error {
	cmd := exec.CommandContext(ctx, "sudo", "-n", "tmutil", "deletelocalsnapshots", stamp)
	out, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("delete snapshot %s: %v: %s", stamp, err, strings.TrimSpace(string(out)))
	}
	return nil
}
