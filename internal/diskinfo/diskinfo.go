// Package diskinfo reports capacity and free space for the volume the
// cleaner is reclaiming from.
package diskinfo

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"
)

// Info describes the root volume. Humanized fields are precomputed so
// every surface prints sizes the same way.
type Info struct {
	Path        string  `json:"path"`
	Total       uint64  `json:"total"`
	Used        uint64  `json:"used"`
	Free        uint64  `json:"free"`
	UsedPercent float64 `json:"used_percent"`
	TotalHuman  string  `json:"total_formatted"`
	UsedHuman   string  `json:"used_formatted"`
	FreeHuman   string  `json:"free_formatted"`
}

// Collect reads usage for the root filesystem.
func Collect(ctx context.Context) (Info, error) {
	u, err := disk.UsageWithContext(ctx, "/")
	if err != nil {
		return Info{}, fmt.Errorf("disk usage: %w", err)
	}
	return Info{
		Path:        u.Path,
		Total:       u.Total,
		Used:        u.Used,
		Free:        u.Free,
		UsedPercent: u.UsedPercent,
		TotalHuman:  humanize.Bytes(u.Total),
		UsedHuman:   humanize.Bytes(u.Used),
		FreeHuman:   humanize.Bytes(u.Free),
	}, nil
}
