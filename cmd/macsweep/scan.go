package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/diskinfo"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/tmutil"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the usual space sinks and show what is reclaimable",
	RunE:  runScanCmd,
}

var (
	scanWorkers int
	scanJSON    bool
	scanAll     bool
)

func init() {
	scanCmd.Flags().IntVarP(&scanWorkers, "workers", "w", 0, "Number of walker goroutines (0 = default)")
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "Emit results as JSON")
	scanCmd.Flags().BoolVarP(&scanAll, "all", "a", false, "Show children of every root, not just totals")
}

func runScanCmd(cmd *cobra.Command, args []string) error {
	c, err := openCore(scanWorkers)
	if err != nil {
		return err
	}
	defer c.Close()

	tty := isatty.IsTerminal(os.Stderr.Fd())
	if tty {
		fmt.Fprint(os.Stderr, "Scanning...")
	}
	entries := c.scanner.Scan()
	if tty {
		fmt.Fprint(os.Stderr, "\r            \r")
	}

	if scanJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if info, err := diskinfo.Collect(cmd.Context()); err == nil {
		fmt.Printf("Disk: %s used of %s (%s free)\n\n", info.UsedHuman, info.TotalHuman, info.FreeHuman)
	}

	var total int64
	for _, e := range entries {
		total += e.Size
		fmt.Printf("%10s  %-8s  %s\n", humanize.Bytes(uint64(e.Size)), riskOrErr(e), e.Name)
		if scanAll {
			for _, ch := range e.Children {
				fmt.Printf("%10s  %-8s      %s\n", humanize.Bytes(uint64(ch.Size)), riskOrErr(ch), ch.Name)
			}
		}
	}
	fmt.Printf("\n%s reclaimable across %d locations\n", humanize.Bytes(uint64(total)), len(entries))

	if n, err := tmutil.Count(cmd.Context()); err == nil && n > 0 {
		fmt.Printf("%d local Time Machine snapshot(s) may pin deleted data; see `macsweep snapshots`\n", n)
	}
	return nil
}

func riskOrErr(e entry.FolderEntry) string {
	if e.Err != "" {
		return "error"
	}
	if e.Label.Risk == "" {
		return "-"
	}
	return string(e.Label.Risk)
}
