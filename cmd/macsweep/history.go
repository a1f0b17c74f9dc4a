package main

import (
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the deletion audit trail and reclaimed-space totals",
	RunE:  runHistoryCmd,
}

var historyLimit int

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show (0 = all)")
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	c, err := openCore(0)
	if err != nil {
		return err
	}
	defer c.Close()

	stats, err := c.history.Stats(time.Now())
	if err != nil {
		return err
	}
	fmt.Printf("Freed %s across %d deletions (%s across %d this month)\n\n",
		humanize.Bytes(uint64(stats.TotalBytes)), stats.TotalDeleted,
		humanize.Bytes(uint64(stats.MonthBytes)), stats.MonthDeleted)

	records, err := c.history.Recent(historyLimit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("Nothing deleted yet.")
		return nil
	}
	for _, r := range records {
		line := fmt.Sprintf("%-9s %10s  %-14s %s",
			string(r.Outcome),
			humanize.Bytes(uint64(r.Size)),
			humanize.Time(r.Timestamp),
			r.Path,
		)
		if r.Reason != "" {
			line += "  (" + r.Reason + ")"
		}
		fmt.Println(line)
	}
	return nil
}
