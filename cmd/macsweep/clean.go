package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/clean"
	"github.com/macsweep/macsweep/internal/entry"
)

var cleanCmd = &cobra.Command{
	Use:   "clean <path>...",
	Short: "Delete the given folders, elevating once if needed",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runCleanCmd,
}

var (
	cleanRecreate bool
	cleanYes      bool
)

func init() {
	cleanCmd.Flags().BoolVar(&cleanRecreate, "recreate", false, "Recreate each folder empty after deleting it")
	cleanCmd.Flags().BoolVarP(&cleanYes, "yes", "y", false, "Skip the confirmation prompt")
}

func runCleanCmd(cmd *cobra.Command, args []string) error {
	c, err := openCore(0)
	if err != nil {
		return err
	}
	defer c.Close()

	if !cleanYes {
		fmt.Printf("About to delete %d folder(s):\n", len(args))
		for _, p := range args {
			label := c.classifier.Classify(p)
			fmt.Printf("  [%s] %s\n", label.Risk, p)
		}
		fmt.Print("Proceed? [y/N] ")
		line, _ := bufio.NewReader(os.Stdin).ReadString('\n')
		if ans := strings.ToLower(strings.TrimSpace(line)); ans != "y" && ans != "yes" {
			fmt.Println("Aborted.")
			return nil
		}
	}

	reqs := make([]clean.Request, 0, len(args))
	for _, p := range args {
		reqs = append(reqs, clean.Request{Path: p, Recreate: cleanRecreate})
	}

	results := c.cleaner.DeleteBatch(cmd.Context(), reqs)

	var freed int64
	failures := 0
	for _, res := range results {
		switch res.Outcome {
		case entry.OutcomeSuccess:
			freed += res.Size
			note := ""
			if res.Privilege == entry.PrivilegeElevated {
				note = " (elevated)"
			}
			fmt.Printf("deleted  %10s  %s%s\n", humanize.Bytes(uint64(res.Size)), res.Path, note)
		case entry.OutcomePartial:
			failures++
			fmt.Printf("partial  %10s  %s: %s\n", humanize.Bytes(uint64(res.Size)), res.Path, res.Reason)
		default:
			failures++
			fmt.Printf("failed   %10s  %s: %s\n", "-", res.Path, res.Reason)
		}
	}
	fmt.Printf("\nFreed %s\n", humanize.Bytes(uint64(freed)))

	if failures > 0 {
		return fmt.Errorf("%d of %d deletions did not complete", failures, len(results))
	}
	return nil
}
