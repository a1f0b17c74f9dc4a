package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/tmutil"
)

var snapshotsCmd = &cobra.Command{
	Use:   "snapshots",
	Short: "List local Time Machine snapshots holding deleted data",
	Long: `Deleted files can stay pinned on disk by local Time Machine
snapshots. This lists them; pass --delete with a stamp to thin one.`,
	RunE: runSnapshotsCmd,
}

var snapshotsDelete string

func init() {
	snapshotsCmd.Flags().StringVar(&snapshotsDelete, "delete", "", "Delete the snapshot with this timestamp stamp")
}

func runSnapshotsCmd(cmd *cobra.Command, args []string) error {
	if snapshotsDelete != "" {
		if err := tmutil.Delete(cmd.Context(), snapshotsDelete); err != nil {
			return err
		}
		fmt.Printf("Deleted snapshot %s\n", snapshotsDelete)
		return nil
	}

	snaps, err := tmutil.List(cmd.Context())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Println("No local snapshots.")
		return nil
	}
	for _, s := range snaps {
		fmt.Printf("%s  %s\n", s.Stamp, s.Name)
	}
	fmt.Printf("\n%d snapshot(s)\n", len(snaps))
	return nil
}
