package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/macsweep/macsweep/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Browse scan results interactively and delete from the list",
	RunE:  runTUICmd,
}

var tuiWorkers int

func init() {
	tuiCmd.Flags().IntVarP(&tuiWorkers, "workers", "w", 0, "Number of walker goroutines (0 = default)")
}

func runTUICmd(cmd *cobra.Command, args []string) error {
	c, err := openCore(tuiWorkers)
	if err != nil {
		return err
	}
	defer c.Close()

	model := tui.NewModel(c.scanner, c.cleaner, c.history)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
