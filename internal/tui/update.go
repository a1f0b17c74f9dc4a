package tui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/macsweep/macsweep/internal/clean"
	"github.com/macsweep/macsweep/internal/entry"
)

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case spinner.TickMsg:
		if m.state != stateScanning {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case scanDoneMsg:
		m.stack = []level{{title: "Scan results", entries: msg.entries}}
		m.state = stateBrowse
		return m, nil

	case childrenMsg:
		if msg.err != nil {
			m.status = statusForError(msg.err)
			return m, nil
		}
		m.stack = append(m.stack, level{path: msg.path, title: msg.title, entries: msg.children})
		// Keep a delete-result status visible through the re-list.
		if strings.HasPrefix(m.status, "Listing") {
			m.status = ""
		}
		return m, nil

	case deleteDoneMsg:
		m.pendingDelete = nil
		m.state = stateBrowse
		if len(msg.results) == 1 {
			m.status = statusForResult(msg.results[0])
		}
		// Re-list the current level so freed entries disappear.
		if lv := m.top(); lv.path != "" {
			parent := *lv
			m.stack = m.stack[:len(m.stack)-1]
			return m, m.drillInto(entry.FolderEntry{Path: parent.path, Name: parent.title})
		}
		m.state = stateScanning
		return m, tea.Batch(m.spinner.Tick, m.runScan)

	case historyMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.records = msg.records
		m.stats = msg.stats
		m.state = stateHistory
		return m, nil
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.state {
	case stateScanning:
		if key == "q" {
			return m, tea.Quit
		}
		return m, nil

	case stateConfirm:
		switch key {
		case "y", "Y":
			if m.pendingDelete != nil {
				target := *m.pendingDelete
				m.status = "Deleting " + target.Name + "..."
				return m, m.runDelete(target)
			}
			m.state = stateBrowse
			return m, nil
		case "n", "N", "esc", "q":
			m.pendingDelete = nil
			m.state = stateBrowse
			return m, nil
		}
		return m, nil

	case stateHistory:
		switch key {
		case "q":
			return m, tea.Quit
		case "backspace", "esc", "h", "left":
			m.state = stateBrowse
			return m, nil
		}
		return m, nil
	}

	// stateBrowse
	switch key {
	case "q":
		return m, tea.Quit

	case "up", "k":
		if lv := m.top(); lv.cursor > 0 {
			lv.cursor--
		}
		return m, nil

	case "down", "j":
		if lv := m.top(); lv.cursor < len(lv.entries)-1 {
			lv.cursor++
		}
		return m, nil

	case "enter", "l", "right":
		sel := m.selected()
		if sel == nil || !sel.IsDir || !sel.HasChildren || sel.Path == "" {
			return m, nil
		}
		m.status = "Listing " + sel.Name + "..."
		return m, m.drillInto(*sel)

	case "backspace", "left":
		if len(m.stack) > 1 {
			m.stack = m.stack[:len(m.stack)-1]
			m.status = ""
		}
		return m, nil

	case "d", "x":
		sel := m.selected()
		if sel == nil || sel.Path == "" {
			return m, nil
		}
		m.pendingDelete = sel
		m.state = stateConfirm
		return m, nil

	case "h":
		return m, m.loadHistory

	case "r":
		m.state = stateScanning
		m.status = ""
		return m, tea.Batch(m.spinner.Tick, m.runScan)

	case "home", "g":
		m.top().cursor = 0
		return m, nil

	case "end", "G":
		if lv := m.top(); len(lv.entries) > 0 {
			lv.cursor = len(lv.entries) - 1
		}
		return m, nil
	}

	return m, nil
}

func statusForError(err error) string {
	switch {
	case errors.Is(err, entry.ErrSecurityRejected):
		return "Refused: path is outside the allowed roots"
	case errors.Is(err, entry.ErrNotFound):
		return "Gone: folder no longer exists, rescan with r"
	default:
		return "Error: " + err.Error()
	}
}

func statusForResult(res clean.Result) string {
	switch res.Outcome {
	case entry.OutcomeSuccess:
		note := ""
		if res.Privilege == entry.PrivilegeElevated {
			note = " (elevated)"
		}
		return fmt.Sprintf("Deleted %s, freed %s%s", res.Path, FormatSize(res.Size), note)
	case entry.OutcomePartial:
		return "Partially deleted: " + res.Reason
	default:
		return "Delete failed: " + res.Reason
	}
}
