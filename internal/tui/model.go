package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/macsweep/macsweep/internal/clean"
	"github.com/macsweep/macsweep/internal/entry"
	"github.com/macsweep/macsweep/internal/history"
	"github.com/macsweep/macsweep/internal/scan"
)

// viewState names the screen currently shown.
type viewState int

const (
	stateScanning viewState = iota
	stateBrowse
	stateConfirm
	stateHistory
)

// level is one step of the drill-down stack. The bottom level holds
// the scan roots; deeper levels hold drill-down listings.
type level struct {
	path    string // empty at the root level
	title   string
	entries []entry.FolderEntry
	cursor  int
}

// Model holds the TUI state.
type Model struct {
	scanner *scan.Scanner
	cleaner *clean.Cleaner
	log     *history.Log

	state   viewState
	spinner spinner.Model
	stack   []level

	pendingDelete *entry.FolderEntry
	records       []entry.DeletionRecord
	stats         history.Stats

	width  int
	height int
	status string
	err    error
}

// NewModel wires the TUI to the core subsystems.
func NewModel(sc *scan.Scanner, cl *clean.Cleaner, lg *history.Log) *Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = spinnerStyle
	return &Model{
		scanner: sc,
		cleaner: cl,
		log:     lg,
		state:   stateScanning,
		spinner: sp,
	}
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.runScan)
}

type scanDoneMsg struct {
	entries []entry.FolderEntry
}

type childrenMsg struct {
	path     string
	title    string
	children []entry.FolderEntry
	err      error
}

type deleteDoneMsg struct {
	results []clean.Result
}

type historyMsg struct {
	records []entry.DeletionRecord
	stats   history.Stats
	err     error
}

func (m *Model) runScan() tea.Msg {
	return scanDoneMsg{entries: m.scanner.Scan()}
}

func (m *Model) drillInto(e entry.FolderEntry) tea.Cmd {
	return func() tea.Msg {
		children, err := m.scanner.DrillDown(e.Path)
		return childrenMsg{path: e.Path, title: e.Name, children: children, err: err}
	}
}

func (m *Model) runDelete(e entry.FolderEntry) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		results := m.cleaner.DeleteBatch(ctx, []clean.Request{{Path: e.Path}})
		return deleteDoneMsg{results: results}
	}
}

func (m *Model) loadHistory() tea.Msg {
	records, err := m.log.Recent(50)
	if err != nil {
		return historyMsg{err: err}
	}
	stats, err := m.log.Stats(time.Now())
	return historyMsg{records: records, stats: stats, err: err}
}

// top returns the current drill level. Callers must not hold the
// pointer across stack mutations.
func (m *Model) top() *level {
	return &m.stack[len(m.stack)-1]
}

func (m *Model) selected() *entry.FolderEntry {
	lv := m.top()
	if len(lv.entries) == 0 || lv.cursor >= len(lv.entries) {
		return nil
	}
	return &lv.entries[lv.cursor]
}

func (m *Model) helpLine() string {
	switch m.state {
	case stateConfirm:
		return "y: delete | n/esc: cancel"
	case stateHistory:
		return "backspace/esc: back | q: quit"
	default:
		return "↑/↓ move | Enter: open | Backspace: close | d: delete | h: history | r: rescan | q: quit"
	}
}
