package tui

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/macsweep/macsweep/internal/entry"
)

// View implements tea.Model.
func (m *Model) View() string {
	if m.err != nil {
		return fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err)
	}

	switch m.state {
	case stateScanning:
		return fmt.Sprintf("\n  %s Scanning...\n\n  %s\n",
			m.spinner.View(), helpStyle.Render("q: quit"))
	case stateHistory:
		return m.viewHistory()
	default:
		return m.viewBrowse()
	}
}

func (m *Model) viewBrowse() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("macsweep"))
	b.WriteString("\n")

	// Breadcrumbs down the drill stack.
	crumbs := make([]string, 0, len(m.stack))
	for _, lv := range m.stack {
		crumbs = append(crumbs, lv.title)
	}
	b.WriteString(breadcrumbStyle.Render(truncateMiddle(strings.Join(crumbs, " > "), max(10, m.width-2))))
	b.WriteString("\n\n")

	lv := m.top()
	if len(lv.entries) == 0 {
		b.WriteString(statusStyle.Render("Nothing large enough to show here."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.renderEntries(lv))
	}

	b.WriteString("\n")
	if m.state == stateConfirm && m.pendingDelete != nil {
		q := fmt.Sprintf("Delete %s (%s, %s)? [y/n]",
			m.pendingDelete.Name,
			FormatSize(m.pendingDelete.Size),
			riskWord(m.pendingDelete.Label.Risk))
		b.WriteString(confirmStyle.Render(q))
		b.WriteString("\n")
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) renderEntries(lv *level) string {
	var b strings.Builder

	sizeW, itemsW := 8, 6
	for _, e := range lv.entries {
		if w := len(FormatSize(e.Size)); w > sizeW {
			sizeW = w
		}
		if w := len(FormatCount(e.Items)); w > itemsW {
			itemsW = w
		}
	}

	header := fmt.Sprintf("%*s  %*s  %-8s  %s", sizeW, "SIZE", itemsW, "ITEMS", "RISK", "NAME")
	b.WriteString(headerStyle.Render(header))
	b.WriteString("\n")

	visible := m.height - 10
	if visible < 5 {
		visible = 5
	}
	start := 0
	if lv.cursor >= visible {
		start = lv.cursor - visible + 1
	}
	end := min(len(lv.entries), start+visible)

	for i := start; i < end; i++ {
		e := lv.entries[i]
		name := e.Name
		if e.IsDir {
			name += "/"
		}
		if e.Partial {
			name += " *"
		}
		nameWidth := max(minNameWidth, m.width-sizeW-itemsW-16)
		name = truncateRight(name, nameWidth)

		line := fmt.Sprintf("%*s  %*s  %-8s  %s",
			sizeW, FormatSize(e.Size),
			itemsW, FormatCount(e.Items),
			riskWord(e.Label.Risk),
			name,
		)
		if i == lv.cursor {
			b.WriteString(selectedStyle.Render(line))
		} else {
			b.WriteString(riskStyle(e.Label.Risk).Render(line))
		}
		b.WriteString("\n")
	}

	if sel := m.selected(); sel != nil && sel.Label.Description != "" {
		b.WriteString("\n")
		b.WriteString(statusStyle.Render(truncateRight(sel.Label.Description, max(10, m.width-2))))
		b.WriteString("\n")
	}
	return b.String()
}

func (m *Model) viewHistory() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Deletion history"))
	b.WriteString("\n")

	summary := fmt.Sprintf("Freed %s across %d deletions | this month: %s across %d",
		FormatSize(m.stats.TotalBytes), m.stats.TotalDeleted,
		FormatSize(m.stats.MonthBytes), m.stats.MonthDeleted)
	b.WriteString(statsStyle.Render(summary))
	b.WriteString("\n\n")

	if len(m.records) == 0 {
		b.WriteString(statusStyle.Render("Nothing deleted yet."))
		b.WriteString("\n")
	}
	for _, r := range m.records {
		line := fmt.Sprintf("%-9s %9s  %s  %s",
			string(r.Outcome),
			FormatSize(r.Size),
			humanize.Time(r.Timestamp),
			truncateMiddle(r.Path, max(20, m.width-40)),
		)
		b.WriteString(outcomeStyle(r.Outcome).Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render(m.helpLine()))
	return b.String()
}

func riskWord(r entry.Risk) string {
	if r == "" {
		return "?"
	}
	return string(r)
}

const minNameWidth = 10

func truncateRight(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}

func truncateMiddle(s string, maxLen int) string {
	if maxLen <= 0 || len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	head := (maxLen - 3) / 2
	tail := maxLen - 3 - head
	return s[:head] + "..." + s[len(s)-tail:]
}
