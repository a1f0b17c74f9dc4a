package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/macsweep/macsweep/internal/entry"
)

var (
	// Colors
	colorPrimary   = lipgloss.Color("39")  // Blue
	colorSecondary = lipgloss.Color("245") // Gray
	colorSafe      = lipgloss.Color("76")  // Green
	colorModerate  = lipgloss.Color("214") // Orange
	colorCaution   = lipgloss.Color("203") // Red
	colorMuted     = lipgloss.Color("240") // Dark gray

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			MarginBottom(1)

	breadcrumbStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorMuted).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(colorMuted)

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorPrimary)

	safeStyle     = lipgloss.NewStyle().Foreground(colorSafe)
	moderateStyle = lipgloss.NewStyle().Foreground(colorModerate)
	cautionStyle  = lipgloss.NewStyle().Foreground(colorCaution)
	plainStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))

	confirmStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCaution)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(colorPrimary)

	helpStyle = lipgloss.NewStyle().
			Foreground(colorMuted).
			MarginTop(1)

	statusStyle = lipgloss.NewStyle().
			Foreground(colorSecondary)

	statsStyle = lipgloss.NewStyle().
			Foreground(colorSecondary).
			MarginBottom(1)
)

func riskStyle(r entry.Risk) lipgloss.Style {
	switch r {
	case entry.RiskSafe:
		return safeStyle
	case entry.RiskModerate:
		return moderateStyle
	case entry.RiskCaution:
		return cautionStyle
	}
	return plainStyle
}

func outcomeStyle(o entry.Outcome) lipgloss.Style {
	switch o {
	case entry.OutcomeSuccess:
		return safeStyle
	case entry.OutcomePartial:
		return moderateStyle
	}
	return cautionStyle
}

// FormatSize formats a byte count for display.
func FormatSize(bytes int64) string {
	return humanize.Bytes(uint64(bytes))
}

// FormatCount formats a count for display.
func FormatCount(n int64) string {
	return humanize.Comma(n)
}
