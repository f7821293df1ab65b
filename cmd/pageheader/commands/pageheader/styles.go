package pageheader

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/contentmigrate/pageheader/migrate"
)

const (
	colorGreen       = "#10B981"
	colorYellow      = "#F59E0B"
	colorRed         = "#EF4444"
	colorThemePurple = "#7C3AED"
	colorDetailGray  = "#9CA3AF"
	colorWhite       = "#FFFFFF"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(colorThemePurple))

	statLabel = lipgloss.NewStyle().
			Width(18).
			Foreground(lipgloss.Color(colorDetailGray))

	statValue = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorWhite)).
			Bold(true)

	statGood = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorGreen)).
			Bold(true)

	statWarning = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorYellow)).
			Bold(true)

	statError = lipgloss.NewStyle().
			Foreground(lipgloss.Color(colorRed)).
			Bold(true)

	summaryBox = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(colorThemePurple)).
			Padding(0, 1)
)

// renderSummary renders the outcome counts of a batch run.
func renderSummary(s migrate.Summary, total int) string {
	row := func(label string, n int, style lipgloss.Style) string {
		if n == 0 {
			style = statValue
		}
		return lipgloss.JoinHorizontal(lipgloss.Top, statLabel.Render(label), style.Render(fmt.Sprint(n)))
	}

	return summaryBox.Render(lipgloss.JoinVertical(lipgloss.Left,
		titleStyle.Render(fmt.Sprintf("Header migration: %d pages", total)),
		row("Custom header", s.Custom, statGood),
		row("Image fallback", s.CustomFallback, statWarning),
		row("Default header", s.Default, statValue),
		row("Header removed", s.Removed, statValue),
		row("Failed", s.Failed, statError),
	))
}
