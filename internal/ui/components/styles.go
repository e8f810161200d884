package components

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor    = lipgloss.Color("#7C3AED")
	errorBackground = lipgloss.Color("#991B1B")
	barBackground   = lipgloss.Color("#374151")
	backgroundColor = lipgloss.Color("#1F2937")
	foregroundColor = lipgloss.Color("#F9FAFB")
)

var (
	StatusBarStyle = lipgloss.NewStyle().
			Foreground(foregroundColor).
			Background(barBackground)

	StatusBarErrorStyle = StatusBarStyle.
				Background(errorBackground)

	CommandBarStyle = lipgloss.NewStyle().
			Foreground(foregroundColor).
			Background(backgroundColor).
			Border(lipgloss.NormalBorder(), true, false, false, false).
			BorderForeground(primaryColor)

	OverlayStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)
)
