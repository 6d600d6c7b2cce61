package tui

import "github.com/charmbracelet/lipgloss"

var (
	primaryColor = lipgloss.Color("#E8A87C") // warm orange
	warningColor = lipgloss.Color("#F6AE2D") // amber warning
	errorColor   = lipgloss.Color("#E85D75") // soft red
	mutedColor   = lipgloss.Color("#6B7280") // gray
	textColor    = lipgloss.Color("#F3F4F6") // light text

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	promptStyle = lipgloss.NewStyle().
			Foreground(warningColor).
			Bold(true).
			MarginTop(1)

	warningBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(textColor).
			Padding(0, 2)

	cancelledStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true).
			MarginTop(1)

	iconWarning = "⚠"
	iconError   = "✗"
)
