package tui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#14F195"))

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9945FF"))

	cursorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFFFFF")).
			Background(lipgloss.Color("#3C3C64"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#14F195"))

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7F849C"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F38BA8"))

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#F9E2AF")).
			Padding(1, 2)
)
