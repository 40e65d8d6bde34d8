package gui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("63"))

	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("252"))

	ruleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("238"))

	reasonFinished = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))

	reasonInterrupted = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	reasonNoneFound = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Background(lipgloss.Color("236"))

	helpStyle = lipgloss.NewStyle().
			Faint(true)

	detailStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2)
)
