package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Colors
	primaryColor = lipgloss.Color("#7C3AED")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	cyanColor    = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 2)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 2)

	doneStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Strikethrough(true)

	mutedStyle = lipgloss.NewStyle().Foreground(mutedColor)

	activeFilterStyle = lipgloss.NewStyle().
				Foreground(cyanColor).
				Bold(true).
				Underline(true)

	errorTextStyle = lipgloss.NewStyle().Foreground(errorColor)

	dialogStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(primaryColor).
			Padding(1, 2)

	labelStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Bold(true)

	buttonStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Padding(0, 2)

	busyButtonStyle = lipgloss.NewStyle().
			Background(mutedColor).
			Foreground(fgColor).
			Padding(0, 2)

	successToastStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(successColor).
				Foreground(successColor).
				Padding(0, 1)

	errorToastStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(errorColor).
			Foreground(errorColor).
			Padding(0, 1)

	progressStyle = lipgloss.NewStyle().Foreground(warningColor)
)
