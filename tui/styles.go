// ABOUTME: Defines lipgloss styles for the browser panels, selection cursor, and status bar.
package tui

import "github.com/charmbracelet/lipgloss"

var (
	// Panel borders
	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
	FocusedBorderStyle = BorderStyle.
				BorderForeground(lipgloss.Color("62"))

	// Title styling
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("170"))

	// Member list
	SelectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	MutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	ErrorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	// Status bar
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("252")).
			Padding(0, 1)
)

func borderFor(focused bool) lipgloss.Style {
	if focused {
		return FocusedBorderStyle
	}
	return BorderStyle
}
