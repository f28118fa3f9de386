package styles

import "github.com/charmbracelet/lipgloss"

// Panel returns the bordered style used for the track list and player bar.
func Panel(focused bool) lipgloss.Style {
	border := T().Border
	if focused {
		border = T().BorderFocus
	}
	return lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(border)
}
