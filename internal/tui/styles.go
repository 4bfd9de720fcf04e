package tui

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles of the player view
type Styles struct {
	Word        lipgloss.Style
	Translation lipgloss.Style
	Position    lipgloss.Style
	Info        lipgloss.Style
	Error       lipgloss.Style
	Muted       lipgloss.Style
	Card        lipgloss.Style
}

// DefaultStyles returns the default styles
func DefaultStyles() Styles {
	return Styles{
		Word: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")),
		Translation: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#7D56F4")),
		Position: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A0A0A0")),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#04B575")),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5F87")),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4")).
			Padding(1, 4),
	}
}
