// Package render draws terminal views with lipgloss.
package render

import "github.com/charmbracelet/lipgloss"

// Palette
var (
	Primary = lipgloss.Color("#8BC34A")
	Accent  = lipgloss.Color("#2196F3")
	Muted   = lipgloss.Color("#6b7280")
	Good    = lipgloss.Color("#8BC34A")
	Warn    = lipgloss.Color("#FFC107")
	Bad     = lipgloss.Color("#e53935")
)

// Styles groups the lipgloss styles used by every view.
type Styles struct {
	Title   lipgloss.Style
	Bold    lipgloss.Style
	Body    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Box     lipgloss.Style
}

// DefaultStyles returns the colored style set.
func DefaultStyles() Styles {
	return Styles{
		Title:   lipgloss.NewStyle().Bold(true).Foreground(Primary).MarginBottom(1),
		Bold:    lipgloss.NewStyle().Bold(true),
		Body:    lipgloss.NewStyle(),
		Muted:   lipgloss.NewStyle().Foreground(Muted),
		Success: lipgloss.NewStyle().Foreground(Good),
		Warning: lipgloss.NewStyle().Foreground(Warn),
		Error:   lipgloss.NewStyle().Foreground(Bad).Bold(true),
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Accent).
			Padding(0, 1),
	}
}

// PlainStyles returns styles without colors or decoration, for piping.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Title:   plain,
		Bold:    plain,
		Body:    plain,
		Muted:   plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Box:     plain,
	}
}
