package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/ui/theme"
)

// ContentWidth returns the uniform inner width used for page sections, so
// stacked cards line up.
func ContentWidth(frameWidth int) int {
	w := frameWidth - 6
	if w > 72 {
		w = 72
	}
	if w < 20 {
		w = 20
	}
	return w
}

// Page centers content in the given area.
func Page(content string, width, height int) string {
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}

// Panel wraps content in a titled rounded card of content width cw.
func Panel(title, content string, cw int) string {
	body := content
	if title != "" {
		body = theme.Selected.Render(title) + "\n\n" + content
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Padding(0, 2).
		Render(body)
}

// StatCard renders a small label/value box used on dashboards.
func StatCard(label, value string, width int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(width).
		Align(lipgloss.Center).
		Render(theme.Hint.Render(label) + "\n" +
			lipgloss.NewStyle().Foreground(theme.Accent).Bold(true).Render(value))
}
