package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/ui/theme"
)

// QuizProgress draws one cell per question: answered cells filled, the
// current one highlighted.
type QuizProgress struct {
	Answered []bool
	Current  int // zero-based
	Width    int
}

// View renders "Question c of t", the cells and the answered count.
func (p QuizProgress) View() string {
	total := len(p.Answered)
	if total == 0 {
		return ""
	}
	done := 0
	for _, a := range p.Answered {
		if a {
			done++
		}
	}

	label := lipgloss.NewStyle().Foreground(theme.Text).
		Render(fmt.Sprintf("Question %d of %d", p.Current+1, total))
	count := lipgloss.NewStyle().Foreground(theme.TextDim).
		Render(fmt.Sprintf("%d/%d answered", done, total))

	// Two columns per cell; fall back to a plain bar when they don't fit.
	room := p.Width - lipgloss.Width(label) - lipgloss.Width(count) - 4
	var cells string
	if room >= total*2 {
		var b strings.Builder
		for i, a := range p.Answered {
			style := lipgloss.NewStyle().Foreground(theme.Border)
			mark := "□"
			if a {
				style = style.Foreground(theme.Secondary)
				mark = "■"
			}
			if i == p.Current {
				style = style.Foreground(theme.Primary).Bold(true)
			}
			b.WriteString(style.Render(mark) + " ")
		}
		cells = strings.TrimSuffix(b.String(), " ")
	} else if room > 0 {
		filled := room * done / total
		cells = lipgloss.NewStyle().Background(theme.Secondary).Render(strings.Repeat(" ", filled)) +
			lipgloss.NewStyle().Background(theme.Border).Render(strings.Repeat(" ", room-filled))
	}

	return label + "  " + cells + "  " + count
}
