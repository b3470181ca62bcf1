// Package layout draws the frame around every page: header, footer and the
// too-small notice.
package layout

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/ui/theme"
)

const (
	MinWidth  = 80
	MinHeight = 24
)

// KeyHint represents a key binding hint shown in the footer.
type KeyHint struct {
	Key         string
	Description string
}

// IsTooSmall returns true if the terminal is below minimum size.
func IsTooSmall(width, height int) bool {
	return width < MinWidth || height < MinHeight
}

// RenderMinSizeMessage renders the "terminal too small" message.
func RenderMinSizeMessage(width, height int) string {
	return lipgloss.NewStyle().
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.Text).
		Width(width).
		Height(height).
		Render(fmt.Sprintf(
			"The window is too small for EduZ.\n\nNeeds %d x %d, got %d x %d.",
			MinWidth, MinHeight, width, height,
		))
}

// Account is the right-hand badge of the header.
type Account struct {
	Label    string // role name, "signed in" or "signed out"
	SignedIn bool
}

var bar = lipgloss.NewStyle().
	Background(theme.BgCard).
	Border(lipgloss.RoundedBorder()).
	BorderForeground(theme.Border)

// RenderHeader renders the brand on the left, the page title centered and
// the account badge on the right.
func RenderHeader(title string, acct Account, width int) string {
	brand := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render("  EduZ")
	center := lipgloss.NewStyle().Foreground(theme.Text).Render(title)

	badge := lipgloss.NewStyle().Foreground(theme.TextDim).Render("○ " + acct.Label)
	if acct.SignedIn {
		badge = lipgloss.NewStyle().Foreground(theme.Accent).Render("● " + acct.Label)
	}

	inner := max(width-4, 0)
	bw, cw, aw := lipgloss.Width(brand), lipgloss.Width(center), lipgloss.Width(badge)
	leftGap := max((inner-cw)/2-bw, 1)
	rightGap := max(inner-bw-leftGap-cw-aw, 1)

	content := brand + strings.Repeat(" ", leftGap) + center + strings.Repeat(" ", rightGap) + badge
	return bar.Width(width).Render(content)
}

// RenderFooter renders the key hints, dropping trailing ones that would
// overflow the bar.
func RenderFooter(hints []KeyHint, width int) string {
	const sep = "   "
	room := width - 6
	var b strings.Builder
	b.WriteString("  ")
	used := 0
	for i, h := range hints {
		part := lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(h.Key) +
			" " + lipgloss.NewStyle().Foreground(theme.TextDim).Render(h.Description)
		w := lipgloss.Width(part)
		if i > 0 {
			w += len(sep)
		}
		if used+w > room {
			break
		}
		if i > 0 {
			b.WriteString(sep)
		}
		b.WriteString(part)
		used += w
	}
	return bar.Width(width).Render(b.String())
}

// RenderFrame stacks header, content and footer, giving content whatever
// height is left.
func RenderFrame(header, content, footer string, width, height int) string {
	h := max(height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	body := lipgloss.NewStyle().Width(width).Height(h).Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}
