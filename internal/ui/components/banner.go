package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/ui/theme"
)

// BannerKind selects the banner color.
type BannerKind int

const (
	BannerError BannerKind = iota
	BannerSuccess
	BannerInfo
)

// Banner is a dismissible one-line message. The zero value shows nothing.
type Banner struct {
	Kind BannerKind
	Text string
}

// ErrorBanner returns an error banner.
func ErrorBanner(text string) Banner { return Banner{Kind: BannerError, Text: text} }

// SuccessBanner returns a success banner.
func SuccessBanner(text string) Banner { return Banner{Kind: BannerSuccess, Text: text} }

// InfoBanner returns an informational banner.
func InfoBanner(text string) Banner { return Banner{Kind: BannerInfo, Text: text} }

// Visible reports whether the banner has text.
func (b Banner) Visible() bool { return b.Text != "" }

// View renders the banner at width, or "" when empty.
func (b Banner) View(width int) string {
	if b.Text == "" {
		return ""
	}
	var style lipgloss.Style
	switch b.Kind {
	case BannerSuccess:
		style = theme.SuccessBanner
	case BannerInfo:
		style = theme.InfoBanner
	default:
		style = theme.ErrorBanner
	}
	return style.Width(width).Render(b.Text)
}
