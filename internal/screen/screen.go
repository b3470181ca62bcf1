// Package screen defines the contract between the app model and its pages.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/ui/layout"
)

// Screen is one page of the client. Pages own their state and receive
// every message the app does not handle itself.
type Screen interface {
	// Init starts the page's first load, if any.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between header and footer.
	View(width, height int) string

	// Title is shown centered in the header.
	Title() string
}

// KeyHintProvider replaces the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// EscapeCapturer is implemented by screens that sometimes need esc for
// themselves, e.g. to close an open dropdown or an inline input. While
// CapturesEscape reports true the app forwards esc to the screen instead
// of going back.
type EscapeCapturer interface {
	CapturesEscape() bool
}
