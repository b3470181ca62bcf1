package landing

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/session"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	revealAt     = 600 * time.Millisecond
)

type tickMsg time.Time

// LandingScreen is the public start page: banner, tagline and the way in.
type LandingScreen struct {
	state   session.State
	elapsed time.Duration
	menu    components.Menu
}

var _ screen.Screen = (*LandingScreen)(nil)
var _ screen.KeyHintProvider = (*LandingScreen)(nil)

// New creates the landing page. A signed-in session also gets a shortcut
// to its dashboard.
func New(st session.State) *LandingScreen {
	items := []components.MenuItem{
		{Label: "Log In", Hint: "existing account", Action: nav(guard.PathLogin)},
		{Label: "Sign Up", Hint: "new student account", Action: nav(guard.PathSignup)},
	}
	if home, ok := guard.HomeFor(st.Role); ok && st.Authenticated() {
		items = append([]components.MenuItem{
			{Label: "Go to dashboard", Hint: string(st.Role), Action: nav(home)},
		}, items...)
	}
	return &LandingScreen{state: st, menu: components.NewMenu(items)}
}

func nav(p guard.Path) func() tea.Cmd {
	return func() tea.Cmd { return router.Navigate(p, router.ModePush, nil) }
}

func (s *LandingScreen) Title() string {
	return ""
}

func (s *LandingScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *LandingScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (s *LandingScreen) revealed() bool {
	return s.elapsed >= revealAt
}

func (s *LandingScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if s.revealed() {
			return s, nil
		}
		s.elapsed += tickInterval
		return s, tick()

	case tea.KeyPressMsg:
		// The first key only skips the reveal.
		if !s.revealed() {
			s.elapsed = revealAt
			return s, nil
		}
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *LandingScreen) View(width, height int) string {
	sections := []string{RenderBanner(width)}

	if s.revealed() {
		sections = append(sections,
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).
				Render("Welcome to EduZ Quiz System"),
			theme.Hint.Render("Please log in or sign up to continue"),
			"",
			s.menu.View(),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
