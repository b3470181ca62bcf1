package login

import (
	"context"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/session"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

const (
	focusEmail = iota
	focusPassword
	focusSubmit
	focusSignup
	focusCount
)

type loginDoneMsg struct {
	Role session.Role
	Err  error
}

// LoginScreen collects credentials. After a successful login it continues
// to the page that sent the user here, when the new role may see it.
type LoginScreen struct {
	deps     *appctx.Deps
	from     guard.Path
	email    components.TextInput
	password components.TextInput
	focus    components.Focus
	busy     bool
	banner   components.Banner
}

var _ screen.Screen = (*LoginScreen)(nil)
var _ screen.KeyHintProvider = (*LoginScreen)(nil)

// New creates the login page. from is the page a guard redirect came
// from, or empty.
func New(deps *appctx.Deps, from guard.Path) *LoginScreen {
	s := &LoginScreen{
		deps:     deps,
		from:     from,
		email:    components.NewTextInput("Email", "you@example.com", 254),
		password: components.NewPasswordInput("Password"),
		focus:    components.Focus{N: focusCount},
	}
	if from != "" {
		s.banner = components.InfoBanner("Please log in to continue")
	}
	return s
}

func (s *LoginScreen) Init() tea.Cmd {
	return s.email.Focus()
}

func (s *LoginScreen) Title() string {
	return "Log In"
}

func (s *LoginScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Log in"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *LoginScreen) submit() tea.Cmd {
	email := strings.TrimSpace(s.email.Value())
	pw := s.password.Value()
	if email == "" || pw == "" {
		s.banner = components.ErrorBanner("Email and password are required")
		return nil
	}
	s.busy = true
	s.banner = components.Banner{}
	deps := s.deps
	return func() tea.Msg {
		role, err := deps.Login(context.Background(), email, pw)
		return loginDoneMsg{Role: role, Err: err}
	}
}

func (s *LoginScreen) refocus() tea.Cmd {
	s.email.Blur()
	s.password.Blur()
	switch s.focus.I {
	case focusEmail:
		return s.email.Focus()
	case focusPassword:
		return s.password.Focus()
	}
	return nil
}

func (s *LoginScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loginDoneMsg:
		s.busy = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Login failed"))
			s.password.SetValue("")
			return s, nil
		}
		target := guard.ResumeTarget(s.deps.Session.State(), s.from)
		return s, router.Navigate(target, router.ModeReset, nil)

	case tea.KeyMsg:
		if s.busy {
			return s, nil
		}
		if s.focus.Step(msg) {
			return s, s.refocus()
		}
		if msg.String() == "enter" {
			switch s.focus.I {
			case focusEmail:
				s.focus.I = focusPassword
				return s, s.refocus()
			case focusSignup:
				return s, router.Navigate(guard.PathSignup, router.ModeReplace, nil)
			default:
				return s, s.submit()
			}
		}
	}

	var cmd tea.Cmd
	switch s.focus.I {
	case focusEmail:
		s.email, cmd = s.email.Update(msg)
	case focusPassword:
		s.password, cmd = s.password.Update(msg)
	}
	return s, cmd
}

func (s *LoginScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	if cw > 56 {
		cw = 56
	}

	submit := components.NewButton("Log In", nil)
	submit.Active = s.focus.Is(focusSubmit)
	submit.Busy = s.busy
	signup := components.NewButton("Don't have an account? Sign Up", nil)
	signup.Active = s.focus.Is(focusSignup)

	var b strings.Builder
	b.WriteString(s.email.View())
	b.WriteString("\n\n")
	b.WriteString(s.password.View())
	b.WriteString("\n\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, submit.View(), "  ", signup.View()))

	body := components.Panel("Log In", b.String(), cw)
	if s.banner.Visible() {
		body = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), body)
	}
	return components.Page(theme.Body.Render(body), width, height)
}
