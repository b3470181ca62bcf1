package signup

import (
	"context"
	"strings"
	"time"
	"unicode"

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

const passwordNote = "At least 8 characters with an uppercase letter, a lowercase letter, a number and a special character."

// redirectDelay is how long the success message stays before the login page.
const redirectDelay = 1500 * time.Millisecond

const (
	focusName = iota
	focusEmail
	focusPassword
	focusSubmit
	focusLogin
	focusCount
)

type registeredMsg struct{ Err error }

type redirectMsg struct{}

// SignupScreen registers a new student account.
type SignupScreen struct {
	deps     *appctx.Deps
	inputs   [3]components.TextInput
	fieldErr [3]string
	focus    components.Focus
	busy     bool
	done     bool
	banner   components.Banner
}

var _ screen.Screen = (*SignupScreen)(nil)
var _ screen.KeyHintProvider = (*SignupScreen)(nil)

// New creates the signup page.
func New(deps *appctx.Deps) *SignupScreen {
	return &SignupScreen{
		deps: deps,
		inputs: [3]components.TextInput{
			components.NewTextInput("Name", "", 120),
			components.NewTextInput("Email", "you@example.com", 254),
			components.NewPasswordInput("Password"),
		},
		focus: components.Focus{N: focusCount},
	}
}

func (s *SignupScreen) Init() tea.Cmd {
	return s.inputs[focusName].Focus()
}

func (s *SignupScreen) Title() string {
	return "Sign Up"
}

func (s *SignupScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Enter", Description: "Sign up"},
		{Key: "Esc", Description: "Back"},
	}
}

// PasswordProblem returns why pw is too weak, or "".
func PasswordProblem(pw string) string {
	if len([]rune(pw)) < 8 {
		return "Minimum 8 characters"
	}
	var lower, upper, digit, special bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		default:
			special = true
		}
	}
	if !lower || !upper || !digit || !special {
		return "Password does not meet complexity requirements"
	}
	return ""
}

func (s *SignupScreen) validate() bool {
	s.fieldErr = [3]string{}
	if strings.TrimSpace(s.inputs[focusName].Value()) == "" {
		s.fieldErr[focusName] = "Name is required"
	}
	if strings.TrimSpace(s.inputs[focusEmail].Value()) == "" {
		s.fieldErr[focusEmail] = "Email is required"
	}
	if pw := s.inputs[focusPassword].Value(); pw == "" {
		s.fieldErr[focusPassword] = "Password is required"
	} else {
		s.fieldErr[focusPassword] = PasswordProblem(pw)
	}
	return s.fieldErr == [3]string{}
}

func (s *SignupScreen) submit() tea.Cmd {
	s.banner = components.Banner{}
	if !s.validate() {
		return nil
	}
	req := api.RegisterRequest{
		Name:     strings.TrimSpace(s.inputs[focusName].Value()),
		Email:    strings.TrimSpace(s.inputs[focusEmail].Value()),
		Password: s.inputs[focusPassword].Value(),
		Role:     string(session.RoleStudent),
	}
	s.busy = true
	client := s.deps.API
	return func() tea.Msg {
		_, err := client.Register(context.Background(), req)
		return registeredMsg{Err: err}
	}
}

func (s *SignupScreen) refocus() tea.Cmd {
	var cmd tea.Cmd
	for i := range s.inputs {
		if s.focus.Is(i) {
			cmd = s.inputs[i].Focus()
		} else {
			s.inputs[i].Blur()
		}
	}
	return cmd
}

func (s *SignupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case registeredMsg:
		s.busy = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Registration failed"))
			return s, nil
		}
		s.done = true
		s.banner = components.SuccessBanner("Registration successful! Redirecting...")
		return s, tea.Tick(redirectDelay, func(time.Time) tea.Msg { return redirectMsg{} })

	case redirectMsg:
		return s, router.Navigate(guard.PathLogin, router.ModeReplace, nil)

	case tea.KeyMsg:
		if s.busy || s.done {
			return s, nil
		}
		if s.focus.Step(msg) {
			return s, s.refocus()
		}
		if msg.String() == "enter" {
			switch {
			case s.focus.Is(focusLogin):
				return s, router.Navigate(guard.PathLogin, router.ModeReplace, nil)
			case s.focus.I < focusPassword:
				s.focus.I++
				return s, s.refocus()
			default:
				return s, s.submit()
			}
		}
	}

	if s.focus.I < len(s.inputs) {
		var cmd tea.Cmd
		s.inputs[s.focus.I], cmd = s.inputs[s.focus.I].Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *SignupScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 60)

	var b strings.Builder
	for i, in := range s.inputs {
		b.WriteString(in.View())
		b.WriteString("\n")
		switch {
		case s.fieldErr[i] != "":
			b.WriteString(theme.Incorrect.Render("  " + s.fieldErr[i]))
		case i == focusPassword:
			b.WriteString(theme.Hint.Render("  " + passwordNote))
		}
		b.WriteString("\n")
	}

	submit := components.NewButton("Sign Up", nil)
	submit.Active = s.focus.Is(focusSubmit)
	submit.Busy = s.busy
	login := components.NewButton("Already have an account? Log In", nil)
	login.Active = s.focus.Is(focusLogin)
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, submit.View(), "  ", login.View()))

	body := components.Panel("Sign Up", b.String(), cw)
	if s.banner.Visible() {
		body = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), body)
	}
	return components.Page(body, width, height)
}
