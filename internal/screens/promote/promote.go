// Package promote lets an admin raise account roles.
package promote

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/session"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

type usersMsg struct {
	Users []api.User
	Err   error
}

type promotedMsg struct {
	User *api.User
	Err  error
}

// PromoteScreen lists accounts; enter promotes the highlighted one a step.
type PromoteScreen struct {
	deps    *appctx.Deps
	users   []api.User
	cursor  int
	loading bool
	busy    bool
	banner  components.Banner
}

var _ screen.Screen = (*PromoteScreen)(nil)
var _ screen.KeyHintProvider = (*PromoteScreen)(nil)

// New creates the promote page.
func New(deps *appctx.Deps) *PromoteScreen {
	return &PromoteScreen{deps: deps, loading: true}
}

func (s *PromoteScreen) Init() tea.Cmd {
	return s.load()
}

func (s *PromoteScreen) load() tea.Cmd {
	s.loading = true
	client, deps := s.deps.API, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		users, err := client.ListUsers(ctx)
		deps.Expire(ctx, err)
		return usersMsg{Users: users, Err: err}
	}
}

func (s *PromoteScreen) Title() string {
	return "Promote Users"
}

func (s *PromoteScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Promote"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PromoteScreen) promote() tea.Cmd {
	if s.busy || s.cursor >= len(s.users) {
		return nil
	}
	u := s.users[s.cursor]
	next, ok := session.Promotion(session.ParseRole(u.Role))
	if !ok {
		s.banner = components.InfoBanner(fmt.Sprintf("%s cannot be promoted further", u.Email))
		return nil
	}
	s.busy = true
	client, deps := s.deps.API, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		updated, err := client.PromoteUser(ctx, u.ID, string(next))
		deps.Expire(ctx, err)
		return promotedMsg{User: updated, Err: err}
	}
}

func (s *PromoteScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case usersMsg:
		s.loading = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to load users"))
			return s, nil
		}
		s.users = msg.Users
		s.cursor = min(s.cursor, max(len(s.users)-1, 0))
		return s, nil

	case promotedMsg:
		s.busy = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Promotion failed"))
			return s, nil
		}
		for i, u := range s.users {
			if u.ID == msg.User.ID {
				s.users[i] = *msg.User
			}
		}
		s.banner = components.SuccessBanner(fmt.Sprintf("%s is now %s", msg.User.Email, article(msg.User.Role)))
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.users)-1 {
				s.cursor++
			}
		case "enter":
			return s, s.promote()
		case "r":
			if !s.loading {
				return s, s.load()
			}
		}
	}
	return s, nil
}

func article(role string) string {
	if strings.HasPrefix(role, "a") {
		return "an " + role
	}
	return "a " + role
}

func (s *PromoteScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var b strings.Builder
	switch {
	case s.loading && len(s.users) == 0:
		b.WriteString(theme.Hint.Render("Loading users..."))
	case len(s.users) == 0:
		b.WriteString(theme.Hint.Render("No users found."))
	default:
		b.WriteString(theme.Label.Render(fmt.Sprintf("  %-20s %-28s %-9s %s", "Name", "Email", "Role", "Action")))
		for i, u := range s.users {
			action := "—"
			if next, ok := session.Promotion(session.ParseRole(u.Role)); ok {
				action = "Promote to " + string(next)
			}
			line := fmt.Sprintf("%-20s %-28s %-9s %s", clip(u.Name, 20), clip(u.Email, 28), u.Role, action)
			b.WriteString("\n")
			if i == s.cursor {
				b.WriteString(theme.Selected.Render("▸ " + line))
			} else {
				b.WriteString(theme.Body.Render("  " + line))
			}
		}
	}
	if s.busy {
		b.WriteString("\n\n" + theme.Hint.Render("Promoting..."))
	}

	body := components.Panel("Users", b.String(), cw)
	if s.banner.Visible() {
		body = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), body)
	}
	return components.Page(body, width, height)
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
