package promote

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/appctx/appctxtest"
)

func loaded(t *testing.T, b *appctxtest.Backend) *PromoteScreen {
	t.Helper()
	deps := appctxtest.Deps(t, b)
	if _, err := deps.Login(context.Background(), "admin@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	s := New(deps)
	s.Update(s.Init()())
	return s
}

func enter(s *PromoteScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestListsUsersWithNextRole(t *testing.T) {
	s := loaded(t, appctxtest.NewBackend())
	view := s.View(120, 30)
	for _, want := range []string{"student@example.com", "Promote to teacher", "Promote to admin"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestPromoteStudent(t *testing.T) {
	b := appctxtest.NewBackend()
	s := loaded(t, b)

	cmd := enter(s)
	if cmd == nil {
		t.Fatal("expected promote command")
	}
	s.Update(cmd())

	if u, _ := b.User("student@example.com"); u.Role != "teacher" {
		t.Errorf("backend role = %q", u.Role)
	}
	if s.users[0].Role != "teacher" {
		t.Error("list should reflect the new role")
	}
	if !strings.Contains(s.banner.Text, "now a teacher") {
		t.Errorf("banner = %q", s.banner.Text)
	}
}

func TestAdminCannotBePromoted(t *testing.T) {
	s := loaded(t, appctxtest.NewBackend())
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})

	if cmd := enter(s); cmd != nil {
		t.Error("admins have no further role")
	}
	if !strings.Contains(s.banner.Text, "cannot be promoted") {
		t.Errorf("banner = %q", s.banner.Text)
	}
}
