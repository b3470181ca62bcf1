package login

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/appctx/appctxtest"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
)

func typeText(s *LoginScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func enter(s *LoginScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

// fillAndSubmit types the credentials and returns the login command.
func fillAndSubmit(s *LoginScreen, email, pw string) tea.Cmd {
	s.Init()
	typeText(s, email)
	enter(s) // moves to password
	typeText(s, pw)
	return enter(s)
}

func TestLoginNavigatesToRoleDashboard(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, "")

	cmd := fillAndSubmit(s, "student@example.com", "secret")
	if cmd == nil {
		t.Fatal("expected login command")
	}
	_, cmd = s.Update(cmd())
	nav, ok := cmd().(router.NavigateMsg)
	if !ok {
		t.Fatalf("expected navigation, got %T", cmd())
	}
	if nav.Path != guard.PathStudentDashboard || nav.Mode != router.ModeReset {
		t.Errorf("got %q mode %d", nav.Path, nav.Mode)
	}
}

func TestLoginResumesBlockedPage(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, guard.PathAddQuestions)

	cmd := fillAndSubmit(s, "teacher@example.com", "secret")
	_, cmd = s.Update(cmd())
	nav := cmd().(router.NavigateMsg)
	if nav.Path != guard.PathAddQuestions {
		t.Errorf("expected resume at %q, got %q", guard.PathAddQuestions, nav.Path)
	}
}

func TestLoginResumeIgnoredForWrongRole(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, guard.PathPromote)

	cmd := fillAndSubmit(s, "teacher@example.com", "secret")
	_, cmd = s.Update(cmd())
	nav := cmd().(router.NavigateMsg)
	if nav.Path != guard.PathTeacherDashboard {
		t.Errorf("expected teacher dashboard, got %q", nav.Path)
	}
}

func TestLoginFailureShowsServerDetail(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, "")

	cmd := fillAndSubmit(s, "student@example.com", "nope")
	_, next := s.Update(cmd())
	if next != nil {
		t.Error("failed login should not navigate")
	}
	if !strings.Contains(s.View(100, 30), "Incorrect email or password") {
		t.Error("expected server detail in banner")
	}
	if s.password.Value() != "" {
		t.Error("password should be cleared after a failure")
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, "")
	s.focus.I = focusSubmit
	if cmd := enter(s); cmd != nil {
		t.Error("empty form must not send a request")
	}
	if !s.banner.Visible() {
		t.Error("expected a validation banner")
	}
}

func TestSignupLink(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, "")
	s.focus.I = focusSignup
	nav, ok := enter(s)().(router.NavigateMsg)
	if !ok || nav.Path != guard.PathSignup {
		t.Errorf("expected signup navigation, got %#v", nav)
	}
}
