package signup

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/appctx/appctxtest"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
)

func fill(s *SignupScreen, name, email, pw string) {
	s.inputs[focusName].SetValue(name)
	s.inputs[focusEmail].SetValue(email)
	s.inputs[focusPassword].SetValue(pw)
	s.focus.I = focusSubmit
}

func TestPasswordProblem(t *testing.T) {
	tests := []struct {
		pw   string
		weak bool
	}{
		{"short1!", true},
		{"alllowercase1!", true},
		{"NoDigits!!", true},
		{"NoSpecial12", true},
		{"Str0ng!pass", false},
	}
	for _, tt := range tests {
		if got := PasswordProblem(tt.pw) != ""; got != tt.weak {
			t.Errorf("PasswordProblem(%q) weak=%v, want %v", tt.pw, got, tt.weak)
		}
	}
}

func TestSignupRegistersStudentThenRedirects(t *testing.T) {
	b := appctxtest.NewBackend()
	deps := appctxtest.Deps(t, b)
	s := New(deps)
	fill(s, "Ada", "ada@example.com", "Str0ng!pass")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected register command")
	}
	_, cmd = s.Update(cmd())
	if !strings.Contains(s.View(100, 30), "Registration successful") {
		t.Error("expected success banner")
	}
	if cmd == nil {
		t.Fatal("expected delayed redirect")
	}

	_, cmd = s.Update(redirectMsg{})
	nav, ok := cmd().(router.NavigateMsg)
	if !ok || nav.Path != guard.PathLogin {
		t.Errorf("expected login redirect, got %#v", nav)
	}

	u, ok := b.User("ada@example.com")
	if !ok {
		t.Fatal("user was not registered")
	}
	if u.Role != "student" {
		t.Errorf("registered role = %q, want student", u.Role)
	}
}

func TestSignupFieldErrorsBlockRequest(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps)
	fill(s, "", "x@example.com", "weak")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("invalid form must not be sent")
	}
	view := s.View(100, 40)
	if !strings.Contains(view, "Name is required") || !strings.Contains(view, "Minimum 8 characters") {
		t.Error("expected inline field errors")
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps)
	fill(s, "Again", "student@example.com", "Str0ng!pass")

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	s.Update(cmd())
	if !strings.Contains(s.View(100, 30), "Email already registered") {
		t.Error("expected server detail")
	}
	if s.done {
		t.Error("failed registration must not redirect")
	}
}
