package landing

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/session"
)

func reveal(s *LandingScreen) {
	for i := 0; i < 10; i++ {
		s.Update(tickMsg(time.Now()))
	}
}

func TestRevealShowsMenu(t *testing.T) {
	s := New(session.State{})
	if strings.Contains(s.View(100, 30), "Log In") {
		t.Error("menu should be hidden before the reveal")
	}
	reveal(s)
	view := s.View(100, 30)
	if !strings.Contains(view, "Log In") || !strings.Contains(view, "Sign Up") {
		t.Error("menu should be visible after the reveal")
	}
}

func TestTicksStopAfterReveal(t *testing.T) {
	s := New(session.State{})
	reveal(s)
	_, cmd := s.Update(tickMsg(time.Now()))
	if cmd != nil {
		t.Error("no further ticks expected once revealed")
	}
}

func TestFirstKeySkipsReveal(t *testing.T) {
	s := New(session.State{})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd != nil {
		t.Error("first key should only skip the animation")
	}
	if !s.revealed() {
		t.Error("expected revealed after a key")
	}
}

func TestEnterNavigatesToLogin(t *testing.T) {
	s := New(session.State{})
	reveal(s)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected navigation")
	}
	msg, ok := cmd().(router.NavigateMsg)
	if !ok || msg.Path != guard.PathLogin {
		t.Errorf("expected navigate to login, got %#v", msg)
	}
}

func TestSignedInGetsDashboardShortcut(t *testing.T) {
	s := New(session.State{Token: "t", Role: session.RoleTeacher})
	reveal(s)
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	msg, _ := cmd().(router.NavigateMsg)
	if msg.Path != guard.PathTeacherDashboard {
		t.Errorf("expected teacher dashboard, got %q", msg.Path)
	}
}
