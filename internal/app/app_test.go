package app

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/appctx/appctxtest"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
)

func depsAs(t *testing.T, email string) *appctx.Deps {
	t.Helper()
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	if email != "" {
		if _, err := deps.Login(context.Background(), email, "secret"); err != nil {
			t.Fatal(err)
		}
	}
	return deps
}

func update(m AppModel, msg tea.Msg) (AppModel, tea.Cmd) {
	next, cmd := m.Update(msg)
	return next.(AppModel), cmd
}

func TestEveryGuardedPathHasRoute(t *testing.T) {
	for p := range guard.Rules {
		if _, ok := routes[p]; !ok {
			t.Errorf("no page for %s", p)
		}
	}
}

func TestStartPathIsGuarded(t *testing.T) {
	tests := []struct {
		name  string
		email string
		start guard.Path
		want  guard.Path
	}{
		{"anonymous to login", "", guard.PathAddQuestions, guard.PathLogin},
		{"public landing", "", guard.PathLanding, guard.PathLanding},
		{"teacher allowed", "teacher@example.com", guard.PathAddQuestions, guard.PathAddQuestions},
		{"student to own dashboard", "student@example.com", guard.PathPromote, guard.PathStudentDashboard},
		{"admin promote", "admin@example.com", guard.PathPromote, guard.PathPromote},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(depsAs(t, tt.email), tt.start)
			if got := m.Path(); got != tt.want {
				t.Errorf("path = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestUnknownPathShowsNotFound(t *testing.T) {
	m := New(depsAs(t, "student@example.com"), guard.Path("/nowhere"))
	if title := m.router.Active().Title(); title != "Not Found" {
		t.Errorf("title = %q", title)
	}
}

func TestLogoutReturnsToLogin(t *testing.T) {
	deps := depsAs(t, "student@example.com")
	m := New(deps, guard.PathStudentDashboard)
	m, _ = update(m, router.NavigateMsg{Path: guard.PathHistory, Mode: router.ModePush})
	if m.router.Depth() != 2 {
		t.Fatalf("depth = %d", m.router.Depth())
	}

	if err := deps.Session.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	m, _ = update(m, sessionChangedMsg{State: deps.Session.State()})

	if m.Path() != guard.PathLogin || m.router.Depth() != 1 {
		t.Errorf("path = %s depth = %d, want a fresh login page", m.Path(), m.router.Depth())
	}
}

func TestEscapePops(t *testing.T) {
	m := New(depsAs(t, ""), guard.PathLanding)
	m, _ = update(m, router.NavigateMsg{Path: guard.PathSignup, Mode: router.ModePush})
	if m.Path() != guard.PathSignup {
		t.Fatalf("path = %s", m.Path())
	}

	_, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd == nil {
		t.Fatal("esc should pop")
	}
	m, _ = update(m, cmd())
	if m.Path() != guard.PathLanding || m.router.Depth() != 1 {
		t.Errorf("path = %s depth = %d", m.Path(), m.router.Depth())
	}
}

func TestEscapeCapturedByOpenDropdown(t *testing.T) {
	m := New(depsAs(t, "student@example.com"), guard.PathStudentDashboard)
	m, _ = update(m, router.NavigateMsg{Path: guard.PathQuizPrep, Mode: router.ModePush})
	m, _ = update(m, tea.KeyPressMsg{Code: tea.KeyEnter}) // open the level list

	m, cmd := update(m, tea.KeyPressMsg{Code: tea.KeyEscape})
	if cmd != nil {
		t.Error("esc should close the list, not navigate")
	}
	if m.Path() != guard.PathQuizPrep {
		t.Errorf("path = %s", m.Path())
	}
}

func TestAccountLabel(t *testing.T) {
	deps := depsAs(t, "teacher@example.com")
	if got := account(deps.Session.State()); got.Label != "teacher" || !got.SignedIn {
		t.Errorf("account = %+v", got)
	}
	if err := deps.Session.Logout(context.Background()); err != nil {
		t.Fatal(err)
	}
	if got := account(deps.Session.State()); got.Label != "signed out" || got.SignedIn {
		t.Errorf("account = %+v", got)
	}
}
