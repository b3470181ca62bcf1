package manage

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/appctx/appctxtest"
)

func loaded(t *testing.T) (*ManageScreen, *appctx.Deps) {
	t.Helper()
	b := appctxtest.NewBackend()
	b.Subjects = []api.Subject{{ID: 5, Name: "Mathematics", Level: "Grade 10"}}
	b.Topics = []api.Topic{{ID: 9, Name: "Algebra", SubjectID: 5, Level: "Grade 10"}}
	deps := appctxtest.Deps(t, b)
	if _, err := deps.Login(context.Background(), "teacher@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	s := New(deps)
	s.Update(s.Init()())
	return s, deps
}

func key(s *ManageScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code})
	return cmd
}

func typeText(s *ManageScreen, text string) {
	for _, r := range text {
		s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

// pick opens the focused dropdown and commits entry n.
func pick(s *ManageScreen, n int) {
	key(s, tea.KeyEnter)
	for range n {
		key(s, tea.KeyDown)
	}
	key(s, tea.KeyEnter)
}

func TestCreateSubjectDedups(t *testing.T) {
	s, deps := loaded(t)
	key(s, tea.KeyTab)
	pick(s, 0) // Grade 10
	key(s, tea.KeyTab)
	typeText(s, "MATHEMATICS")

	cmd := key(s, tea.KeyEnter)
	if cmd == nil {
		t.Fatal("expected create command")
	}
	s.Update(cmd())

	if n := len(deps.Catalog.SubjectsForLevel("Grade 10")); n != 1 {
		t.Errorf("subjects = %d, want 1", n)
	}
	if !strings.Contains(s.banner.Text, "already exists") {
		t.Errorf("banner = %q", s.banner.Text)
	}
	if s.sel.SubjectID != 5 {
		t.Error("existing subject should be selected")
	}
}

func TestCreateTopicUnderSubject(t *testing.T) {
	s, deps := loaded(t)
	pick(s, 2) // Topic
	key(s, tea.KeyTab)
	pick(s, 0) // Grade 10
	key(s, tea.KeyTab)
	pick(s, 0) // Mathematics
	key(s, tea.KeyTab)
	typeText(s, "Geometry")

	s.Update(key(s, tea.KeyEnter)())

	if n := len(deps.Catalog.TopicsForSubject(5)); n != 2 {
		t.Errorf("topics = %d, want 2", n)
	}
	if !strings.Contains(s.banner.Text, "Created topic") {
		t.Errorf("banner = %q", s.banner.Text)
	}
	if !strings.Contains(s.View(100, 40), "Geometry") {
		t.Error("new topic should be listed")
	}
}

func TestBranchNeedsSubject(t *testing.T) {
	s, _ := loaded(t)
	pick(s, 1) // Branch
	key(s, tea.KeyTab)
	key(s, tea.KeyTab)
	key(s, tea.KeyTab)
	typeText(s, "Pure")

	if cmd := key(s, tea.KeyEnter); cmd != nil {
		t.Error("no request without a subject")
	}
	if !strings.Contains(s.banner.Text, "Choose a subject first") {
		t.Errorf("banner = %q", s.banner.Text)
	}
}

func TestNewLevelIsLocal(t *testing.T) {
	s, deps := loaded(t)
	key(s, tea.KeyTab)
	pick(s, 1) // + New level…
	if !s.CapturesEscape() {
		t.Fatal("level input should be open")
	}
	typeText(s, "Grade 12")
	s.Update(key(s, tea.KeyEnter)())

	if s.sel.Level != "Grade 12" {
		t.Errorf("level = %q", s.sel.Level)
	}
	levels := deps.Catalog.Levels()
	if len(levels) != 2 {
		t.Errorf("levels = %v", levels)
	}
}
