package quizrun

import (
	"context"
	"net/http"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/appctx/appctxtest"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/quiz"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screens/result"
)

func started(t *testing.T, b *appctxtest.Backend) (*QuizScreen, *appctx.Deps) {
	t.Helper()
	deps := appctxtest.Deps(t, b)
	if _, err := deps.Login(context.Background(), "student@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	s := New(deps, Params{
		Scope:    quiz.Scope{Category: quiz.CategorySubject, ItemID: 5, NumQuestions: 3},
		ItemName: "Mathematics",
	})
	cmd := s.Init()
	if cmd == nil {
		t.Fatal("expected start command")
	}
	s.Update(cmd())
	if s.flow.State() != quiz.StateInProgress {
		t.Fatalf("state = %s, want in-progress", s.flow.State())
	}
	return s, deps
}

func press(s *QuizScreen, code rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: code, Text: string(code)})
	return cmd
}

func enter(s *QuizScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestStartRequestsScope(t *testing.T) {
	b := appctxtest.NewBackend()
	started(t, b)
	starts := b.StartBodies()
	if len(starts) != 1 {
		t.Fatalf("expected one start call, got %d", len(starts))
	}
	body := starts[0]
	if body["subject_id"] != float64(5) || body["num_questions"] != float64(3) {
		t.Errorf("unexpected start body %v", body)
	}
}

func TestNextNeedsAnswer(t *testing.T) {
	s, _ := started(t, appctxtest.NewBackend())
	if cmd := enter(s); cmd != nil {
		t.Error("no command expected without an answer")
	}
	if s.flow.Index() != 0 {
		t.Error("must not advance without an answer")
	}
	if !strings.Contains(s.View(100, 30), "Please select an answer") {
		t.Error("expected an inline hint")
	}
}

func TestFullRunSubmitsAndOpensResult(t *testing.T) {
	b := appctxtest.NewBackend()
	s, _ := started(t, b)

	for i := 0; i < 2; i++ {
		press(s, 'b')
		enter(s)
	}
	press(s, 'a')
	cmd := enter(s)
	if s.flow.State() != quiz.StateSubmitting || cmd == nil {
		t.Fatalf("expected submit after the last answer, state %s", s.flow.State())
	}

	_, cmd = s.Update(cmd())
	if s.flow.State() != quiz.StateCompleted {
		t.Fatalf("state = %s, want completed", s.flow.State())
	}
	nav, ok := cmd().(router.NavigateMsg)
	if !ok || nav.Path != guard.PathQuizResult || nav.Mode != router.ModeReplace {
		t.Fatalf("expected result navigation, got %#v", nav)
	}
	p := nav.Params.(result.Params)
	if p.SessionID != 42 || p.ItemName != "Mathematics" {
		t.Errorf("unexpected params %+v", p)
	}

	subs := b.SubmittedQuizzes()
	if len(subs) != 1 || len(subs[0].Answers) != 3 {
		t.Fatalf("expected 3 answers submitted, got %+v", subs)
	}
	if subs[0].Answers[2].SelectedOption != "alpha" {
		t.Errorf("last answer = %q", subs[0].Answers[2].SelectedOption)
	}
}

func TestBackKeepsAnswers(t *testing.T) {
	s, _ := started(t, appctxtest.NewBackend())
	press(s, 'c')
	enter(s)
	s.Update(tea.KeyPressMsg{Code: tea.KeyLeft})
	if s.flow.Index() != 0 {
		t.Fatal("expected to be back on the first question")
	}
	if v, ok := s.choice.Value(); !ok || v != "gamma" {
		t.Errorf("earlier answer should be shown, got %q", v)
	}
}

func TestSubmitFailureKeepsAnswersAndRetries(t *testing.T) {
	b := appctxtest.NewBackend()
	s, _ := started(t, b)
	b.SetFail("POST /quiz/submit", http.StatusInternalServerError)

	for i := 0; i < 3; i++ {
		press(s, 'b')
		if i < 2 {
			enter(s)
		}
	}
	cmd := enter(s)
	s.Update(cmd())
	if s.flow.State() != quiz.StateInProgress {
		t.Fatalf("state = %s, want in-progress after failed submit", s.flow.State())
	}
	if _, _, answered := s.flow.Progress(); answered != 3 {
		t.Errorf("answers lost: %d", answered)
	}

	b.SetFail("POST /quiz/submit", 0)
	cmd = press(s, 'r')
	if cmd == nil {
		t.Fatal("r should retry the submit")
	}
	s.Update(cmd())
	if s.flow.State() != quiz.StateCompleted {
		t.Errorf("state = %s, want completed", s.flow.State())
	}
}

func TestIncompleteScopeFailsImmediately(t *testing.T) {
	deps := appctxtest.Deps(t, appctxtest.NewBackend())
	s := New(deps, Params{Scope: quiz.Scope{Category: quiz.CategoryTopic}})
	if cmd := s.Init(); cmd != nil {
		t.Error("no request for an incomplete scope")
	}
	if s.flow.State() != quiz.StateError {
		t.Errorf("state = %s, want error", s.flow.State())
	}
	if !strings.Contains(s.View(100, 30), "incomplete") {
		t.Error("expected the scope error to be shown")
	}
}
