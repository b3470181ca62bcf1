package result

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/appctx/appctxtest"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
)

func setup(t *testing.T, answers ...string) (*appctxtest.Backend, *appctx.Deps) {
	t.Helper()
	b := appctxtest.NewBackend()
	deps := appctxtest.Deps(t, b)
	ctx := context.Background()
	if _, err := deps.Login(ctx, "student@example.com", "secret"); err != nil {
		t.Fatal(err)
	}
	req := api.SubmitRequest{SessionID: 42}
	for i, a := range answers {
		req.Answers = append(req.Answers, api.Answer{QuestionID: api.ID(1000 + i), SelectedOption: a})
	}
	if err := deps.API.SubmitQuiz(ctx, req); err != nil {
		t.Fatal(err)
	}
	return b, deps
}

func params() Params {
	return Params{SessionID: 42, Category: "subject", ItemID: 5, ItemName: "Mathematics", StartedAt: time.Now()}
}

func TestGoodScorePraised(t *testing.T) {
	_, deps := setup(t, "beta", "beta", "beta")
	s := New(deps, params())
	s.Update(s.Init()())

	view := s.View(100, 30)
	for _, want := range []string{"Your score is 100%", "Correct Answers: 3 / 3", "Great job!"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestSeventyIsNotGood(t *testing.T) {
	s := New(nil, params())
	s.loaded = true
	s.result = &api.QuizResult{Score: 70, TotalQuestions: 10, CorrectAnswers: 7}
	if !strings.Contains(s.View(100, 30), "Keep practicing!") {
		t.Error("a score of exactly 70 is not praised")
	}
}

func TestResultRecordedLocally(t *testing.T) {
	_, deps := setup(t, "beta", "alpha")
	s := New(deps, params())
	s.Update(s.Init()())
	if !s.saved {
		t.Fatal("expected result to be saved")
	}

	recs, err := deps.History.Recent(context.Background(), 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 history record, got %d", len(recs))
	}
	if recs[0].ItemName != "Mathematics" || recs[0].Score != 50 || recs[0].SessionID != 42 {
		t.Errorf("unexpected record %+v", recs[0])
	}
}

func TestResultFetchFailure(t *testing.T) {
	b, deps := setup(t, "beta")
	b.SetFail("GET /quiz/result/42", http.StatusNotFound)
	s := New(deps, params())
	s.Update(s.Init()())
	if !strings.Contains(s.View(100, 30), "simulated failure") {
		t.Error("expected error message")
	}
}

func TestMissingSession(t *testing.T) {
	s := New(nil, Params{})
	if cmd := s.Init(); cmd != nil {
		t.Error("no fetch without a session id")
	}
	if !strings.Contains(s.View(100, 30), "No quiz session found.") {
		t.Error("expected missing-session message")
	}
}

func TestEnterGoesHome(t *testing.T) {
	_, deps := setup(t)
	s := New(deps, params())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	nav, ok := cmd().(router.NavigateMsg)
	if !ok || nav.Path != guard.PathStudentDashboard {
		t.Errorf("expected student dashboard, got %#v", nav)
	}
}

func TestTrimScore(t *testing.T) {
	for in, want := range map[float64]string{100: "100", 66.666: "66.67", 50.5: "50.5"} {
		if got := trimScore(in); got != want {
			t.Errorf("trimScore(%v) = %q, want %q", in, got, want)
		}
	}
}
