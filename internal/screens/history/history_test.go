package history

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/store"
)

type fakeRepo struct {
	records []store.QuizRecord
	err     error
}

func (f *fakeRepo) Append(_ context.Context, rec store.QuizRecord) error {
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeRepo) Recent(_ context.Context, limit int) ([]store.QuizRecord, error) {
	return f.records, f.err
}

func (f *fakeRepo) Prune(context.Context, int) error { return nil }

func TestHistoryListsRecords(t *testing.T) {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	repo := &fakeRepo{records: []store.QuizRecord{{
		SessionID: 42, Category: "topic", ItemID: 9, ItemName: "Algebra",
		Score: 80, CorrectAnswers: 4, TotalQuestions: 5,
		StartedAt: start, EndedAt: start.Add(95 * time.Second), RecordedAt: start,
	}}}
	s := New(repo)
	s.Update(s.Init()())

	view := s.View(120, 30)
	if !strings.Contains(view, "Algebra") || !strings.Contains(view, "4/5 correct") {
		t.Errorf("unexpected view:\n%s", view)
	}
	if strings.Contains(view, "Session #42") {
		t.Error("details should be collapsed")
	}

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	view = s.View(120, 30)
	if !strings.Contains(view, "Session #42") || !strings.Contains(view, "1:35") {
		t.Errorf("expanded details missing:\n%s", view)
	}
}

func TestHistoryEmptyAndError(t *testing.T) {
	s := New(&fakeRepo{})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "No quizzes recorded yet") {
		t.Error("expected empty notice")
	}

	s = New(&fakeRepo{err: errors.New("disk gone")})
	s.Update(s.Init()())
	if !strings.Contains(s.View(80, 20), "disk gone") {
		t.Error("expected the error")
	}
}
