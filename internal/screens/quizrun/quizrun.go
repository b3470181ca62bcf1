// Package quizrun is the quiz-taking page.
package quizrun

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/quiz"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/screens/result"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

// Params opens the page.
type Params struct {
	Scope    quiz.Scope
	ItemName string
}

type startedMsg struct {
	Start *api.QuizStart
	Err   error
}

type submittedMsg struct{ Err error }

// QuizScreen drives a quiz.Flow: it starts the quiz, shows one question at a
// time, submits and hands over to the result page.
type QuizScreen struct {
	deps      *appctx.Deps
	params    Params
	flow      *quiz.Flow
	choice    components.Choice
	startedAt time.Time
	banner    components.Banner
}

var _ screen.Screen = (*QuizScreen)(nil)
var _ screen.KeyHintProvider = (*QuizScreen)(nil)

// New creates the quiz page for p.
func New(deps *appctx.Deps, p Params) *QuizScreen {
	return &QuizScreen{deps: deps, params: p, flow: quiz.NewFlow()}
}

func (s *QuizScreen) Init() tea.Cmd {
	if err := s.flow.Begin(s.params.Scope); err != nil {
		return nil
	}
	s.startedAt = time.Now()
	scope, deps := s.params.Scope, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		start, err := deps.API.StartQuiz(ctx, scope.Category, scope.ItemID, scope.NumQuestions)
		deps.Expire(ctx, err)
		return startedMsg{Start: start, Err: err}
	}
}

func (s *QuizScreen) Title() string {
	if s.params.ItemName != "" {
		return "Quiz: " + s.params.ItemName
	}
	return "Quiz"
}

func (s *QuizScreen) KeyHints() []layout.KeyHint {
	if s.flow.State() != quiz.StateInProgress {
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	}
	_, total, _ := s.flow.Progress()
	next := "Next"
	if s.flow.Index() == total-1 {
		next = "Submit"
	}
	return []layout.KeyHint{
		{Key: "A-H", Description: "Answer"},
		{Key: "Enter", Description: next},
		{Key: "←", Description: "Previous"},
		{Key: "Esc", Description: "Leave"},
	}
}

// showCurrent rebuilds the picker for the current question, keeping any
// recorded answer selected.
func (s *QuizScreen) showCurrent() {
	q, ok := s.flow.Current()
	if !ok {
		return
	}
	chosen := -1
	if a, ok := s.flow.Answered(q.ID); ok {
		chosen = slices.Index(q.Options, a)
	}
	s.choice = components.NewChoice(q.QuestionText, q.Options, chosen)
}

func (s *QuizScreen) submit() tea.Cmd {
	req, deps := s.flow.SubmitRequest(), s.deps
	return func() tea.Msg {
		ctx := context.Background()
		err := deps.API.SubmitQuiz(ctx, req)
		deps.Expire(ctx, err)
		return submittedMsg{Err: err}
	}
}

func (s *QuizScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case startedMsg:
		if msg.Err != nil {
			s.flow.Failed(msg.Err)
			return s, nil
		}
		if s.flow.Started(msg.Start) == nil {
			s.showCurrent()
		}
		return s, nil

	case submittedMsg:
		if msg.Err != nil {
			s.flow.SubmitFailed(msg.Err)
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to submit quiz") + " (press r to retry)")
			return s, nil
		}
		if err := s.flow.Submitted(); err != nil {
			return s, nil
		}
		p := result.Params{
			SessionID: s.flow.SessionID(),
			Category:  s.params.Scope.Category,
			ItemID:    s.params.Scope.ItemID,
			ItemName:  s.params.ItemName,
			StartedAt: s.startedAt,
		}
		return s, router.Navigate(guard.PathQuizResult, router.ModeReplace, p)

	case tea.KeyMsg:
		if s.flow.State() != quiz.StateInProgress {
			return s, nil
		}
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *QuizScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "enter", "right":
		err := s.flow.Next()
		if errors.Is(err, quiz.ErrAnswerRequired) {
			s.banner = components.ErrorBanner("Please select an answer")
			return nil
		}
		s.banner = components.Banner{}
		if s.flow.State() == quiz.StateSubmitting {
			return s.submit()
		}
		s.showCurrent()
		return nil
	case "left":
		if s.flow.Back() == nil {
			s.banner = components.Banner{}
			s.showCurrent()
		}
		return nil
	case "r":
		if s.flow.Err() != nil && s.flow.Retry() == nil {
			s.banner = components.Banner{}
			return s.submit()
		}
	}

	var committed bool
	s.choice, committed = s.choice.Update(msg)
	if committed {
		if v, ok := s.choice.Value(); ok {
			_ = s.flow.Answer(v)
			s.banner = components.Banner{}
		}
	}
	return nil
}

func (s *QuizScreen) View(width, height int) string {
	cw := components.ContentWidth(width)

	var body string
	switch s.flow.State() {
	case quiz.StateLoading:
		body = theme.Hint.Render("Loading quiz...")
	case quiz.StateError:
		text := "Failed to start quiz"
		if err := s.flow.Err(); err != nil {
			text = api.Message(err, err.Error())
		}
		body = theme.Incorrect.Render(text) +
			"\n\n" + theme.Hint.Render("Press Esc to go back.")
	case quiz.StateSubmitting:
		body = theme.Hint.Render("Submitting answers...")
	case quiz.StateCompleted:
		body = theme.Correct.Render("Submitted.")
	default:
		qs := s.flow.Questions()
		marks := make([]bool, len(qs))
		for i, q := range qs {
			_, marks[i] = s.flow.Answered(q.ID)
		}
		bar := components.QuizProgress{Answered: marks, Current: s.flow.Index(), Width: cw - 4}
		var b strings.Builder
		b.WriteString(bar.View())
		b.WriteString("\n\n")
		b.WriteString(s.choice.View())
		body = b.String()
	}

	out := components.Panel(s.Title(), body, cw)
	if s.banner.Visible() {
		out = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), out)
	}
	return components.Page(out, width, height)
}
