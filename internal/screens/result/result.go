// Package result shows the outcome of a submitted quiz.
package result

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/store"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

// GoodScore is the score above which the result is praised.
const GoodScore = 70

// historyKeep bounds the local history table.
const historyKeep = 200

// Params identifies the submitted quiz.
type Params struct {
	SessionID api.ID
	Category  string
	ItemID    api.ID
	ItemName  string
	StartedAt time.Time
}

type loadedMsg struct {
	Result *api.QuizResult
	Err    error
	Saved  bool
}

// ResultScreen fetches the result once and records it in local history.
type ResultScreen struct {
	deps   *appctx.Deps
	params Params
	result *api.QuizResult
	loaded bool
	saved  bool
	errMsg string
}

var _ screen.Screen = (*ResultScreen)(nil)
var _ screen.KeyHintProvider = (*ResultScreen)(nil)

// New creates the result page.
func New(deps *appctx.Deps, p Params) *ResultScreen {
	return &ResultScreen{deps: deps, params: p}
}

func (s *ResultScreen) Init() tea.Cmd {
	if s.params.SessionID == 0 {
		s.loaded = true
		s.errMsg = "No quiz session found."
		return nil
	}
	deps, p := s.deps, s.params
	return func() tea.Msg {
		ctx := context.Background()
		res, err := deps.API.QuizResult(ctx, p.SessionID)
		if err != nil {
			deps.Expire(ctx, err)
			return loadedMsg{Err: err}
		}
		return loadedMsg{Result: res, Saved: Record(ctx, deps, p, res)}
	}
}

// Record appends the result to local history. Failures are logged only.
func Record(ctx context.Context, deps *appctx.Deps, p Params, res *api.QuizResult) bool {
	if deps.History == nil {
		return false
	}
	started := res.StartedAt
	if started.IsZero() {
		started = p.StartedAt
	}
	rec := store.QuizRecord{
		SessionID:      int64(p.SessionID),
		Category:       p.Category,
		ItemID:         int64(p.ItemID),
		ItemName:       p.ItemName,
		Score:          res.Score,
		TotalQuestions: res.TotalQuestions,
		CorrectAnswers: res.CorrectAnswers,
		StartedAt:      started,
		EndedAt:        res.EndedAt,
	}
	if err := deps.History.Append(ctx, rec); err != nil {
		deps.Log.Warn("record quiz history", zap.Error(err))
		return false
	}
	if err := deps.History.Prune(ctx, historyKeep); err != nil {
		deps.Log.Warn("prune quiz history", zap.Error(err))
	}
	return true
}

func (s *ResultScreen) Title() string {
	return "Quiz Result"
}

func (s *ResultScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Back to Dashboard"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *ResultScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.errMsg = api.Message(msg.Err, "Failed to fetch quiz result.")
			return s, nil
		}
		s.result = msg.Result
		s.saved = msg.Saved
		return s, nil

	case tea.KeyMsg:
		if msg.String() == "enter" {
			home, ok := guard.HomeFor(s.deps.Session.Role())
			if !ok {
				home = guard.PathLanding
			}
			return s, router.Navigate(home, router.ModeReset, nil)
		}
	}
	return s, nil
}

func (s *ResultScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 60)
	center := lipgloss.NewStyle().Width(cw).Align(lipgloss.Center)

	switch {
	case !s.loaded:
		return components.Page(theme.Hint.Render("Loading..."), width, height)
	case s.errMsg != "":
		return components.Page(components.ErrorBanner(s.errMsg).View(cw), width, height)
	case s.result == nil:
		return components.Page(components.InfoBanner("No result found.").View(cw), width, height)
	}

	r := s.result
	good := r.Score > GoodScore
	scoreStyle := theme.Incorrect
	verdict := "Keep practicing!"
	if good {
		scoreStyle = theme.Correct
		verdict = "Great job!"
	}

	lines := []string{
		theme.Title.Render("Quiz completed!"),
		"",
		scoreStyle.Render(fmt.Sprintf("Your score is %s%%", trimScore(r.Score))),
		"",
		fmt.Sprintf("Correct Answers: %d / %d", r.CorrectAnswers, r.TotalQuestions),
		"Started at: " + r.StartedAt.Local().Format("Jan 02, 2006 15:04:05"),
		"Ended at: " + r.EndedAt.Local().Format("Jan 02, 2006 15:04:05"),
		"",
		theme.Hint.Render(verdict),
	}
	if !s.saved {
		lines = append(lines, "", theme.Disabled.Render("Not saved to local history"))
	}

	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(center.Render(l))
	}
	return components.Page(components.Panel("", b.String(), cw), width, height)
}

func trimScore(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
