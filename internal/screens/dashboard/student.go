package dashboard

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

type studentLoadedMsg struct {
	Data *api.StudentDashboard
	Err  error
}

// StudentScreen shows quiz statistics and the way into a new quiz.
type StudentScreen struct {
	deps   *appctx.Deps
	data   *api.StudentDashboard
	loaded bool
	banner components.Banner
	menu   components.Menu
}

var _ screen.Screen = (*StudentScreen)(nil)
var _ screen.KeyHintProvider = (*StudentScreen)(nil)

// NewStudent creates the student dashboard.
func NewStudent(deps *appctx.Deps) *StudentScreen {
	return &StudentScreen{
		deps: deps,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Take a quiz", Action: nav(guard.PathQuizPrep)},
			{Label: "Local history", Hint: "results kept on this machine", Action: nav(guard.PathHistory)},
			{Label: "Log out", Action: logout(deps)},
		}),
	}
}

func (s *StudentScreen) Init() tea.Cmd {
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()
		data, err := deps.API.StudentDashboard(ctx)
		deps.Expire(ctx, err)
		return studentLoadedMsg{Data: data, Err: err}
	}
}

func (s *StudentScreen) Title() string {
	return "Student Dashboard"
}

func (s *StudentScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (s *StudentScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case studentLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to load dashboard"))
			return s, nil
		}
		s.data = msg.Data
		return s, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StudentScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string
	if s.banner.Visible() {
		sections = append(sections, s.banner.View(cw))
	}

	switch {
	case !s.loaded:
		sections = append(sections, theme.Hint.Render("Loading dashboard..."))
	case s.data != nil:
		d := s.data
		sections = append(sections,
			statCards([]Stat{
				{"Total Quizzes", fmt.Sprint(d.TotalQuizzes)},
				{"Average Score", fmt.Sprintf("%.2f", d.AverageScore)},
				{"Highest Score", fmt.Sprintf("%.2f", d.HighestScore)},
				{"Lowest Score", fmt.Sprintf("%.2f", d.LowestScore)},
				{"Total Attempts", fmt.Sprint(d.TotalAttempts)},
			}, cw),
			components.Panel("Difficulty Distribution", fmt.Sprintf("Easy %d    Medium %d    Hard %d",
				d.EasyCount, d.MediumCount, d.HardCount), cw),
			components.Panel("Quiz History", historyTable(d.QuizHistory), cw),
		)
	}

	sections = append(sections, "", s.menu.View())
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func historyTable(items []api.QuizHistoryItem) string {
	if len(items) == 0 {
		return theme.Hint.Render("No quizzes taken yet.")
	}
	var b strings.Builder
	b.WriteString(theme.Label.Render(fmt.Sprintf("%-6s %-8s %-9s %-14s %s",
		"Quiz", "Score", "Correct", "Difficulty", "Completed")))
	for _, it := range items {
		b.WriteString("\n")
		line := fmt.Sprintf("%-6s %-8.2f %-9s %-14s %s",
			it.QuizID, it.Score,
			fmt.Sprintf("%d/%d", it.CorrectAnswers, it.TotalQuestions),
			it.Difficulty, it.CompletedAt.Local().Format("Jan 02, 2006 15:04"))
		b.WriteString(theme.Body.Render(line))
	}
	return b.String()
}
