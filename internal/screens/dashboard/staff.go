package dashboard

import (
	"context"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/theme"
)

type statsLoadedMsg struct {
	Stats api.Stats
	Err   error
}

// StaffScreen is the teacher and admin dashboard: backend counts as cards
// plus the role's tools.
type StaffScreen struct {
	deps   *appctx.Deps
	title  string
	load   func(context.Context) (api.Stats, error)
	stats  api.Stats
	loaded bool
	banner components.Banner
	menu   components.Menu
}

var _ screen.Screen = (*StaffScreen)(nil)

// NewTeacher creates the teacher dashboard.
func NewTeacher(deps *appctx.Deps) *StaffScreen {
	return &StaffScreen{
		deps:  deps,
		title: "Teacher Dashboard",
		load:  deps.API.TeacherDashboard,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Add questions", Action: nav(guard.PathAddQuestions)},
			{Label: "Manage subjects, branches and topics", Action: nav(guard.PathManage)},
			{Label: "Take a quiz", Action: nav(guard.PathQuizPrep)},
			{Label: "Local history", Action: nav(guard.PathHistory)},
			{Label: "Log out", Action: logout(deps)},
		}),
	}
}

// NewAdmin creates the admin dashboard.
func NewAdmin(deps *appctx.Deps) *StaffScreen {
	return &StaffScreen{
		deps:  deps,
		title: "Admin Dashboard",
		load:  deps.API.AdminDashboard,
		menu: components.NewMenu([]components.MenuItem{
			{Label: "Promote users", Action: nav(guard.PathPromote)},
			{Label: "Add questions", Action: nav(guard.PathAddQuestions)},
			{Label: "Manage subjects, branches and topics", Action: nav(guard.PathManage)},
			{Label: "Log out", Action: logout(deps)},
		}),
	}
}

func (s *StaffScreen) Init() tea.Cmd {
	deps, load := s.deps, s.load
	return func() tea.Msg {
		ctx := context.Background()
		stats, err := load(ctx)
		deps.Expire(ctx, err)
		return statsLoadedMsg{Stats: stats, Err: err}
	}
}

func (s *StaffScreen) Title() string {
	return s.title
}

func (s *StaffScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case statsLoadedMsg:
		s.loaded = true
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to load dashboard"))
			return s, nil
		}
		s.stats = msg.Stats
		return s, nil
	case tea.KeyMsg:
		var cmd tea.Cmd
		s.menu, cmd = s.menu.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *StaffScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var sections []string
	if s.banner.Visible() {
		sections = append(sections, s.banner.View(cw))
	}
	switch {
	case !s.loaded:
		sections = append(sections, theme.Hint.Render("Loading dashboard..."))
	case len(s.stats) > 0:
		sections = append(sections, statCards(StatsOf(s.stats), cw))
	case !s.banner.Visible():
		sections = append(sections, theme.Hint.Render("No statistics yet."))
	}
	sections = append(sections, "", components.Panel("Tools", s.menu.View(), cw))
	return lipgloss.NewStyle().Padding(1, 2).Render(
		lipgloss.JoinVertical(lipgloss.Left, sections...))
}
