package quizprep

import (
	"context"
	"slices"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/quiz"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/screens/quizrun"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

const (
	focusLevel = iota
	focusCategory
	focusItem
	focusCount
	focusStart
	focusN
)

// presetCounts are the question counts offered before "Custom…".
var presetCounts = []int{3, 5, 10, 15}

type levelsMsg struct {
	Levels []string
	Err    error
}

type levelDataMsg quiz.LevelData

// PrepScreen picks the scope of a new quiz: level, category, item and the
// number of questions.
type PrepScreen struct {
	deps  *appctx.Deps
	prep  *quiz.Prep
	focus components.Focus

	level    components.SelectBox
	category components.SelectBox
	item     components.SelectBox
	count    components.SelectBox
	custom   components.TextInput
	typing   bool

	loadingLevels bool
	banner        components.Banner
}

var _ screen.Screen = (*PrepScreen)(nil)
var _ screen.KeyHintProvider = (*PrepScreen)(nil)
var _ screen.EscapeCapturer = (*PrepScreen)(nil)

// New creates the quiz preparation page.
func New(deps *appctx.Deps) *PrepScreen {
	s := &PrepScreen{
		deps:          deps,
		prep:          quiz.NewPrep(),
		focus:         components.Focus{N: focusN},
		level:         components.SelectBox{Label: "Level"},
		category:      components.SelectBox{Label: "Category"},
		item:          components.SelectBox{Label: "Item", Disabled: true},
		count:         components.SelectBox{Label: "Number of Questions", AllowCreate: true, CreateLabel: "Custom…"},
		custom:        components.NewTextInput("Questions", "e.g. 7", 3),
		loadingLevels: true,
	}
	s.custom.NumericOnly = true
	for _, c := range quiz.Categories {
		s.category.Options = append(s.category.Options,
			components.Option{Label: strings.ToUpper(c[:1]) + c[1:], Value: c})
	}
	for _, n := range presetCounts {
		s.count.Options = append(s.count.Options, countOption(n))
	}
	s.count.Value = strconv.Itoa(s.prep.NumQuestions)
	s.syncDisabled()
	return s
}

func countOption(n int) components.Option {
	v := strconv.Itoa(n)
	return components.Option{Label: v, Value: v}
}

func (s *PrepScreen) Init() tea.Cmd {
	client := s.deps.API
	deps := s.deps
	return func() tea.Msg {
		ctx := context.Background()
		levels, err := quiz.LoadLevels(ctx, client)
		deps.Expire(ctx, err)
		return levelsMsg{Levels: levels, Err: err}
	}
}

func (s *PrepScreen) Title() string {
	return "Quiz Preparation"
}

func (s *PrepScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Enter", Description: "Open / Choose"},
		{Key: "Esc", Description: "Back"},
	}
}

// CapturesEscape keeps esc for closing an open list or the custom input.
func (s *PrepScreen) CapturesEscape() bool {
	return s.typing || s.anyOpen()
}

func (s *PrepScreen) anyOpen() bool {
	return s.level.Open || s.category.Open || s.item.Open || s.count.Open
}

func (s *PrepScreen) syncDisabled() {
	s.category.Disabled = s.prep.Level == ""
	s.item.Disabled = s.prep.Category == "" || s.prep.Loading()
	s.category.Value = s.prep.Category
	s.item.Options = s.item.Options[:0]
	for _, it := range s.prep.Items() {
		s.item.Options = append(s.item.Options, components.Option{Label: it.Name, Value: it.ID.String()})
	}
	s.item.Value = ""
	if s.prep.ItemID != 0 {
		s.item.Value = s.prep.ItemID.String()
	}
	if s.prep.Category != "" {
		s.item.Label = s.category.Display()
	} else {
		s.item.Label = "Item"
	}
}

func (s *PrepScreen) fetchLevel(level string) tea.Cmd {
	gen := s.prep.SetLevel(level)
	s.syncDisabled()
	if level == "" {
		return nil
	}
	client, deps := s.deps.API, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		d := quiz.FetchLevel(ctx, client, level, gen)
		deps.Expire(ctx, d.Err)
		return levelDataMsg(d)
	}
}

func (s *PrepScreen) start() tea.Cmd {
	scope, err := s.prep.Scope()
	if err != nil {
		s.banner = components.ErrorBanner("Choose a level, a category and an item first")
		return nil
	}
	params := quizrun.Params{Scope: scope, ItemName: s.prep.ItemName()}
	return router.Navigate(guard.PathQuiz, router.ModePush, params)
}

func (s *PrepScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case levelsMsg:
		s.loadingLevels = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to load levels"))
			return s, nil
		}
		s.prep.Levels = msg.Levels
		s.level.Options = nil
		for _, l := range msg.Levels {
			s.level.Options = append(s.level.Options, components.Option{Label: l, Value: l})
		}
		return s, nil

	case levelDataMsg:
		d := quiz.LevelData(msg)
		if !s.prep.Apply(d) {
			return s, nil
		}
		if d.Err != nil {
			s.banner = components.ErrorBanner(api.Message(d.Err, "Failed to load quiz categories"))
		}
		s.syncDisabled()
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *PrepScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.typing {
		switch msg.String() {
		case "esc":
			s.typing = false
			s.custom.Blur()
			return nil
		case "enter":
			n, err := s.custom.NumericValue()
			if err != nil || n < 1 {
				s.banner = components.ErrorBanner("Enter a number of questions of at least 1")
				return nil
			}
			s.typing = false
			s.custom.Blur()
			s.prep.NumQuestions = n
			opt := countOption(n)
			if !slices.Contains(s.count.Options, opt) {
				s.count.Options = append(s.count.Options, opt)
			}
			s.count.Value = opt.Value
			return nil
		}
		var cmd tea.Cmd
		s.custom, cmd = s.custom.Update(msg)
		return cmd
	}

	if !s.anyOpen() && s.focus.Step(msg) {
		return nil
	}

	var ev components.SelectEvent
	switch s.focus.I {
	case focusLevel:
		s.level, ev = s.level.Update(msg)
		if ev == components.SelectChanged {
			s.banner = components.Banner{}
			return s.fetchLevel(s.level.Value)
		}
	case focusCategory:
		s.category, ev = s.category.Update(msg)
		if ev == components.SelectChanged {
			s.prep.SetCategory(s.category.Value)
			s.syncDisabled()
		}
	case focusItem:
		s.item, ev = s.item.Update(msg)
		if ev == components.SelectChanged {
			if id, err := api.ParseID(s.item.Value); err == nil {
				s.prep.ItemID = id
			}
		}
	case focusCount:
		s.count, ev = s.count.Update(msg)
		switch ev {
		case components.SelectChanged:
			s.prep.NumQuestions, _ = strconv.Atoi(s.count.Value)
		case components.SelectCreate:
			s.typing = true
			s.custom.SetValue("")
			return s.custom.Focus()
		}
	case focusStart:
		if msg.String() == "enter" {
			return s.start()
		}
	}
	return nil
}

func (s *PrepScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 64)

	var b strings.Builder
	if s.loadingLevels {
		b.WriteString(theme.Hint.Render("Loading levels..."))
		b.WriteString("\n\n")
	}
	b.WriteString(s.level.View(s.focus.Is(focusLevel)))
	b.WriteString("\n\n")
	b.WriteString(s.category.View(s.focus.Is(focusCategory)))
	b.WriteString("\n\n")
	if s.prep.Loading() {
		b.WriteString(theme.Hint.Render("Loading " + s.prep.Level + "..."))
	} else {
		b.WriteString(s.item.View(s.focus.Is(focusItem)))
	}
	b.WriteString("\n\n")
	b.WriteString(s.count.View(s.focus.Is(focusCount)))
	if s.typing {
		b.WriteString("\n  ")
		b.WriteString(s.custom.View())
	}
	b.WriteString("\n\n")

	startBtn := components.NewButton("Start Quiz", nil)
	startBtn.Active = s.focus.Is(focusStart)
	if s.prep.ItemID == 0 {
		b.WriteString(theme.Disabled.Render("Start Quiz"))
	} else {
		b.WriteString(startBtn.View())
	}

	body := components.Panel("Quiz Preparation", b.String(), cw)
	if s.banner.Visible() {
		body = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), body)
	}
	return components.Page(body, width, height)
}
