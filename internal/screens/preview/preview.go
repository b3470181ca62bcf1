// Package preview shows the in-progress question drafts read-only before
// they are submitted.
package preview

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/authoring"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

// Params is the page input.
type Params struct {
	Drafts []authoring.Draft
}

// ConfirmedMsg is delivered to the authoring page after the preview was
// confirmed and closed.
type ConfirmedMsg struct{}

type itemsMsg struct {
	Drafts []authoring.Draft
	Items  []authoring.PreviewItem
	Err    error
}

const (
	actionBack = iota
	actionConfirm
)

// PreviewScreen lists the drafts as they would be submitted.
type PreviewScreen struct {
	deps   *appctx.Deps
	drafts []authoring.Draft
	items  []authoring.PreviewItem
	ready  bool
	offset int
	action components.Focus
	banner components.Banner
}

var _ screen.Screen = (*PreviewScreen)(nil)
var _ screen.KeyHintProvider = (*PreviewScreen)(nil)

// New creates the preview page.
func New(deps *appctx.Deps, p Params) *PreviewScreen {
	return &PreviewScreen{
		deps:   deps,
		drafts: p.Drafts,
		action: components.Focus{N: 2, I: actionConfirm},
	}
}

// Init stores the snapshot and builds the preview. Opened without drafts,
// the page shows the saved snapshot instead.
func (s *PreviewScreen) Init() tea.Cmd {
	sub, drafts := s.deps.Submitter, s.drafts
	return func() tea.Msg {
		ctx := context.Background()
		if drafts == nil {
			saved, _, err := sub.RestoreSnapshot(ctx)
			if err != nil {
				return itemsMsg{Err: err}
			}
			drafts = saved
		}
		items, err := sub.Preview(ctx, drafts)
		return itemsMsg{Drafts: drafts, Items: items, Err: err}
	}
}

func (s *PreviewScreen) Title() string {
	return "Preview Questions"
}

func (s *PreviewScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Tab", Description: "Switch action"},
		{Key: "Enter", Description: "Select"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *PreviewScreen) back() tea.Cmd {
	sub, drafts := s.deps.Submitter, s.drafts
	log := s.deps.Log
	return func() tea.Msg {
		if err := sub.SaveSnapshot(context.Background(), drafts); err != nil {
			log.Warn("keep drafts", zap.Error(err))
		}
		return router.PopScreenMsg{}
	}
}

func (s *PreviewScreen) confirm() tea.Cmd {
	sub := s.deps.Submitter
	log := s.deps.Log
	return tea.Sequence(
		func() tea.Msg {
			if err := sub.ConfirmPreview(context.Background()); err != nil {
				log.Warn("discard drafts", zap.Error(err))
			}
			return router.PopScreenMsg{}
		},
		func() tea.Msg { return ConfirmedMsg{} },
	)
}

func (s *PreviewScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case itemsMsg:
		s.ready = true
		if msg.Drafts != nil {
			s.drafts = msg.Drafts
		}
		if msg.Err != nil {
			s.banner = components.ErrorBanner(msg.Err.Error())
			s.items = authoring.PreviewItems(s.drafts)
			return s, nil
		}
		s.items = msg.Items
		return s, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.offset > 0 {
				s.offset--
			}
			return s, nil
		case "down", "j":
			s.offset++
			return s, nil
		case "tab", "shift+tab", "left", "right":
			s.action.I = 1 - s.action.I
			return s, nil
		case "enter":
			if s.action.Is(actionBack) {
				return s, s.back()
			}
			if len(s.items) == 0 {
				return s, nil
			}
			return s, s.confirm()
		}
	}
	return s, nil
}

func (s *PreviewScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 72)

	var lines []string
	switch {
	case !s.ready:
		lines = []string{theme.Hint.Render("Preparing preview...")}
	case len(s.items) == 0:
		lines = []string{theme.Hint.Render("No questions to preview")}
	default:
		for i, it := range s.items {
			if i > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, s.itemLines(i, it)...)
		}
	}

	visible := max(height-10, 5)
	s.offset = min(s.offset, max(len(lines)-visible, 0))
	if len(lines) > visible {
		lines = lines[s.offset : s.offset+visible]
	}

	back := components.NewButton("Back to editing", nil)
	back.Active = s.action.Is(actionBack)
	confirm := components.NewButton("Confirm & submit", nil)
	confirm.Active = s.action.Is(actionConfirm)
	buttons := lipgloss.JoinHorizontal(lipgloss.Top, back.View(), "   ", confirm.View())

	body := components.Panel("Preview", strings.Join(lines, "\n")+"\n\n"+buttons, cw)
	if s.banner.Visible() {
		body = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), body)
	}
	return components.Page(body, width, height)
}

func (s *PreviewScreen) itemLines(i int, it authoring.PreviewItem) []string {
	out := []string{theme.Selected.Render(fmt.Sprintf("%d. %s", i+1, orUnset(it.QuestionText)))}
	for j, o := range it.Options {
		mark := "  "
		if o != nil && it.CorrectOption != nil && *o == *it.CorrectOption {
			mark = theme.Correct.Render("✓ ")
		}
		out = append(out, fmt.Sprintf("   %s%c) %s", mark, 'a'+j, orUnset(o)))
	}
	cache := s.deps.Catalog
	subject, topic, branch := "Not specified", "Not specified", "None"
	if it.SubjectID != nil {
		subject = it.SubjectID.String()
		if sub, ok := cache.Subject(*it.SubjectID); ok {
			subject = sub.Name
		}
	}
	if it.TopicID != nil {
		topic = it.TopicID.String()
		if t, ok := cache.Topic(*it.TopicID); ok {
			topic = t.Name
		}
	}
	if it.BranchID != nil {
		branch = it.BranchID.String()
		if b, ok := cache.Branch(*it.BranchID); ok {
			branch = b.Name
		}
	}
	meta := fmt.Sprintf("Level: %s · Subject: %s · Topic: %s", orUnset(it.Level), subject, topic)
	extra := fmt.Sprintf("Branch: %s · System: %s · Difficulty: %s", branch, orUnset(it.System), it.DifficultyLabel())
	return append(out, "   "+theme.Hint.Render(meta), "   "+theme.Hint.Render(extra))
}

func orUnset(p *string) string {
	if p == nil {
		return "Not specified"
	}
	return *p
}
