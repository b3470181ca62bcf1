// Package addquestions is the question authoring page: any number of
// question blocks, each with its own cascading level/subject/topic/branch/
// system selection, submitted together as one batch.
package addquestions

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/authoring"
	"github.com/abhisek/eduz/internal/catalog"
	"github.com/abhisek/eduz/internal/guard"
	"github.com/abhisek/eduz/internal/router"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/screens/preview"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
)

type catalogMsg struct{ Err error }

type resolvedMsg struct {
	Key   string
	Field catalog.Field
	Name  string
	R     catalog.Resolved
	Err   error
}

type submittedMsg struct {
	Created int
	Err     error
}

// AddScreen edits a batch of question drafts.
type AddScreen struct {
	deps  *appctx.Deps
	form  *authoring.Form
	rows  []row
	focus components.Focus

	editor components.TextInput
	active components.SelectBox
	// inline is set while the focused select row's "create new" input
	// takes the keys.
	inline bool

	loading    bool
	resolving  int
	submitting bool
	banner     components.Banner
}

var _ screen.Screen = (*AddScreen)(nil)
var _ screen.KeyHintProvider = (*AddScreen)(nil)
var _ screen.EscapeCapturer = (*AddScreen)(nil)

// New creates the authoring page. Drafts left by an earlier preview are
// restored.
func New(deps *appctx.Deps) *AddScreen {
	s := &AddScreen{
		deps:   deps,
		form:   authoring.NewForm(),
		editor: components.NewTextInput("", "", 500),
	}
	drafts, ok, err := deps.Submitter.RestoreSnapshot(context.Background())
	switch {
	case err != nil:
		deps.Log.Warn("restore drafts", zap.Error(err))
	case ok:
		s.form = authoring.FormFromDrafts(drafts)
		s.banner = components.InfoBanner(fmt.Sprintf("Restored %d unsaved question(s)", len(drafts)))
	}
	s.relayout(0)
	return s
}

func (s *AddScreen) Init() tea.Cmd {
	focus := s.refocus()
	if s.deps.Catalog.Loaded() {
		return focus
	}
	s.loading = true
	cache, deps := s.deps.Catalog, s.deps
	return tea.Batch(focus, func() tea.Msg {
		ctx := context.Background()
		err := cache.Load(ctx)
		deps.Expire(ctx, err)
		return catalogMsg{Err: err}
	})
}

func (s *AddScreen) Title() string {
	return "Add Questions"
}

func (s *AddScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next field"},
		{Key: "Ctrl+N", Description: "New question"},
		{Key: "Ctrl+O", Description: "Add option"},
		{Key: "Ctrl+X", Description: "Remove option"},
		{Key: "Ctrl+P", Description: "Preview"},
		{Key: "Ctrl+S", Description: "Submit"},
	}
}

// CapturesEscape keeps esc for closing a list or an inline create input.
func (s *AddScreen) CapturesEscape() bool {
	return s.inline || s.active.Open
}

func (s *AddScreen) current() row {
	return s.rows[s.focus.I]
}

func (s *AddScreen) block(r row) *authoring.Block {
	if r.block < 0 || r.block >= len(s.form.Blocks) {
		return nil
	}
	return s.form.Blocks[r.block]
}

// relayout recomputes the rows after the form changed shape and moves focus
// to index i.
func (s *AddScreen) relayout(i int) {
	s.rows = layoutRows(s.form)
	s.focus.N = len(s.rows)
	s.focus.I = min(max(i, 0), len(s.rows)-1)
}

// refocus binds the editor or the dropdown to the focused row.
func (s *AddScreen) refocus() tea.Cmd {
	s.editor.Blur()
	s.inline = false
	s.active = components.SelectBox{}

	r := s.current()
	b := s.block(r)
	switch {
	case r.text():
		if r.kind == rowQuestion {
			s.editor.Label = "Question"
			s.editor.SetValue(b.QuestionText)
		} else {
			s.editor.Label = fmt.Sprintf("Option %d", r.opt+1)
			s.editor.SetValue(b.Options[r.opt])
		}
		return s.editor.Focus()
	case r.selects():
		s.active = selectFor(r, b, s.deps.Catalog)
		if r.kind == rowField {
			if in := b.Sel.Inline(r.field); in.Visible {
				s.inline = true
				s.editor.Label = "New " + r.field.String()
				s.editor.SetValue(in.Pending)
				return s.editor.Focus()
			}
		}
	}
	return nil
}

// leave runs before focus moves off the current row. An inline input with
// text is confirmed; an empty one is closed.
func (s *AddScreen) leave() tea.Cmd {
	if !s.inline {
		return nil
	}
	return s.confirmInline()
}

func (s *AddScreen) move(i int) tea.Cmd {
	cmd := s.leave()
	s.focus.I = i
	return tea.Batch(cmd, s.refocus())
}

func (s *AddScreen) confirmInline() tea.Cmd {
	r := s.current()
	b := s.block(r)
	s.inline = false
	s.editor.Blur()

	name := strings.TrimSpace(b.Sel.Inline(r.field).Pending)
	if name == "" {
		b.Sel.CloseInline(r.field)
		return nil
	}
	s.resolving++
	key, field, sel := b.Key, r.field, b.Sel
	cache, deps := s.deps.Catalog, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		res, err := cache.Resolve(ctx, sel, field, name)
		deps.Expire(ctx, err)
		return resolvedMsg{Key: key, Field: field, Name: name, R: res, Err: err}
	}
}

func (s *AddScreen) submit() tea.Cmd {
	if s.submitting {
		return nil
	}
	cmd := s.leave()
	s.submitting = true
	s.banner = components.Banner{}
	drafts := s.form.Drafts()
	sub, deps := s.deps.Submitter, s.deps
	return tea.Batch(cmd, func() tea.Msg {
		ctx := context.Background()
		created, err := sub.SubmitBatch(ctx, drafts)
		deps.Expire(ctx, err)
		return submittedMsg{Created: len(created), Err: err}
	})
}

func (s *AddScreen) preview() tea.Cmd {
	cmd := s.leave()
	return tea.Batch(cmd, router.Navigate(guard.PathPreviewQuestions, router.ModePush,
		preview.Params{Drafts: s.form.Drafts()}))
}

func (s *AddScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogMsg:
		s.loading = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to load subjects and topics"))
		}
		if r := s.current(); r.selects() && !s.active.Open {
			s.active = selectFor(r, s.block(r), s.deps.Catalog)
		}
		return s, nil

	case resolvedMsg:
		return s, s.applyResolved(msg)

	case submittedMsg:
		return s, s.applySubmitted(msg)

	case preview.ConfirmedMsg:
		return s, s.submit()

	case tea.KeyMsg:
		if s.submitting {
			return s, nil
		}
		return s, s.handleKey(msg)
	}

	if s.editor.Focused() {
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *AddScreen) applyResolved(msg resolvedMsg) tea.Cmd {
	s.resolving--
	b := s.form.Block(msg.Key)
	if b == nil {
		return nil
	}
	if msg.Err != nil {
		s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to create "+msg.Field.String()))
		// The input keeps its text; rebind it so the user can retry.
		if r := s.current(); r.selects() && s.block(r) == b && r.field == msg.Field {
			return s.refocus()
		}
		return nil
	}
	if !b.Sel.Apply(msg.R) {
		s.banner = components.InfoBanner(fmt.Sprintf("%s %q was not selected because the selection above it changed",
			capitalize(msg.Field.String()), msg.R.Name))
		if r := s.current(); r.selects() && s.block(r) == b {
			return s.refocus()
		}
		return nil
	}
	if msg.R.Created {
		s.banner = components.SuccessBanner(fmt.Sprintf("Created %s %q", msg.Field, msg.R.Name))
	} else {
		s.banner = components.InfoBanner(fmt.Sprintf("Using existing %s %q", msg.Field, msg.R.Name))
	}
	if r := s.current(); r.selects() && s.block(r) == b {
		return s.refocus()
	}
	return nil
}

func (s *AddScreen) applySubmitted(msg submittedMsg) tea.Cmd {
	s.submitting = false
	var verr *authoring.ValidationError
	var berr *authoring.BatchError
	switch {
	case msg.Err == nil:
		s.form = authoring.NewForm()
		s.relayout(0)
		s.banner = components.SuccessBanner(fmt.Sprintf("Added %d question(s)", msg.Created))
	case errors.As(msg.Err, &verr):
		s.banner = components.ErrorBanner(fmt.Sprintf("Question %d: %s", verr.Index+1, verr.Message))
		s.focus.I = firstRowOf(s.rows, verr.Index)
	case errors.As(msg.Err, &berr):
		s.form.KeepFrom(berr.Index)
		s.relayout(0)
		s.banner = components.ErrorBanner(fmt.Sprintf("%d saved. Question %d failed: %s. The unsent questions are kept below.",
			len(berr.Created), berr.Index+1, api.Message(berr.Err, "request failed")))
	default:
		s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to add questions"))
	}
	return s.refocus()
}

func (s *AddScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	r := s.current()
	b := s.block(r)

	switch msg.String() {
	case "ctrl+s":
		return s.submit()
	case "ctrl+p":
		return s.preview()
	case "ctrl+n":
		cmd := s.leave()
		s.form.AddBlock()
		s.relayout(0)
		return tea.Batch(cmd, s.move(firstRowOf(s.rows, len(s.form.Blocks)-1)))
	case "ctrl+d":
		if b == nil || !s.form.RemoveBlock(b.Key) {
			return nil
		}
		s.relayout(0)
		s.focus.I = firstRowOf(s.rows, min(r.block, len(s.form.Blocks)-1))
		return s.refocus()
	case "ctrl+o":
		if b == nil || !s.form.AddOption(b.Key) {
			return nil
		}
		cmd := s.leave()
		s.relayout(s.focus.I)
		return tea.Batch(cmd, s.move(firstRowOf(s.rows, r.block)+len(b.Options)))
	case "ctrl+x":
		if r.kind != rowOption || !s.form.RemoveOption(b.Key, r.opt) {
			return nil
		}
		s.relayout(s.focus.I)
		for s.current().kind != rowOption {
			s.focus.I--
		}
		return s.refocus()
	}

	if s.inline {
		switch msg.String() {
		case "esc":
			b.Sel.CloseInline(r.field)
			return s.refocus()
		case "enter":
			return s.confirmInline()
		case "tab", "shift+tab", "up", "down":
		default:
			var cmd tea.Cmd
			s.editor, cmd = s.editor.Update(msg)
			b.Sel.SetPending(r.field, s.editor.Value())
			return cmd
		}
	}

	if !s.active.Open {
		prev := s.focus.I
		if s.focus.Step(msg) {
			next := s.focus.I
			s.focus.I = prev
			return s.move(next)
		}
	}

	switch {
	case r.text():
		if msg.String() == "enter" {
			return s.move((s.focus.I + 1) % len(s.rows))
		}
		var cmd tea.Cmd
		s.editor, cmd = s.editor.Update(msg)
		if r.kind == rowQuestion {
			b.QuestionText = s.editor.Value()
		} else {
			b.Options[r.opt] = s.editor.Value()
		}
		return cmd
	case r.selects():
		return s.updateSelect(r, b, msg)
	case r.button():
		if msg.String() != "enter" {
			return nil
		}
		switch r.kind {
		case rowAddBlock:
			s.form.AddBlock()
			s.relayout(0)
			return s.move(firstRowOf(s.rows, len(s.form.Blocks)-1))
		case rowPreview:
			return s.preview()
		case rowSubmit:
			return s.submit()
		}
	}
	return nil
}

func (s *AddScreen) updateSelect(r row, b *authoring.Block, msg tea.KeyMsg) tea.Cmd {
	var ev components.SelectEvent
	s.active, ev = s.active.Update(msg)
	switch ev {
	case components.SelectChanged:
		v := s.active.Value
		switch r.kind {
		case rowCorrect:
			b.Correct, _ = strconv.Atoi(v)
		case rowDifficulty:
			b.Difficulty, _ = strconv.Atoi(v)
		case rowField:
			applyField(&b.Sel, r.field, v)
		}
		s.banner = components.Banner{}
	case components.SelectCreate:
		b.Sel.OpenInline(r.field)
		return s.refocus()
	}
	return nil
}

// applyField selects value v in field f. Ids that fail to parse clear the
// field.
func applyField(sel *catalog.Selection, f catalog.Field, v string) {
	id, _ := api.ParseID(v)
	switch f {
	case catalog.FieldLevel:
		sel.SetLevel(v)
	case catalog.FieldSubject:
		sel.SetSubject(id)
	case catalog.FieldTopic:
		sel.SetTopic(id)
	case catalog.FieldBranch:
		sel.SetBranch(id)
	case catalog.FieldSystem:
		sel.SetSystem(v)
	}
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + w[1:]
}
