// Package manage is the teacher/admin page for adding subjects, branches,
// topics and system tags outside of question authoring.
package manage

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/api"
	"github.com/abhisek/eduz/internal/appctx"
	"github.com/abhisek/eduz/internal/catalog"
	"github.com/abhisek/eduz/internal/screen"
	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/layout"
	"github.com/abhisek/eduz/internal/ui/theme"
)

const (
	elKind = iota
	elLevel
	elSubject
	elName
	elCreate
)

var kinds = []catalog.Field{catalog.FieldSubject, catalog.FieldBranch, catalog.FieldTopic, catalog.FieldSystem}

type catalogMsg struct{ Err error }

type resolvedMsg struct {
	R   catalog.Resolved
	Err error
}

// ManageScreen creates entities through the catalog's dedup path.
type ManageScreen struct {
	deps *appctx.Deps
	sel  catalog.Selection
	kind catalog.Field
	pos  int

	kindBox    components.SelectBox
	level      components.SelectBox
	subject    components.SelectBox
	name       components.TextInput
	levelInput components.TextInput
	newLevel   bool

	loading bool
	busy    bool
	banner  components.Banner
}

var _ screen.Screen = (*ManageScreen)(nil)
var _ screen.KeyHintProvider = (*ManageScreen)(nil)
var _ screen.EscapeCapturer = (*ManageScreen)(nil)

// New creates the manage page.
func New(deps *appctx.Deps) *ManageScreen {
	s := &ManageScreen{
		deps:       deps,
		kind:       catalog.FieldSubject,
		kindBox:    components.SelectBox{Label: "Create"},
		level:      components.SelectBox{Label: "Level", AllowCreate: true, CreateLabel: "+ New level…"},
		subject:    components.SelectBox{Label: "Subject"},
		name:       components.NewTextInput("Name", "", 100),
		levelInput: components.NewTextInput("New level", "e.g. Grade 9", 50),
	}
	for i, k := range kinds {
		label := k.String()
		s.kindBox.Options = append(s.kindBox.Options,
			components.Option{Label: strings.ToUpper(label[:1]) + label[1:], Value: strconv.Itoa(i)})
	}
	s.kindBox.Value = "0"
	s.sync()
	return s
}

func (s *ManageScreen) Init() tea.Cmd {
	if s.deps.Catalog.Loaded() {
		return nil
	}
	s.loading = true
	cache, deps := s.deps.Catalog, s.deps
	return func() tea.Msg {
		ctx := context.Background()
		err := cache.Load(ctx)
		deps.Expire(ctx, err)
		return catalogMsg{Err: err}
	}
}

func (s *ManageScreen) Title() string {
	return "Manage Catalog"
}

func (s *ManageScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Tab", Description: "Next"},
		{Key: "Enter", Description: "Open / Create"},
		{Key: "Esc", Description: "Back"},
	}
}

// CapturesEscape keeps esc for closing a list or the new level input.
func (s *ManageScreen) CapturesEscape() bool {
	return s.newLevel || s.kindBox.Open || s.level.Open || s.subject.Open
}

// elements returns the form elements the current kind uses, in order.
func (s *ManageScreen) elements() []int {
	switch s.kind {
	case catalog.FieldSystem:
		return []int{elKind, elName, elCreate}
	case catalog.FieldSubject:
		return []int{elKind, elLevel, elName, elCreate}
	default:
		return []int{elKind, elLevel, elSubject, elName, elCreate}
	}
}

func (s *ManageScreen) focused() int {
	els := s.elements()
	return els[min(s.pos, len(els)-1)]
}

// sync rebuilds the dropdowns from the cache and the selection.
func (s *ManageScreen) sync() {
	cache := s.deps.Catalog
	s.level.Options = s.level.Options[:0]
	for _, l := range cache.Levels() {
		s.level.Options = append(s.level.Options, components.Option{Label: l, Value: l})
	}
	s.level.Value = s.sel.Level
	if s.sel.Level != "" && s.level.Display() == "" {
		s.level.Options = append(s.level.Options, components.Option{Label: s.sel.Level, Value: s.sel.Level})
	}

	s.subject.Options = s.subject.Options[:0]
	for _, sub := range cache.SubjectsForLevel(s.sel.Level) {
		s.subject.Options = append(s.subject.Options, components.Option{Label: sub.Name, Value: sub.ID.String()})
	}
	s.subject.Disabled = !s.sel.SubjectEnabled()
	s.subject.Value = ""
	if s.sel.SubjectID != 0 {
		s.subject.Value = s.sel.SubjectID.String()
	}
}

func (s *ManageScreen) setFocus(el int) tea.Cmd {
	s.name.Blur()
	for i, e := range s.elements() {
		if e == el {
			s.pos = i
		}
	}
	if s.focused() == elName {
		return s.name.Focus()
	}
	return nil
}

func (s *ManageScreen) create() tea.Cmd {
	if s.busy {
		return nil
	}
	name := strings.TrimSpace(s.name.Value())
	switch {
	case name == "":
		s.banner = components.ErrorBanner("Enter a name")
		return nil
	case s.kind == catalog.FieldSubject && s.sel.Level == "":
		s.banner = components.ErrorBanner("Choose a level first")
		return nil
	case (s.kind == catalog.FieldBranch || s.kind == catalog.FieldTopic) && s.sel.SubjectID == 0:
		s.banner = components.ErrorBanner("Choose a subject first")
		return nil
	}
	s.busy = true
	return s.resolve(s.kind, name)
}

func (s *ManageScreen) resolve(f catalog.Field, name string) tea.Cmd {
	cache, deps, sel := s.deps.Catalog, s.deps, s.sel
	return func() tea.Msg {
		ctx := context.Background()
		r, err := cache.Resolve(ctx, sel, f, name)
		deps.Expire(ctx, err)
		return resolvedMsg{R: r, Err: err}
	}
}

func (s *ManageScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case catalogMsg:
		s.loading = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to load subjects and topics"))
		}
		s.sync()
		return s, nil

	case resolvedMsg:
		s.busy = false
		if msg.Err != nil {
			s.banner = components.ErrorBanner(api.Message(msg.Err, "Failed to create "+s.kind.String()))
			return s, nil
		}
		r := msg.R
		if r.Field == catalog.FieldLevel || r.Field == catalog.FieldSubject {
			s.sel.Apply(r)
		}
		s.sync()
		if r.Field == catalog.FieldLevel {
			return s, nil
		}
		s.name.SetValue("")
		if r.Created {
			s.banner = components.SuccessBanner(fmt.Sprintf("Created %s %q", r.Field, r.Name))
		} else {
			s.banner = components.InfoBanner(fmt.Sprintf("%s %q already exists", capital(r.Field.String()), r.Name))
		}
		return s, nil

	case tea.KeyMsg:
		return s, s.handleKey(msg)
	}
	return s, nil
}

func (s *ManageScreen) handleKey(msg tea.KeyMsg) tea.Cmd {
	if s.newLevel {
		switch msg.String() {
		case "esc":
			s.newLevel = false
			s.levelInput.Blur()
			return nil
		case "enter":
			s.newLevel = false
			s.levelInput.Blur()
			name := strings.TrimSpace(s.levelInput.Value())
			if name == "" {
				return nil
			}
			return s.resolve(catalog.FieldLevel, name)
		}
		var cmd tea.Cmd
		s.levelInput, cmd = s.levelInput.Update(msg)
		return cmd
	}

	if !s.kindBox.Open && !s.level.Open && !s.subject.Open {
		f := components.Focus{N: len(s.elements()), I: s.pos}
		if f.Step(msg) {
			return s.setFocus(s.elements()[f.I])
		}
	}

	var ev components.SelectEvent
	switch s.focused() {
	case elKind:
		s.kindBox, ev = s.kindBox.Update(msg)
		if ev == components.SelectChanged {
			i, _ := strconv.Atoi(s.kindBox.Value)
			s.kind = kinds[i]
			s.pos = 0
			s.banner = components.Banner{}
		}
	case elLevel:
		s.level, ev = s.level.Update(msg)
		switch ev {
		case components.SelectChanged:
			s.sel.SetLevel(s.level.Value)
			s.sync()
		case components.SelectCreate:
			s.newLevel = true
			s.levelInput.SetValue("")
			return s.levelInput.Focus()
		}
	case elSubject:
		s.subject, ev = s.subject.Update(msg)
		if ev == components.SelectChanged {
			id, _ := api.ParseID(s.subject.Value)
			s.sel.SetSubject(id)
			s.sync()
		}
	case elName:
		if msg.String() == "enter" {
			return s.create()
		}
		var cmd tea.Cmd
		s.name, cmd = s.name.Update(msg)
		return cmd
	case elCreate:
		if msg.String() == "enter" {
			return s.create()
		}
	}
	return nil
}

func capital(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *ManageScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 64)
	focused := s.focused()

	var b strings.Builder
	if s.loading {
		b.WriteString(theme.Hint.Render("Loading subjects and topics...") + "\n\n")
	}
	b.WriteString(s.kindBox.View(focused == elKind))
	for _, el := range s.elements() {
		switch el {
		case elLevel:
			b.WriteString("\n\n" + s.level.View(focused == elLevel))
			if s.newLevel {
				b.WriteString("\n    " + s.levelInput.View())
			}
		case elSubject:
			b.WriteString("\n\n" + s.subject.View(focused == elSubject))
		case elName:
			b.WriteString("\n\n" + s.name.View())
		}
	}
	btn := components.NewButton("Create "+s.kind.String(), nil)
	btn.Active = focused == elCreate
	btn.Busy = s.busy
	b.WriteString("\n\n" + btn.View())

	body := lipgloss.JoinVertical(lipgloss.Left,
		components.Panel("Manage Catalog", b.String(), cw),
		components.Panel("Existing", s.existing(), cw),
	)
	if s.banner.Visible() {
		body = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), body)
	}
	return components.Page(body, width, height)
}

// existing lists the entities next to the one being created.
func (s *ManageScreen) existing() string {
	cache := s.deps.Catalog
	var names []string
	switch s.kind {
	case catalog.FieldSubject:
		for _, sub := range cache.SubjectsForLevel(s.sel.Level) {
			names = append(names, sub.Name)
		}
	case catalog.FieldBranch:
		for _, br := range cache.BranchesForSubject(s.sel.SubjectID) {
			names = append(names, br.Name)
		}
	case catalog.FieldTopic:
		for _, t := range cache.TopicsForSubject(s.sel.SubjectID) {
			names = append(names, t.Name)
		}
	case catalog.FieldSystem:
		for _, sys := range cache.Systems() {
			names = append(names, sys.Name)
		}
	}
	if len(names) == 0 {
		return theme.Hint.Render("Nothing yet.")
	}
	return theme.Body.Render(strings.Join(names, "\n"))
}
