package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/ui/theme"
)

// CreateNewLabel is the sentinel entry that opens an inline create input.
const CreateNewLabel = "+ Create new…"

// Option is one entry of a SelectBox.
type Option struct {
	Label string
	Value string
}

// SelectBox is a dropdown: collapsed it shows the current value, open it
// lists the options. With AllowCreate a trailing sentinel entry is added,
// labelled CreateLabel or CreateNewLabel.
type SelectBox struct {
	Label       string
	Options     []Option
	Value       string
	AllowCreate bool
	CreateLabel string
	Disabled    bool
	Open        bool
	cursor      int
}

// SelectEvent is what an Update produced.
type SelectEvent int

const (
	SelectNone SelectEvent = iota
	SelectChanged
	SelectCreate
)

func (s SelectBox) entries() int {
	n := len(s.Options)
	if s.AllowCreate {
		n++
	}
	return n
}

// Update handles keys while the box has focus. Enter toggles the list and,
// when open, commits the highlighted entry.
func (s SelectBox) Update(msg tea.Msg) (SelectBox, SelectEvent) {
	if s.Disabled {
		return s, SelectNone
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return s, SelectNone
	}

	switch kmsg.String() {
	case "enter":
		if !s.Open {
			s.Open = true
			s.cursor = 0
			for i, o := range s.Options {
				if o.Value == s.Value {
					s.cursor = i
				}
			}
			return s, SelectNone
		}
		s.Open = false
		if s.cursor == len(s.Options) {
			return s, SelectCreate
		}
		if s.cursor < len(s.Options) {
			v := s.Options[s.cursor].Value
			if v != s.Value {
				s.Value = v
				return s, SelectChanged
			}
		}
	case "up", "k":
		if s.Open && s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.Open && s.cursor < s.entries()-1 {
			s.cursor++
		}
	case "esc":
		s.Open = false
	}
	return s, SelectNone
}

// Display returns the label of the current value.
func (s SelectBox) Display() string {
	for _, o := range s.Options {
		if o.Value == s.Value {
			return o.Label
		}
	}
	return ""
}

// View renders the box. focused highlights the label.
func (s SelectBox) View(focused bool) string {
	labelStyle := theme.Label
	if focused {
		labelStyle = theme.Selected
	}
	current := s.Display()
	switch {
	case s.Disabled:
		current = theme.Disabled.Render("(choose the parent first)")
	case current == "":
		current = theme.Hint.Render("(none)")
	default:
		current = theme.Body.Render(current)
	}

	var b strings.Builder
	b.WriteString(labelStyle.Render(s.Label+":") + " " + current)
	if !s.Open {
		return b.String()
	}
	for i := 0; i < s.entries(); i++ {
		label := s.CreateLabel
		if label == "" {
			label = CreateNewLabel
		}
		if i < len(s.Options) {
			label = s.Options[i].Label
		}
		b.WriteString("\n")
		if i == s.cursor {
			b.WriteString(theme.Selected.Render("    ▸ " + label))
		} else {
			b.WriteString(theme.Unselected.Render("      " + label))
		}
	}
	return b.String()
}
