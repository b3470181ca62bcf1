package addquestions

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/eduz/internal/ui/components"
	"github.com/abhisek/eduz/internal/ui/theme"
)

func (s *AddScreen) View(width, height int) string {
	cw := min(components.ContentWidth(width), 72)

	var lines []string
	focusLine := 0
	for i, r := range s.rows {
		if r.kind == rowQuestion {
			if r.block > 0 {
				lines = append(lines, "")
			}
			head := fmt.Sprintf("Question %d of %d", r.block+1, len(s.form.Blocks))
			if len(s.form.Blocks) > 1 {
				head += theme.Hint.Render("   ctrl+d removes")
			}
			lines = append(lines, theme.Selected.Render(head))
		}
		if r.kind == rowAddBlock {
			lines = append(lines, "")
		}
		if i == s.focus.I {
			focusLine = len(lines)
		}
		lines = append(lines, strings.Split(s.rowView(i, r), "\n")...)
	}

	var head []string
	if s.loading {
		head = append(head, theme.Hint.Render("Loading subjects and topics..."))
	}
	if s.resolving > 0 {
		head = append(head, theme.Hint.Render("Saving..."))
	}
	if s.submitting {
		head = append(head, theme.Hint.Render(fmt.Sprintf("Submitting %d question(s)...", len(s.form.Blocks))))
	}

	// Panel border, title and banner take the rest.
	visible := max(height-8-len(head), 5)
	lines = window(lines, focusLine, visible)

	body := strings.Join(append(head, lines...), "\n")
	out := components.Panel("Add Questions", body, cw)
	if s.banner.Visible() {
		out = lipgloss.JoinVertical(lipgloss.Left, s.banner.View(cw+2), out)
	}
	return components.Page(out, width, height)
}

func (s *AddScreen) rowView(i int, r row) string {
	focused := i == s.focus.I
	b := s.block(r)

	switch r.kind {
	case rowQuestion, rowOption:
		if focused {
			return s.editor.View()
		}
		if r.kind == rowQuestion {
			return textLine("Question", b.QuestionText)
		}
		label := fmt.Sprintf("Option %d", r.opt+1)
		if b.Correct == r.opt {
			label += " ✓"
		}
		return "  " + textLine(label, b.Options[r.opt])

	case rowCorrect, rowDifficulty, rowField:
		box := s.active
		if !focused {
			box = selectFor(r, b, s.deps.Catalog)
		}
		v := box.View(focused)
		if r.kind != rowField {
			return v
		}
		in := b.Sel.Inline(r.field)
		if !in.Visible {
			return v
		}
		if focused && s.inline {
			return v + "\n    " + s.editor.View()
		}
		return v + "\n    " + theme.Hint.Render(fmt.Sprintf("New %s: %s", r.field, in.Pending))

	case rowAddBlock:
		return button("+ Add another question", focused)
	case rowPreview:
		return button("Preview", focused)
	case rowSubmit:
		return button(fmt.Sprintf("Submit %d question(s)", len(s.form.Blocks)), focused)
	}
	return ""
}

func textLine(label, value string) string {
	v := theme.Body.Render(value)
	if value == "" {
		v = theme.Hint.Render("(empty)")
	}
	return theme.Label.Render(label+":") + " " + v
}

func button(label string, focused bool) string {
	b := components.NewButton(label, nil)
	b.Active = focused
	return b.View()
}

// window returns at most n lines of lines keeping line at in view.
func window(lines []string, at, n int) []string {
	if len(lines) <= n {
		return lines
	}
	start := min(max(at-n/2, 0), len(lines)-n)
	return lines[start : start+n]
}
