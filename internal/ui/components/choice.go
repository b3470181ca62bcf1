package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/eduz/internal/ui/theme"
)

// Choice is a lettered single-answer picker for quiz questions. The cursor
// moves freely; Chosen is the committed answer, -1 when none.
type Choice struct {
	Question string
	Options  []string
	Cursor   int
	Chosen   int
}

// NewChoice creates a picker with chosen preselected (-1 for none).
func NewChoice(question string, options []string, chosen int) Choice {
	c := Choice{Question: question, Options: options, Chosen: chosen}
	if chosen >= 0 && chosen < len(options) {
		c.Cursor = chosen
	}
	return c
}

// Update moves the cursor and commits on enter or space. A letter key
// commits that option directly.
func (c Choice) Update(msg tea.Msg) (Choice, bool) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return c, false
	}

	key := kmsg.String()
	switch key {
	case "up", "k":
		if c.Cursor > 0 {
			c.Cursor--
		}
	case "down", "j":
		if c.Cursor < len(c.Options)-1 {
			c.Cursor++
		}
	case "space", " ":
		c.Chosen = c.Cursor
		return c, true
	default:
		if len(key) == 1 {
			if i := int(strings.ToLower(key)[0] - 'a'); i >= 0 && i < len(c.Options) {
				c.Cursor = i
				c.Chosen = i
				return c, true
			}
		}
	}
	return c, false
}

// Value returns the chosen option text.
func (c Choice) Value() (string, bool) {
	if c.Chosen < 0 || c.Chosen >= len(c.Options) {
		return "", false
	}
	return c.Options[c.Chosen], true
}

// View renders the question and its options.
func (c Choice) View() string {
	var b strings.Builder
	b.WriteString(theme.Body.Bold(true).Render(c.Question))
	b.WriteString("\n\n")

	for i, opt := range c.Options {
		prefix := "  "
		if i == c.Cursor {
			prefix = "▸ "
		}
		mark := "( )"
		if i == c.Chosen {
			mark = "(•)"
		}
		line := fmt.Sprintf("%s%s %c)  %s", prefix, mark, 'A'+i, opt)

		switch {
		case i == c.Chosen:
			b.WriteString(theme.Correct.Render(line))
		case i == c.Cursor:
			b.WriteString(theme.Selected.Render(line))
		default:
			b.WriteString(theme.Unselected.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
