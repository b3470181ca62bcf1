package components

import tea "charm.land/bubbletea/v2"

// Focus tracks which of n form elements has focus.
type Focus struct {
	N int
	I int
}

// Step handles tab/shift+tab and up/down, wrapping around. It reports
// whether the key moved focus.
func (f *Focus) Step(msg tea.KeyMsg) bool {
	if f.N == 0 {
		return false
	}
	switch msg.String() {
	case "tab", "down":
		f.I = (f.I + 1) % f.N
	case "shift+tab", "up":
		f.I = (f.I - 1 + f.N) % f.N
	default:
		return false
	}
	return true
}

// Is reports whether element i has focus.
func (f Focus) Is(i int) bool { return f.I == i }
