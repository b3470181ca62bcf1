package layout

import (
	"strings"
	"testing"
)

func TestRenderHeaderShowsTitleAndAccount(t *testing.T) {
	h := RenderHeader("Add Questions", Account{Label: "teacher", SignedIn: true}, 100)
	for _, want := range []string{"EduZ", "Add Questions", "● teacher"} {
		if !strings.Contains(h, want) {
			t.Errorf("header missing %q", want)
		}
	}
	if h := RenderHeader("Login", Account{Label: "signed out"}, 100); !strings.Contains(h, "○ signed out") {
		t.Error("signed out badge should be hollow")
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	hints := []KeyHint{
		{Key: "Esc", Description: "Back"},
		{Key: "Ctrl+S", Description: "Submit all questions"},
		{Key: "Ctrl+P", Description: "Preview every question before sending"},
	}
	f := RenderFooter(hints, 120)
	for _, h := range hints {
		if !strings.Contains(f, h.Description) {
			t.Errorf("wide footer missing %q", h.Description)
		}
	}

	f = RenderFooter(hints, 40)
	if !strings.Contains(f, "Back") {
		t.Error("first hint should always fit")
	}
	if strings.Contains(f, "Preview") {
		t.Error("overflowing hint should be dropped")
	}
}

func TestIsTooSmall(t *testing.T) {
	if !IsTooSmall(MinWidth-1, MinHeight) {
		t.Error("expected too small below min width")
	}
	if IsTooSmall(MinWidth, MinHeight) {
		t.Error("min size should be allowed")
	}
}
