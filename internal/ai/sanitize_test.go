package ai

import (
	"strings"
	"testing"
)

func TestSanitizeText_RemovesInlineParenthesizedDisclaimer(t *testing.T) {
	in := "Government announces measure (Note: This translation is a machine translation and may contain errors.) affecting ports"
	out := SanitizeText(in)
	if strings.Contains(strings.ToLower(out), "note:") {
		t.Errorf("output still contains disclaimer: %q", out)
	}
	if !strings.Contains(out, "affecting ports") {
		t.Errorf("content after the disclaimer must survive: %q", out)
	}
}

func TestSanitizeText_RemovesFullLineNote(t *testing.T) {
	in := "Note: this is a machine translation.\nDockworkers reached an agreement with the government."
	out := SanitizeText(in)
	if strings.Contains(strings.ToLower(out), "note:") {
		t.Errorf("disclaimer line was not removed: %q", out)
	}
	if !strings.Contains(out, "Dockworkers") {
		t.Errorf("content line must remain: %q", out)
	}
}

func TestSanitizeText_RemovesBracketedDisclaimer(t *testing.T) {
	in := "[Note: Machine translation] The summit concluded on Friday."
	out := SanitizeText(in)
	if strings.Contains(strings.ToLower(out), "note") {
		t.Errorf("bracketed disclaimer was not removed: %q", out)
	}
	if !strings.Contains(out, "The summit concluded") {
		t.Errorf("content must be preserved: %q", out)
	}
}

func TestSanitizeText_CollapsesWhitespace(t *testing.T) {
	out := SanitizeText("A  line\n\nwith   gaps")
	if out != "A line with gaps" {
		t.Errorf("got %q", out)
	}
}

func TestSanitizeText_CleanInputUnchanged(t *testing.T) {
	in := "A perfectly normal translated sentence."
	if out := SanitizeText(in); out != in {
		t.Errorf("clean text must pass through, got %q", out)
	}
}
