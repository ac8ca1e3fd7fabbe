package ai

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestFallback_UsesOriginalFields(t *testing.T) {
	it := Item{Title: "  Título original  ", Snippet: "  Resumen corto.  "}
	got := Fallback(it)
	if got.TitleEN != "Título original" {
		t.Errorf("TitleEN = %q", got.TitleEN)
	}
	if got.SummaryEN != "Resumen corto." {
		t.Errorf("SummaryEN = %q", got.SummaryEN)
	}
}

func TestFallback_TruncatesSnippet(t *testing.T) {
	it := Item{Title: "T", Snippet: strings.Repeat("ñ", 500)}
	got := Fallback(it)
	if n := utf8.RuneCountInString(got.SummaryEN); n != 280 {
		t.Errorf("summary rune count = %d, want 280", n)
	}
}

func TestTruncateRunes_MultibyteSafe(t *testing.T) {
	s := "áéíóú"
	got := truncateRunes(s, 3)
	if got != "áéí" {
		t.Errorf("truncateRunes = %q, want %q", got, "áéí")
	}
	if !utf8.ValidString(got) {
		t.Error("truncation must never split a rune")
	}
}

func TestTruncateRunes_ShortInputUntouched(t *testing.T) {
	if got := truncateRunes("corto", 100); got != "corto" {
		t.Errorf("got %q", got)
	}
}
