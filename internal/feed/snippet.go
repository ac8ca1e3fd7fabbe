package feed

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// maxSnippetLen keeps snippets short; feeds sometimes ship whole articles in
// the description field.
const maxSnippetLen = 600

// CleanSnippet strips HTML markup from a feed description and collapses
// whitespace, truncating at a sentence boundary where possible.
func CleanSnippet(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	text := raw
	if strings.ContainsAny(raw, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
		if err == nil {
			text = doc.Text()
		}
	}

	text = strings.Join(strings.Fields(text), " ")
	if len(text) <= maxSnippetLen {
		return text
	}

	// Back off to a rune boundary; accented Spanish text means byte
	// maxSnippetLen can land mid-rune.
	end := maxSnippetLen
	for end > 0 && !utf8.RuneStart(text[end]) {
		end--
	}
	cut := text[:end]
	if idx := strings.LastIndex(cut, ". "); idx > maxSnippetLen/2 {
		return cut[:idx+1]
	}
	return cut + "..."
}
