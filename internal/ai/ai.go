// Package ai calls an external model to translate article titles and write
// short English summaries from RSS metadata only. Two providers are
// supported: Gemini and OpenAI. Either way the contract is the same: a batch
// of (link, source, title, snippet) in, per-link (title_en, summary_en) out,
// and a failed call yields zero enrichments.
package ai

import (
	"context"
	"strings"
	"unicode/utf8"
)

// Item is one enrichment request.
type Item struct {
	Link    string
	Source  string
	Title   string
	Snippet string
}

// Translation is the model output for one link.
type Translation struct {
	TitleEN   string
	SummaryEN string
}

// Translator is the external translation collaborator.
type Translator interface {
	// TranslateBatch returns translations keyed by link. Items the model
	// failed to answer for are simply absent from the map.
	TranslateBatch(ctx context.Context, items []Item) (map[string]Translation, error)
}

// maxSnippetRunes caps prompt size; RSS snippets can drag whole articles in.
const maxSnippetRunes = 500

func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}

// Fallback returns the untranslated stand-in used at the request boundary
// when the model call fails: original title, snippet cut to 280 characters.
func Fallback(it Item) Translation {
	return Translation{
		TitleEN:   strings.TrimSpace(it.Title),
		SummaryEN: truncateRunes(strings.TrimSpace(it.Snippet), 280),
	}
}
