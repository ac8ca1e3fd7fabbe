// Package cluster maps near-duplicate articles from different outlets to one
// canonical record. Articles sharing a signature (country, UTC day, leading
// title words) are considered the same story.
package cluster

import (
	"crypto/sha1"
	"encoding/hex"
	"strings"

	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/textnorm"
)

const (
	// maxWords significant title words kept in the signature; each word is
	// cut to wordPrefixLen runes so inflected forms ("anuncia"/"anunció")
	// collapse to the same stem.
	maxWords      = 6
	wordPrefixLen = 6
)

// Spanish function words that carry no story identity.
var stopWords = map[string]bool{
	"el": true, "la": true, "los": true, "las": true, "un": true, "una": true,
	"unos": true, "unas": true, "de": true, "del": true, "al": true, "a": true,
	"en": true, "y": true, "o": true, "que": true, "se": true, "su": true,
	"sus": true, "por": true, "para": true, "con": true, "sin": true,
	"lo": true, "es": true, "mas": true, "como": true, "sobre": true,
	"tras": true, "ante": true, "entre": true,
}

// NormalizeTitle reduces a headline to its signature prefix: folded text,
// stop words removed, each word truncated, at most maxWords words.
func NormalizeTitle(title string) string {
	words := strings.Fields(textnorm.Clean(title))
	significant := make([]string, 0, maxWords)
	for _, w := range words {
		if len(significant) >= maxWords {
			break
		}
		if stopWords[w] || len([]rune(w)) <= 2 {
			continue
		}
		r := []rune(w)
		if len(r) > wordPrefixLen {
			w = string(r[:wordPrefixLen])
		}
		significant = append(significant, w)
	}
	// All stop words is unusual but possible for very short headlines.
	if len(significant) == 0 {
		for i := 0; i < len(words) && i < maxWords; i++ {
			significant = append(significant, words[i])
		}
	}
	return strings.Join(significant, " ")
}

// Signature returns the deterministic clustering digest for a. Articles with
// the same (country, UTC day bucket, normalized title prefix) get the same
// signature.
func Signature(a *article.Article) string {
	day := "unknown"
	if a.HasPublished() {
		day = a.Published.UTC().Format("2006-01-02")
	}
	key := strings.ToLower(a.Country) + "|" + day + "|" + NormalizeTitle(a.Title)
	h := sha1.New()
	h.Write([]byte(key))
	return hex.EncodeToString(h.Sum(nil))
}

// qualityTier orders representatives: full translation beats partial
// enrichment beats a substantial snippet.
func qualityTier(a *article.Article) int {
	switch {
	case a.Enriched():
		return 3
	case a.TitleEN != "" || a.SummaryEN != "":
		return 2
	case len(a.Snippet) >= 60:
		return 1
	default:
		return 0
	}
}

// better reports whether candidate is strictly better than current. Equal
// composite keys keep the current (first seen) representative.
func better(candidate, current *article.Article) bool {
	ct, bt := qualityTier(candidate), qualityTier(current)
	if ct != bt {
		return ct > bt
	}
	if len(candidate.Snippet) != len(current.Snippet) {
		return len(candidate.Snippet) > len(current.Snippet)
	}
	return candidate.Published.After(current.Published)
}

// Dedupe groups articles by signature and keeps one representative per
// group. Representatives come back in first-seen group order with
// Duplicates set to the group size (left zero for singleton groups).
// Dedupe is idempotent.
func Dedupe(items []article.Article) []article.Article {
	type group struct {
		rep   article.Article
		count int
	}

	var order []string
	groups := make(map[string]*group, len(items))

	for _, a := range items {
		sig := a.Signature
		if sig == "" {
			sig = Signature(&a)
			a.Signature = sig
		}
		g, seen := groups[sig]
		if !seen {
			order = append(order, sig)
			groups[sig] = &group{rep: a, count: max(1, a.Duplicates)}
			continue
		}
		// Re-deduping already collapsed items must keep their counts.
		g.count += max(1, a.Duplicates)
		if better(&a, &g.rep) {
			g.rep = a
		}
	}

	out := make([]article.Article, 0, len(order))
	for _, sig := range order {
		g := groups[sig]
		if g.count > 1 {
			g.rep.Duplicates = g.count
		}
		out = append(out, g.rep)
	}
	return out
}
