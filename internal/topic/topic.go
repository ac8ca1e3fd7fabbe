// Package topic assigns one topic label per canonical article. Declared feed
// categories are tried first against a fixed substring table; when none maps,
// a weighted keyword scorer over the normalized title and snippet decides,
// falling back to General for weak or ambiguous signals.
package topic

import (
	"regexp"
	"strings"

	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/textnorm"
)

// Label is a topic assigned to an article.
type Label string

const (
	Politics    Label = "Politics"
	Economy     Label = "Economy"
	Business    Label = "Business"
	Markets     Label = "Markets"
	World       Label = "World"
	Society     Label = "Society"
	Education   Label = "Education"
	Health      Label = "Health"
	Science     Label = "Science"
	Technology  Label = "Technology"
	Energy      Label = "Energy"
	Environment Label = "Environment"
	Security    Label = "Security"
	Culture     Label = "Culture"
	Sports      Label = "Sports"
	General     Label = "General"
)

// Scoring policy. A winner needs minScore outright, and either a clear
// margin over the runner-up or a strong absolute score; anything weaker
// degrades to General.
const (
	minScore  = 2.0
	minMargin = 1.25
	strongWin = 6.0

	// Sports-specific floor and the suppression sentinel.
	sportsMin      = 3.0
	sportsSentinel = -1000.0
)

// Looks like a final score: "2-1", "3-0", "21-17".
var scorePattern = regexp.MustCompile(`\b\d{1,2}-\d{1,2}\b`)

// Classify returns the topic label for a. It never fails; General is the
// worst case.
func Classify(a *article.Article) Label {
	if label, ok := fromCategories(a.Categories); ok {
		return label
	}
	return fromText(a.TitleEN + " " + a.Title + " " + a.Snippet)
}

// fromCategories maps source-declared categories through the substring rule
// table, in the article's declared order.
func fromCategories(categories []string) (Label, bool) {
	for _, raw := range categories {
		c := textnorm.Clean(raw)
		if c == "" {
			continue
		}
		for _, rule := range categoryRules {
			for _, sub := range rule.subs {
				if strings.Contains(c, sub) {
					return rule.label, true
				}
			}
		}
	}
	return General, false
}

// fromText runs the weighted keyword scorer over the normalized text blob.
func fromText(blob string) Label {
	text := textnorm.CleanKeepDashes(blob)
	if text == "" {
		return General
	}
	freq := tokenFrequencies(text)

	best := General
	bestScore, secondScore := sportsSentinel, sportsSentinel

	// Fixed label order keeps ties deterministic across runs.
	for _, label := range scoredLabels {
		score := scoreLabel(text, freq, scoring[label])
		if label == Sports {
			score = guardSports(score, text, freq)
		}
		if score > bestScore {
			secondScore = bestScore
			best, bestScore = label, score
		} else if score > secondScore {
			secondScore = score
		}
	}

	if bestScore < minScore {
		return General
	}
	if bestScore-secondScore < minMargin && bestScore < strongWin {
		return General
	}
	return best
}

// scoreLabel is Σ(strong weight × count) + Σ(keyword weight × count)
// − Σ(negative weight × count), plus a corroboration bonus: +1.0 when the
// text hits three or more distinct positive phrases, +0.5 for exactly two.
func scoreLabel(text string, freq map[string]int, rules ruleSet) float64 {
	var score float64
	distinct := 0

	for phrase, weight := range rules.strong {
		if n := countPhrase(text, freq, phrase); n > 0 {
			score += weight * float64(n)
			distinct++
		}
	}
	for phrase, weight := range rules.keywords {
		if n := countPhrase(text, freq, phrase); n > 0 {
			score += weight * float64(n)
			distinct++
		}
	}
	for phrase, weight := range rules.negative {
		if n := countPhrase(text, freq, phrase); n > 0 {
			score -= weight * float64(n)
		}
	}

	switch {
	case distinct >= 3:
		score += 1.0
	case distinct == 2:
		score += 0.5
	}
	return score
}

// guardSports suppresses the Sports score when the text carries no sports
// anchor, or when government/finance vocabulary dominates a middling score.
// Generic words like "campeonato" collide with political usage, so Sports
// must earn the label.
func guardSports(score float64, text string, freq map[string]int) float64 {
	if !hasSportsAnchor(text, freq) {
		return sportsSentinel
	}
	if score < sportsMin {
		return sportsSentinel
	}
	if countDominators(text, freq) >= 2 && score < sportsMin+3.0 {
		return sportsSentinel
	}
	return score
}

func hasSportsAnchor(text string, freq map[string]int) bool {
	for _, anchor := range sportsAnchors {
		if countPhrase(text, freq, anchor) > 0 {
			return true
		}
	}
	return scorePattern.MatchString(text)
}

func countDominators(text string, freq map[string]int) int {
	n := 0
	for _, term := range dominators {
		if countPhrase(text, freq, term) > 0 {
			n++
		}
	}
	return n
}

// countPhrase counts occurrences: exact-token matches for single words,
// substring containment for multi-word phrases.
func countPhrase(text string, freq map[string]int, phrase string) int {
	if !strings.Contains(phrase, " ") {
		return freq[phrase]
	}
	return strings.Count(text, phrase)
}

func tokenFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, tok := range strings.Fields(text) {
		freq[tok]++
	}
	return freq
}
