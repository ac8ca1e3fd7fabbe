// Package rank computes a scalar order score per article from recency,
// duplicate consensus, snippet quality and enrichment state, and sorts
// result lists by it.
package rank

import (
	"math"
	"sort"
	"time"

	"github.com/deusflow/uynews/internal/article"
)

// Config tunes the scoring function. Recency stays dominant, consensus
// second, then gentle nudges.
type Config struct {
	// DecayHours is the exponential decay constant: a same-day story must
	// clearly outrank a multi-day-old one.
	DecayHours float64

	WeightRecency   float64
	WeightConsensus float64
	WeightSource    float64
	WeightEnriched  float64
	WeightSnippet   float64

	EnrichedBonus float64

	// SnippetCap is the snippet length beyond which the length term stops
	// growing.
	SnippetCap int

	// SourceWeights holds per-outlet adjustments; 1.0 (or absent) is
	// neutral.
	SourceWeights map[string]float64
}

// DefaultConfig keeps sources neutral until there is reason to tune them.
func DefaultConfig() Config {
	return Config{
		DecayHours:      18.0,
		WeightRecency:   1.00,
		WeightConsensus: 0.35,
		WeightSource:    0.10,
		WeightEnriched:  0.05,
		WeightSnippet:   0.05,
		EnrichedBonus:   0.10,
		SnippetCap:      400,
		SourceWeights:   map[string]float64{},
	}
}

// unknownAgeHours treats articles without a publish timestamp as very old.
const unknownAgeHours = 10000.0

// Score computes the order score for a at the given instant. Monotonic in
// recency and in duplicate consensus.
func Score(a *article.Article, now time.Time, cfg Config) float64 {
	ageHours := unknownAgeHours
	if a.HasPublished() {
		age := now.Sub(a.Published)
		if age < 0 {
			age = 0
		}
		ageHours = age.Hours()
	}

	decay := math.Max(1.0, cfg.DecayHours)
	recency := math.Exp(-ageHours / decay)

	dups := a.Duplicates
	if dups < 1 {
		dups = 1
	}
	consensus := math.Log1p(float64(dups))

	sourceBoost := 0.0
	if w, ok := cfg.SourceWeights[a.Source]; ok {
		sourceBoost = w - 1.0
	}

	enriched := 0.0
	if a.TitleEN != "" || a.SummaryEN != "" {
		enriched = cfg.EnrichedBonus
	}

	snippet := 0.0
	if cfg.SnippetCap > 0 {
		n := len(a.Snippet)
		if n > cfg.SnippetCap {
			n = cfg.SnippetCap
		}
		snippet = float64(n) / float64(cfg.SnippetCap)
	}

	return cfg.WeightRecency*recency +
		cfg.WeightConsensus*consensus +
		cfg.WeightSource*sourceBoost +
		cfg.WeightEnriched*enriched +
		cfg.WeightSnippet*snippet
}

// Rank attaches scores and returns a new slice sorted by score descending,
// then publish time descending; unknown publish times sort last among equal
// scores. The sort is stable, so true ties keep input order.
func Rank(items []article.Article, now time.Time, cfg Config) []article.Article {
	out := make([]article.Article, len(items))
	copy(out, items)
	for i := range out {
		out[i].Score = Score(&out[i], now, cfg)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].Published.After(out[j].Published)
	})
	return out
}
