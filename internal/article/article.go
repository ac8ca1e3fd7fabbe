// Package article holds the transient news item that flows through the
// collection pipeline: built from a raw feed entry, annotated by the
// deduplicator, classifier and ranker, and discarded once a response is built.
package article

import "time"

// Article is a single news entry from one outlet. Link is the identity key.
type Article struct {
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	Source    string    `json:"source"`
	Country   string    `json:"country"`
	Published time.Time `json:"published"`
	Snippet   string    `json:"snippet,omitempty"`

	// Categories as declared by the source feed, in feed order.
	Categories []string `json:"categories,omitempty"`

	// Derived fields, filled in during a collection pass.
	Topic      string  `json:"topic,omitempty"`
	Signature  string  `json:"-"`
	Duplicates int     `json:"duplicates_count,omitempty"`
	Score      float64 `json:"score,omitempty"`

	// Enrichment, attached from the durable cache when present.
	TitleEN    string `json:"title_en,omitempty"`
	SummaryEN  string `json:"summary_en,omitempty"`
	CacheFresh bool   `json:"cache_fresh,omitempty"`
}

// Enriched reports whether the article carries a full translation.
func (a *Article) Enriched() bool {
	return a.TitleEN != "" && a.SummaryEN != ""
}

// HasPublished reports whether the publish timestamp is known.
func (a *Article) HasPublished() bool {
	return !a.Published.IsZero()
}

// Clone returns a deep copy; the Categories slice is not shared.
func (a Article) Clone() Article {
	if a.Categories != nil {
		cats := make([]string, len(a.Categories))
		copy(cats, a.Categories)
		a.Categories = cats
	}
	return a
}

// CloneAll deep-copies a result slice so cached payloads cannot be mutated
// by callers.
func CloneAll(items []Article) []Article {
	if items == nil {
		return nil
	}
	out := make([]Article, len(items))
	for i, a := range items {
		out[i] = a.Clone()
	}
	return out
}
