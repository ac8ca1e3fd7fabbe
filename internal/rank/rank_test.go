package rank

import (
	"testing"
	"time"

	"github.com/deusflow/uynews/internal/article"
)

var now = time.Date(2026, 8, 29, 12, 0, 0, 0, time.UTC)

func TestScore_FresherScoresHigher(t *testing.T) {
	cfg := DefaultConfig()
	fresh := article.Article{Published: now.Add(-1 * time.Hour)}
	old := article.Article{Published: now.Add(-48 * time.Hour)}

	if Score(&fresh, now, cfg) <= Score(&old, now, cfg) {
		t.Error("a 1h-old article must outscore a 48h-old one")
	}
}

func TestScore_ConsensusScoresHigher(t *testing.T) {
	cfg := DefaultConfig()
	published := now.Add(-2 * time.Hour)
	lone := article.Article{Published: published}
	popular := article.Article{Published: published, Duplicates: 5}

	if Score(&popular, now, cfg) <= Score(&lone, now, cfg) {
		t.Error("five covering outlets must outscore one")
	}
}

func TestScore_UnknownAgeNearZeroRecency(t *testing.T) {
	cfg := DefaultConfig()
	unknown := article.Article{}
	old := article.Article{Published: now.Add(-14 * 24 * time.Hour)}

	if Score(&unknown, now, cfg) >= Score(&old, now, cfg) {
		t.Error("unknown publish time must score below even a two-week-old article")
	}
}

func TestScore_FutureTimestampClampedToNow(t *testing.T) {
	cfg := DefaultConfig()
	future := article.Article{Published: now.Add(time.Hour)}
	current := article.Article{Published: now}

	if Score(&future, now, cfg) != Score(&current, now, cfg) {
		t.Error("a future timestamp must score as age zero, not negative age")
	}
}

func TestScore_EnrichmentBonus(t *testing.T) {
	cfg := DefaultConfig()
	published := now.Add(-2 * time.Hour)
	plain := article.Article{Published: published}
	enriched := article.Article{Published: published, TitleEN: "Title", SummaryEN: "Summary."}

	if Score(&enriched, now, cfg) <= Score(&plain, now, cfg) {
		t.Error("an enriched article must get a bonus over an identical plain one")
	}
}

func TestRank_SortsByScoreDescending(t *testing.T) {
	items := []article.Article{
		{Link: "old", Published: now.Add(-72 * time.Hour)},
		{Link: "fresh", Published: now.Add(-1 * time.Hour)},
		{Link: "mid", Published: now.Add(-20 * time.Hour)},
	}
	out := Rank(items, now, DefaultConfig())
	want := []string{"fresh", "mid", "old"}
	for i, link := range want {
		if out[i].Link != link {
			t.Fatalf("position %d = %s, want %s", i, out[i].Link, link)
		}
	}
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	items := []article.Article{
		{Link: "a", Published: now.Add(-72 * time.Hour)},
		{Link: "b", Published: now.Add(-1 * time.Hour)},
	}
	Rank(items, now, DefaultConfig())
	if items[0].Link != "a" || items[0].Score != 0 {
		t.Error("Rank must sort a copy, not the caller's slice")
	}
}

func TestRank_UnknownTimeSortsLast(t *testing.T) {
	items := []article.Article{
		{Link: "unknown"},
		{Link: "dated", Published: now.Add(-6 * 24 * time.Hour)},
	}
	out := Rank(items, now, DefaultConfig())
	if out[len(out)-1].Link != "unknown" {
		t.Error("article without a publish time must rank last")
	}
}

func TestRank_StableOnTies(t *testing.T) {
	published := now.Add(-3 * time.Hour)
	items := []article.Article{
		{Link: "first", Published: published},
		{Link: "second", Published: published},
	}
	out := Rank(items, now, DefaultConfig())
	if out[0].Link != "first" || out[1].Link != "second" {
		t.Error("equal scores and timestamps must keep input order")
	}
}

func TestScore_SourceWeightAdjusts(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SourceWeights = map[string]float64{"Trusted": 1.5, "Spammy": 0.5}
	published := now.Add(-2 * time.Hour)

	trusted := article.Article{Source: "Trusted", Published: published}
	neutral := article.Article{Source: "Other", Published: published}
	spammy := article.Article{Source: "Spammy", Published: published}

	st, sn, ss := Score(&trusted, now, cfg), Score(&neutral, now, cfg), Score(&spammy, now, cfg)
	if !(st > sn && sn > ss) {
		t.Errorf("source weights must order trusted > neutral > spammy, got %.3f %.3f %.3f", st, sn, ss)
	}
}
