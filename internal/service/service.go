// Package service is the boundary consumed by the HTTP layer: a query
// operation returning ranked, deduped, classified articles; a rate-limited
// enrichment operation; and a status operation for observability.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/deusflow/uynews/internal/ai"
	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/cluster"
	"github.com/deusflow/uynews/internal/config"
	"github.com/deusflow/uynews/internal/enrich"
	"github.com/deusflow/uynews/internal/metrics"
	"github.com/deusflow/uynews/internal/rank"
	"github.com/deusflow/uynews/internal/ratelimit"
	"github.com/deusflow/uynews/internal/respcache"
	"github.com/deusflow/uynews/internal/textnorm"
	"github.com/deusflow/uynews/internal/topic"
	"github.com/deusflow/uynews/internal/worker"
)

// ErrInvalidQuery marks client-input faults: unsupported country or range.
var ErrInvalidQuery = errors.New("invalid query")

// RateLimitError is a retryable rejection from the enrichment endpoint.
type RateLimitError struct {
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded, retry after %s", e.RetryAfter)
}

// ArticleSource yields the raw entries for one country. Implemented by
// internal/feed; faked in tests.
type ArticleSource interface {
	FetchCountry(ctx context.Context, country string) []article.Article
}

// QueryParams is the normalized query request.
type QueryParams struct {
	Country string
	Range   string
	Search  string
	Limit   int
}

// EnrichResult is the per-link outcome of the enrichment operation.
type EnrichResult struct {
	Link      string `json:"link"`
	TitleEN   string `json:"title_en"`
	SummaryEN string `json:"summary_en"`
	Cached    bool   `json:"cached"`
	Fallback  bool   `json:"fallback,omitempty"`
}

type Service struct {
	cfg      *config.Config
	source   ArticleSource
	enricher *enrich.Enricher
	cache    *respcache.Cache
	limiter  *ratelimit.Limiter
	metrics  *metrics.Metrics
	rankCfg  rank.Config

	wrk *worker.Worker
}

func New(cfg *config.Config, source ArticleSource, enricher *enrich.Enricher,
	cache *respcache.Cache, limiter *ratelimit.Limiter, m *metrics.Metrics) *Service {
	return &Service{
		cfg:      cfg,
		source:   source,
		enricher: enricher,
		cache:    cache,
		limiter:  limiter,
		metrics:  m,
		rankCfg:  rank.DefaultConfig(),
	}
}

// AttachWorker hooks the background worker in for status reporting. The
// worker itself is built around Collect, so it cannot exist before the
// service does.
func (s *Service) AttachWorker(w *worker.Worker) { s.wrk = w }

func rangeDuration(r string) (time.Duration, bool) {
	switch r {
	case "24h":
		return 24 * time.Hour, true
	case "3d":
		return 3 * 24 * time.Hour, true
	case "7d":
		return 7 * 24 * time.Hour, true
	default:
		return 0, false
	}
}

func (s *Service) validCountry(country string) bool {
	for _, c := range s.cfg.Countries {
		if c == country {
			return true
		}
	}
	return false
}

// Collect runs one collection pass for a (country, range) bucket: fetch,
// age-filter, attach cached enrichments, dedupe, classify, rank. Pure with
// respect to this pass's snapshot. Also the worker's CollectFunc.
func (s *Service) Collect(ctx context.Context, country, timeRange string) ([]article.Article, error) {
	maxAge, ok := rangeDuration(timeRange)
	if !ok {
		return nil, fmt.Errorf("%w: unsupported range %q", ErrInvalidQuery, timeRange)
	}

	raw := s.source.FetchCountry(ctx, country)
	s.metrics.AddEntriesCollected(len(raw))

	now := time.Now()
	items := make([]article.Article, 0, len(raw))
	for _, a := range raw {
		// Entries without a parsable date pass the age filter; they
		// rank last anyway.
		if a.HasPublished() && now.Sub(a.Published) > maxAge {
			continue
		}
		s.enricher.Attach(ctx, &a)
		a.Signature = cluster.Signature(&a)
		items = append(items, a)
	}

	deduped := cluster.Dedupe(items)
	s.metrics.AddDuplicatesCollapsed(len(items) - len(deduped))

	for i := range deduped {
		deduped[i].Topic = string(topic.Classify(&deduped[i]))
	}

	return rank.Rank(deduped, now, s.rankCfg), nil
}

// Query returns the ranked article list for params, served from the
// response cache when a fresh entry exists.
func (s *Service) Query(ctx context.Context, params QueryParams) ([]article.Article, error) {
	started := time.Now()
	s.metrics.IncrementQueries()

	params.Country = strings.ToLower(strings.TrimSpace(params.Country))
	params.Range = strings.TrimSpace(params.Range)
	params.Search = strings.TrimSpace(params.Search)

	if !s.validCountry(params.Country) {
		return nil, fmt.Errorf("%w: unsupported country %q", ErrInvalidQuery, params.Country)
	}
	if _, ok := rangeDuration(params.Range); !ok {
		return nil, fmt.Errorf("%w: unsupported range %q", ErrInvalidQuery, params.Range)
	}
	if params.Limit <= 0 {
		params.Limit = s.cfg.DefaultLimit
	}
	if params.Limit > s.cfg.MaxLimit {
		params.Limit = s.cfg.MaxLimit
	}

	key := cacheKey(params)
	if payload, _, hit := s.cache.Get(key); hit {
		s.metrics.IncrementCacheHit()
		return payload, nil
	}
	s.metrics.IncrementCacheMiss()

	ranked, err := s.Collect(ctx, params.Country, params.Range)
	if err != nil {
		// Health tracks system faults; a malformed request is the
		// client's problem, not the process's.
		if !errors.Is(err, ErrInvalidQuery) {
			s.metrics.SetError(err.Error())
		}
		return nil, err
	}

	if params.Search != "" {
		ranked = filterSearch(ranked, params.Search)
	}
	if len(ranked) > params.Limit {
		ranked = ranked[:params.Limit]
	}

	s.cache.Set(key, ranked)
	s.metrics.RecordQueryTime(time.Since(started))
	return ranked, nil
}

func cacheKey(p QueryParams) string {
	return fmt.Sprintf("%s|%s|%s|%d", p.Country, p.Range, textnorm.Clean(p.Search), p.Limit)
}

// filterSearch keeps articles whose title, snippet or translation contains
// the search text, compared diacritic- and case-insensitively.
func filterSearch(items []article.Article, search string) []article.Article {
	needle := textnorm.Clean(search)
	if needle == "" {
		return items
	}
	out := items[:0:0]
	for _, a := range items {
		blob := textnorm.Clean(a.Title + " " + a.Snippet + " " + a.TitleEN + " " + a.SummaryEN)
		if strings.Contains(blob, needle) {
			out = append(out, a)
		}
	}
	return out
}

// Enrich translates a batch of items on behalf of clientID, subject to rate
// limiting. Links with a fresh cached record are answered from the store;
// the rest go to the model, and items the model fails on fall back to
// untranslated fields.
func (s *Service) Enrich(ctx context.Context, clientID string, items []ai.Item) ([]EnrichResult, error) {
	if allowed, retryAfter := s.limiter.Admit(clientID); !allowed {
		s.metrics.IncrementRateLimited()
		return nil, &RateLimitError{RetryAfter: retryAfter}
	}

	var pending []ai.Item
	results := make([]EnrichResult, 0, len(items))
	cached := make(map[string]EnrichResult, len(items))

	for _, it := range items {
		if it.Link == "" {
			continue
		}
		a := article.Article{Link: it.Link}
		s.enricher.Attach(ctx, &a)
		if a.CacheFresh && a.Enriched() {
			cached[it.Link] = EnrichResult{
				Link: it.Link, TitleEN: a.TitleEN, SummaryEN: a.SummaryEN, Cached: true,
			}
			continue
		}
		pending = append(pending, it)
	}

	translated := map[string]ai.Translation{}
	if len(pending) > 0 {
		translated = s.enricher.EnrichBatch(ctx, pending)
	}
	s.metrics.AddTranslations(len(translated), len(pending)-len(translated))

	for _, it := range items {
		if it.Link == "" {
			continue
		}
		if r, ok := cached[it.Link]; ok {
			results = append(results, r)
			continue
		}
		if t, ok := translated[it.Link]; ok {
			results = append(results, EnrichResult{
				Link: it.Link, TitleEN: t.TitleEN, SummaryEN: t.SummaryEN,
			})
			continue
		}
		fb := ai.Fallback(it)
		results = append(results, EnrichResult{
			Link: it.Link, TitleEN: fb.TitleEN, SummaryEN: fb.SummaryEN, Fallback: true,
		})
	}
	return results, nil
}

// Status reports worker state and cache/limiter configuration.
func (s *Service) Status() map[string]interface{} {
	status := map[string]interface{}{
		"pipeline": s.metrics.GetStats(),
		"response_cache": map[string]interface{}{
			"ttl_seconds": int(s.cache.TTL().Seconds()),
			"max_entries": s.cache.MaxEntries(),
			"entries":     s.cache.Len(),
		},
		"rate_limiter": map[string]interface{}{
			"limit":          s.limiter.Limit(),
			"window_seconds": int(s.limiter.Window().Seconds()),
		},
	}
	if s.wrk != nil {
		status["worker"] = s.wrk.Status()
	}
	return status
}
