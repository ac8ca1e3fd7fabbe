// Package enrich coordinates the durable enrichment cache, the external
// translation call and the in-flight claim set shared between the
// background worker and request-triggered enrichment.
package enrich

import (
	"context"
	"time"

	"github.com/deusflow/uynews/internal/ai"
	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/logger"
	"github.com/deusflow/uynews/internal/retry"
	"github.com/deusflow/uynews/internal/storage"
)

// Enricher owns the enrichment flow. The durable store is the single source
// of truth; store failures degrade to "no cached enrichment" on reads and
// best-effort on writes.
type Enricher struct {
	store      storage.Store
	translator ai.Translator
	inflight   *Inflight

	ttl         time.Duration
	callTimeout time.Duration
	retryCfg    retry.Config
}

func New(store storage.Store, translator ai.Translator, ttl, callTimeout time.Duration, retryCfg retry.Config) *Enricher {
	return &Enricher{
		store:       store,
		translator:  translator,
		inflight:    NewInflight(),
		ttl:         ttl,
		callTimeout: callTimeout,
		retryCfg:    retryCfg,
	}
}

// Inflight exposes the claim set for status reporting.
func (e *Enricher) Inflight() *Inflight { return e.inflight }

// TTL returns the configured enrichment freshness window.
func (e *Enricher) TTL() time.Duration { return e.ttl }

// Attach looks up the cached enrichment for a and fills the translated
// fields when a record exists, fresh or not. Stale data still beats none;
// the freshness flag tells the caller (and the worker) what to refresh.
func (e *Enricher) Attach(ctx context.Context, a *article.Article) {
	rec, ok, err := e.store.Get(ctx, a.Link)
	if err != nil {
		logger.Warn("enrichment lookup failed", "link", a.Link, "error", err)
		return
	}
	if !ok {
		return
	}
	a.TitleEN = rec.TitleEN
	a.SummaryEN = rec.SummaryEN
	a.CacheFresh = storage.IsFresh(rec, e.ttl, time.Now())
}

// StaleBacklog returns up to limit links whose stored enrichment has aged
// past the TTL, oldest first.
func (e *Enricher) StaleBacklog(ctx context.Context, limit int) ([]string, error) {
	return e.store.ScanStale(ctx, limit, e.ttl)
}

// NeedsRefresh reports whether link has no fresh enrichment record.
func (e *Enricher) NeedsRefresh(ctx context.Context, link string) bool {
	rec, ok, err := e.store.Get(ctx, link)
	if err != nil || !ok {
		return true
	}
	return !storage.IsFresh(rec, e.ttl, time.Now())
}

// EnrichBatch translates the given items and writes successes to the
// durable store. Links already claimed elsewhere are skipped; everything
// claimed here is released on all paths. The returned map holds only links
// actually translated by the model.
func (e *Enricher) EnrichBatch(ctx context.Context, items []ai.Item) map[string]ai.Translation {
	claimed := make([]ai.Item, 0, len(items))
	for _, it := range items {
		if it.Link == "" {
			continue
		}
		if !e.inflight.TryClaim(it.Link) {
			logger.Debug("link already being enriched", "link", it.Link)
			continue
		}
		claimed = append(claimed, it)
	}
	defer func() {
		for _, it := range claimed {
			e.inflight.Release(it.Link)
		}
	}()

	if len(claimed) == 0 {
		return map[string]ai.Translation{}
	}

	var result map[string]ai.Translation
	err := retry.WithRetry(ctx, e.retryCfg, func() error {
		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		defer cancel()
		var callErr error
		result, callErr = e.translator.TranslateBatch(callCtx, claimed)
		return callErr
	})
	if err != nil {
		// A failed batch yields zero enrichments; the caller decides
		// whether to serve untranslated fallbacks.
		logger.Warn("translation batch failed", "items", len(claimed), "error", err)
		return map[string]ai.Translation{}
	}

	for link, t := range result {
		if putErr := e.store.Put(ctx, link, t.TitleEN, t.SummaryEN); putErr != nil {
			logger.Warn("enrichment write failed", "link", link, "error", putErr)
		}
	}
	return result
}
