// Package worker runs the background enrichment loop: every cycle it scans
// the configured (country, time-range) buckets for articles with missing or
// stale translations and refreshes them in bounded batches. Failures are
// recorded and never abort the loop.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/deusflow/uynews/internal/ai"
	"github.com/deusflow/uynews/internal/article"
	"github.com/deusflow/uynews/internal/config"
	"github.com/deusflow/uynews/internal/enrich"
	"github.com/deusflow/uynews/internal/logger"
)

// Bucket is one (country, time-range) scan unit.
type Bucket struct {
	Country string
	Range   string
}

func (b Bucket) key() string { return b.Country + "/" + b.Range }

// CollectFunc returns the deduped, ranked recent articles for one bucket.
// The service layer provides it so worker and query path share a pipeline.
type CollectFunc func(ctx context.Context, country, timeRange string) ([]article.Article, error)

// BucketStats counts one bucket's outcome in the latest cycle.
type BucketStats struct {
	Scanned       int `json:"scanned"`
	AlreadyCached int `json:"already_cached"`
	Queued        int `json:"queued"`
	Enriched      int `json:"enriched"`
}

// Worker owns the loop. Stats are overwritten each cycle and read-only to
// Status callers.
type Worker struct {
	cfg      *config.Config
	enricher *enrich.Enricher
	collect  CollectFunc
	buckets  []Bucket

	mu            sync.Mutex
	running       bool
	lastRunUTC    string
	lastGoodUTC   string
	lastError     string
	totalEnriched int64
	staleBacklog  int
	bucketStats   map[string]BucketStats

	stopOnce sync.Once
	stop     chan struct{}
	done     chan struct{}
}

func New(cfg *config.Config, enricher *enrich.Enricher, collect CollectFunc, buckets []Bucket) *Worker {
	return &Worker{
		cfg:         cfg,
		enricher:    enricher,
		collect:     collect,
		buckets:     buckets,
		bucketStats: make(map[string]BucketStats),
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start launches the loop unless the worker is disabled by configuration.
func (w *Worker) Start() {
	if !w.cfg.WorkerEnabled {
		logger.Info("enrichment worker disabled")
		close(w.done)
		return
	}
	go w.run()
}

// Stop asks the loop to exit at the next sleep boundary and waits for it.
// An in-flight batch call is not interrupted.
func (w *Worker) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
	<-w.done
}

func (w *Worker) stopped() bool {
	select {
	case <-w.stop:
		return true
	default:
		return false
	}
}

func (w *Worker) run() {
	defer close(w.done)
	logger.Info("enrichment worker started", "buckets", len(w.buckets))

	for {
		w.runCycle(context.Background())

		// Re-read the interval each cycle so it can be retuned at
		// runtime, and sleep in small slices so Stop is honored
		// promptly.
		interval := w.cfg.WorkerInterval()
		deadline := time.Now().Add(interval)
		for time.Now().Before(deadline) {
			select {
			case <-w.stop:
				logger.Info("enrichment worker stopped")
				return
			case <-time.After(time.Second):
			}
		}
		if w.stopped() {
			logger.Info("enrichment worker stopped")
			return
		}
	}
}

func (w *Worker) runCycle(ctx context.Context) {
	w.mu.Lock()
	w.running = true
	w.lastError = ""
	w.lastRunUTC = time.Now().UTC().Format(time.RFC3339)
	w.mu.Unlock()

	cycleBudget := w.cfg.WorkerMaxPerCycle
	stats := make(map[string]BucketStats, len(w.buckets))
	cycleFailed := false

	for _, bucket := range w.buckets {
		if w.stopped() {
			break
		}

		bs, err := w.runBucket(ctx, bucket, &cycleBudget)
		stats[bucket.key()] = bs
		if err != nil {
			cycleFailed = true
			w.mu.Lock()
			w.lastError = err.Error()
			w.mu.Unlock()
			logger.Warn("worker bucket failed", "bucket", bucket.key(), "error", err)
		}
	}

	// Gauge, not a work queue: stale records get refreshed when their
	// article resurfaces in a bucket scan.
	backlog := 0
	if stale, err := w.enricher.StaleBacklog(ctx, 500); err == nil {
		backlog = len(stale)
	}

	w.mu.Lock()
	w.running = false
	w.bucketStats = stats
	w.staleBacklog = backlog
	if !cycleFailed {
		w.lastGoodUTC = time.Now().UTC().Format(time.RFC3339)
	}
	w.mu.Unlock()
}

func (w *Worker) runBucket(ctx context.Context, bucket Bucket, cycleBudget *int) (BucketStats, error) {
	var bs BucketStats

	articles, err := w.collect(ctx, bucket.Country, bucket.Range)
	if err != nil {
		return bs, err
	}

	top := articles
	if w.cfg.WorkerScanTop > 0 && len(top) > w.cfg.WorkerScanTop {
		top = top[:w.cfg.WorkerScanTop]
	}
	bs.Scanned = len(top)

	var candidates []ai.Item
	for _, a := range top {
		if a.Link == "" {
			continue
		}
		if !w.enricher.NeedsRefresh(ctx, a.Link) {
			bs.AlreadyCached++
			continue
		}
		candidates = append(candidates, ai.Item{
			Link:    a.Link,
			Source:  a.Source,
			Title:   a.Title,
			Snippet: a.Snippet,
		})
	}

	if w.cfg.WorkerMaxBucket > 0 && len(candidates) > w.cfg.WorkerMaxBucket {
		candidates = candidates[:w.cfg.WorkerMaxBucket]
	}
	if *cycleBudget >= 0 && len(candidates) > *cycleBudget {
		candidates = candidates[:*cycleBudget]
	}
	bs.Queued = len(candidates)
	*cycleBudget -= len(candidates)

	batchSize := w.cfg.WorkerBatchSize
	if batchSize < 1 {
		batchSize = 1
	}
	for i := 0; i < len(candidates); i += batchSize {
		if w.stopped() {
			break
		}
		end := i + batchSize
		if end > len(candidates) {
			end = len(candidates)
		}
		done := w.enricher.EnrichBatch(ctx, candidates[i:end])
		bs.Enriched += len(done)
	}

	w.mu.Lock()
	w.totalEnriched += int64(bs.Enriched)
	w.mu.Unlock()

	return bs, nil
}

// Status returns a point-in-time snapshot of the worker state and its
// configuration.
func (w *Worker) Status() map[string]interface{} {
	w.mu.Lock()
	defer w.mu.Unlock()

	buckets := make(map[string]BucketStats, len(w.bucketStats))
	for k, v := range w.bucketStats {
		buckets[k] = v
	}

	return map[string]interface{}{
		"enabled":           w.cfg.WorkerEnabled,
		"running":           w.running,
		"last_run_utc":      w.lastRunUTC,
		"last_success_utc":  w.lastGoodUTC,
		"last_error":        w.lastError,
		"total_enriched":    w.totalEnriched,
		"stale_backlog":     w.staleBacklog,
		"buckets":           buckets,
		"interval_seconds":  int(w.cfg.WorkerInterval().Seconds()),
		"batch_size":        w.cfg.WorkerBatchSize,
		"max_per_cycle":     w.cfg.WorkerMaxPerCycle,
		"max_per_bucket":    w.cfg.WorkerMaxBucket,
		"cache_ttl_seconds": int(w.enricher.TTL().Seconds()),
		"in_flight":         w.enricher.Inflight().Len(),
	}
}
