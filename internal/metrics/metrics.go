// Package metrics tracks pipeline counters for the monitoring endpoints.
// One Metrics instance is created at startup and injected where needed.
package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	QueriesServed          int64
	ResponseCacheHits      int64
	ResponseCacheMisses    int64
	EntriesCollected       int64
	DuplicatesCollapsed    int64
	SuccessfulTranslations int64
	FailedTranslations     int64
	RateLimitRejections    int64

	// Timings
	LastQueryTime    time.Duration
	TotalQueryTime   time.Duration
	AverageQueryTime time.Duration
	QueryCount       int64

	// Status
	LastRunTime   time.Time
	LastErrorTime time.Time
	LastError     string
	IsHealthy     bool
}

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) IncrementQueries() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.QueriesServed++
}

func (m *Metrics) IncrementCacheHit() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseCacheHits++
}

func (m *Metrics) IncrementCacheMiss() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ResponseCacheMisses++
}

func (m *Metrics) AddEntriesCollected(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EntriesCollected += int64(n)
}

func (m *Metrics) AddDuplicatesCollapsed(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DuplicatesCollapsed += int64(n)
}

func (m *Metrics) AddTranslations(ok, failed int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SuccessfulTranslations += int64(ok)
	m.FailedTranslations += int64(failed)
}

func (m *Metrics) IncrementRateLimited() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RateLimitRejections++
}

func (m *Metrics) RecordQueryTime(duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.LastQueryTime = duration
	m.TotalQueryTime += duration
	m.QueryCount++
	m.AverageQueryTime = m.TotalQueryTime / time.Duration(m.QueryCount)
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"queries_served":          m.QueriesServed,
		"response_cache_hits":     m.ResponseCacheHits,
		"response_cache_misses":   m.ResponseCacheMisses,
		"entries_collected":       m.EntriesCollected,
		"duplicates_collapsed":    m.DuplicatesCollapsed,
		"successful_translations": m.SuccessfulTranslations,
		"failed_translations":     m.FailedTranslations,
		"rate_limit_rejections":   m.RateLimitRejections,
		"last_query_time_ms":      m.LastQueryTime.Milliseconds(),
		"average_query_time_ms":   m.AverageQueryTime.Milliseconds(),
		"last_run_time":           m.LastRunTime.Format(time.RFC3339),
		"last_error_time":         m.LastErrorTime.Format(time.RFC3339),
		"last_error":              m.LastError,
		"is_healthy":              m.IsHealthy,
	}
}
