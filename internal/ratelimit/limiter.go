// Package ratelimit guards the enrichment entry point with per-client
// sliding-window admission control. State is process-local: a restart
// forgives everyone.
package ratelimit

import (
	"sync"
	"time"
)

// Limiter tracks recent request timestamps per client id. Stale timestamps
// are pruned on every check, so a bucket never holds more than one window's
// worth of entries.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	limit   int
	buckets map[string][]time.Time

	now func() time.Time // test hook
}

// New builds a limiter admitting at most limit requests per client within
// window. limit <= 0 disables limiting (every request is allowed).
func New(limit int, window time.Duration) *Limiter {
	return &Limiter{
		window:  window,
		limit:   limit,
		buckets: make(map[string][]time.Time),
		now:     time.Now,
	}
}

// Admit records a request from clientID and reports whether it is allowed.
// On denial, retryAfter suggests how long the client should wait before the
// oldest counted request leaves the window.
func (l *Limiter) Admit(clientID string) (allowed bool, retryAfter time.Duration) {
	if l.limit <= 0 {
		return true, 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)

	recent := l.buckets[clientID][:0]
	for _, t := range l.buckets[clientID] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= l.limit {
		l.buckets[clientID] = recent
		retry := l.window - now.Sub(recent[0])
		if retry < time.Second {
			retry = time.Second
		}
		return false, retry
	}

	l.buckets[clientID] = append(recent, now)
	return true, 0
}

// Limit returns the configured per-window request cap.
func (l *Limiter) Limit() int { return l.limit }

// Window returns the configured sliding window.
func (l *Limiter) Window() time.Duration { return l.window }
