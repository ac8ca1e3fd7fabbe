// Package storage is the durable tier of the enrichment cache: one record
// per link, idempotent upserts, freshness derived purely from record age.
package storage

import (
	"context"
	"errors"
	"time"
)

// Record is a cached enrichment for one link. CreatedUTC is stored as an
// RFC 3339 string; a record whose timestamp cannot be parsed is never fresh.
type Record struct {
	Link       string
	TitleEN    string
	SummaryEN  string
	CreatedUTC string
}

// ErrUnavailable wraps store backend failures so the query path can degrade
// to "no cached enrichment" instead of failing the request.
var ErrUnavailable = errors.New("enrichment store unavailable")

// Store is the key-value collaborator over the (link → Record) relation.
type Store interface {
	// Get returns the record for link, or ok=false when none exists.
	Get(ctx context.Context, link string) (Record, bool, error)
	// Put upserts both translated fields together and stamps the record
	// with the current UTC time. Last writer wins.
	Put(ctx context.Context, link, titleEN, summaryEN string) error
	// ScanStale returns up to limit links whose record is older than ttl,
	// oldest first.
	ScanStale(ctx context.Context, limit int, ttl time.Duration) ([]string, error)
	// Cleanup deletes records older than the retention window.
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
	Close() error
}

// IsFresh reports whether r is younger than ttl at the given instant.
// Missing or unparseable timestamps are stale by definition.
func IsFresh(r Record, ttl time.Duration, now time.Time) bool {
	created, err := time.Parse(time.RFC3339, r.CreatedUTC)
	if err != nil {
		return false
	}
	return now.Sub(created) <= ttl
}

// NowUTC formats the current instant the way records store it.
func NowUTC(now time.Time) string {
	return now.UTC().Format(time.RFC3339)
}
