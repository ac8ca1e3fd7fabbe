package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "cache.sqlite3"))
	if err != nil {
		t.Fatalf("OpenSQLite: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLite_PutGetRoundTrip(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "https://a.uy/1", "Title EN", "Summary EN."); err != nil {
		t.Fatalf("Put: %v", err)
	}

	r, ok, err := s.Get(ctx, "https://a.uy/1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if r.TitleEN != "Title EN" || r.SummaryEN != "Summary EN." {
		t.Errorf("got record %+v", r)
	}
	if _, err := time.Parse(time.RFC3339, r.CreatedUTC); err != nil {
		t.Errorf("CreatedUTC %q is not RFC3339: %v", r.CreatedUTC, err)
	}
}

func TestSQLite_GetMissing(t *testing.T) {
	s := openTestStore(t)

	_, ok, err := s.Get(context.Background(), "https://a.uy/missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if ok {
		t.Error("missing link must report ok=false")
	}
}

func TestSQLite_PutOverwrites(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "https://a.uy/1", "First", "First summary."); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if err := s.Put(ctx, "https://a.uy/1", "Second", "Second summary."); err != nil {
		t.Fatalf("Put again: %v", err)
	}

	r, ok, err := s.Get(ctx, "https://a.uy/1")
	if err != nil || !ok {
		t.Fatalf("Get: ok=%v err=%v", ok, err)
	}
	if r.TitleEN != "Second" {
		t.Errorf("TitleEN = %q, want the last write", r.TitleEN)
	}
}

func TestSQLite_ScanStale(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "https://a.uy/fresh", "T", "S"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	// Backdate one record past any reasonable TTL.
	if _, err := s.db.Exec(`UPDATE enrich_cache SET created_utc = ? WHERE link = ?`,
		NowUTC(time.Now().Add(-30*24*time.Hour)), "https://a.uy/fresh"); err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if err := s.Put(ctx, "https://a.uy/new", "T", "S"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	stale, err := s.ScanStale(ctx, 10, 7*24*time.Hour)
	if err != nil {
		t.Fatalf("ScanStale: %v", err)
	}
	if len(stale) != 1 || stale[0] != "https://a.uy/fresh" {
		t.Errorf("stale = %v, want only the backdated link", stale)
	}
}

func TestSQLite_Cleanup(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "https://a.uy/old", "T", "S"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := s.db.Exec(`UPDATE enrich_cache SET created_utc = ? WHERE link = ?`,
		NowUTC(time.Now().Add(-60*24*time.Hour)), "https://a.uy/old"); err != nil {
		t.Fatalf("backdate: %v", err)
	}
	if err := s.Put(ctx, "https://a.uy/recent", "T", "S"); err != nil {
		t.Fatalf("Put: %v", err)
	}

	deleted, err := s.Cleanup(ctx, 30*24*time.Hour)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 1 {
		t.Errorf("deleted = %d, want 1", deleted)
	}
	if _, ok, _ := s.Get(ctx, "https://a.uy/recent"); !ok {
		t.Error("recent record must survive cleanup")
	}
}
