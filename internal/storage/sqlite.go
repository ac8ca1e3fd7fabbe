package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the enrichment cache in a local SQLite file. This is the
// default backend; a single writer connection avoids SQLITE_BUSY under the
// worker/request mix.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (and if needed creates) the cache database at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS enrich_cache (
			link        TEXT PRIMARY KEY,
			title_en    TEXT NOT NULL,
			summary_en  TEXT NOT NULL,
			created_utc TEXT NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_enrich_created ON enrich_cache(created_utc);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, link string) (Record, bool, error) {
	var r Record
	err := s.db.QueryRowContext(ctx,
		`SELECT link, title_en, summary_en, created_utc FROM enrich_cache WHERE link = ?`,
		link,
	).Scan(&r.Link, &r.TitleEN, &r.SummaryEN, &r.CreatedUTC)
	if err == sql.ErrNoRows {
		return Record{}, false, nil
	}
	if err != nil {
		return Record{}, false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return r, true, nil
}

func (s *SQLiteStore) Put(ctx context.Context, link, titleEN, summaryEN string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrich_cache (link, title_en, summary_en, created_utc)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(link) DO UPDATE SET
			title_en = excluded.title_en,
			summary_en = excluded.summary_en,
			created_utc = excluded.created_utc
	`, link, titleEN, summaryEN, NowUTC(time.Now()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *SQLiteStore) ScanStale(ctx context.Context, limit int, ttl time.Duration) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT link, created_utc FROM enrich_cache ORDER BY created_utc ASC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer rows.Close()

	now := time.Now()
	var stale []string
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.Link, &r.CreatedUTC); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		if !IsFresh(r, ttl, now) {
			stale = append(stale, r.Link)
		}
	}
	return stale, rows.Err()
}

func (s *SQLiteStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := NowUTC(time.Now().Add(-retention))
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM enrich_cache WHERE created_utc < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
