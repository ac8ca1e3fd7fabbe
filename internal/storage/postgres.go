package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
)

// PostgresStore keeps the enrichment cache in PostgreSQL, for deployments
// where the service does not own local disk.
type PostgresStore struct {
	db *sql.DB
}

// OpenPostgres connects with the given connection string and ensures the
// schema exists.
func OpenPostgres(connStr string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &PostgresStore{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *PostgresStore) init() error {
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
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, link string) (Record, bool, error) {
	var r Record
	err := s.db.QueryRowContext(ctx,
		`SELECT link, title_en, summary_en, created_utc FROM enrich_cache WHERE link = $1`,
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

func (s *PostgresStore) Put(ctx context.Context, link, titleEN, summaryEN string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO enrich_cache (link, title_en, summary_en, created_utc)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (link) DO UPDATE SET
			title_en = EXCLUDED.title_en,
			summary_en = EXCLUDED.summary_en,
			created_utc = EXCLUDED.created_utc
	`, link, titleEN, summaryEN, NowUTC(time.Now()))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *PostgresStore) ScanStale(ctx context.Context, limit int, ttl time.Duration) ([]string, error) {
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT link, created_utc FROM enrich_cache ORDER BY created_utc ASC LIMIT $1`,
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

func (s *PostgresStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := NowUTC(time.Now().Add(-retention))
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM enrich_cache WHERE created_utc < $1`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}
