// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists a log of executed searches and derives trending
// queries from it. The store records queries, never result documents.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Q2x38b/indexio/pkg/types"
)

// Store manages the query-history SQLite database.
type Store struct {
	db *sql.DB
}

// Entry is one recorded search.
type Entry struct {
	Query       string
	Intent      types.IntentType
	ResultCount int
	At          time.Time
}

// TrendingQuery is a query aggregated over a time window.
type TrendingQuery struct {
	Query string
	Count int
}

// NewStore opens or creates the history database at cfg.Path, creating the
// schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if cfg.Path == "" {
		return nil, fmt.Errorf("history path is empty")
	}
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS searches (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			query TEXT NOT NULL,
			normalized TEXT NOT NULL,
			intent TEXT NOT NULL,
			result_count INTEGER NOT NULL,
			at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_normalized ON searches(normalized)`,
		`CREATE INDEX IF NOT EXISTS idx_searches_at ON searches(at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one search to the log.
func (s *Store) Record(ctx context.Context, query string, intent types.IntentType, resultCount int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO searches (query, normalized, intent, result_count, at) VALUES (?, ?, ?, ?, ?)`,
		query, normalizeQuery(query), string(intent), resultCount,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("recording search: %w", err)
	}
	return nil
}

// Recent returns the most recent distinct queries, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, intent, result_count, MAX(at) AS last
		 FROM searches
		 GROUP BY normalized
		 ORDER BY last DESC
		 LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent searches: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var e Entry
		var intent, at string
		if err := rows.Scan(&e.Query, &intent, &e.ResultCount, &at); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		e.Intent = types.IntentType(intent)
		e.At, _ = time.Parse(time.RFC3339Nano, at)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Trending returns the most frequent queries within the window, most
// frequent first. Frequency ties break toward the more recent query.
func (s *Store) Trending(ctx context.Context, window time.Duration, limit int) ([]TrendingQuery, error) {
	if limit <= 0 {
		limit = 10
	}
	since := time.Now().Add(-window).UTC().Format(time.RFC3339Nano)
	rows, err := s.db.QueryContext(ctx,
		`SELECT query, COUNT(*) AS n
		 FROM searches
		 WHERE at >= ?
		 GROUP BY normalized
		 ORDER BY n DESC, MAX(at) DESC
		 LIMIT ?`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("querying trending searches: %w", err)
	}
	defer rows.Close()

	var out []TrendingQuery
	for rows.Next() {
		var tq TrendingQuery
		if err := rows.Scan(&tq.Query, &tq.Count); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		out = append(out, tq)
	}
	return out, rows.Err()
}

// Prune deletes entries older than the retention window.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention).UTC().Format(time.RFC3339Nano)
	res, err := s.db.ExecContext(ctx, `DELETE FROM searches WHERE at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning history: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// normalizeQuery lowercases and collapses whitespace so the same query in
// different casings aggregates as one.
func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}
