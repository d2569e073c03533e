// Package store persists analysis history in SQLite. It uses
// modernc.org/sqlite for pure-Go, CGO-free database access. History lives
// outside the engine core: the engine itself stays stateless per request.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/normanking/docsight/internal/insight"
)

//go:embed migrations/001_analyses.sql
var analysesSchema string

// Record is one stored analysis.
type Record struct {
	ID             string                 `json:"id"`
	CreatedAt      time.Time              `json:"created_at"`
	Source         string                 `json:"source"`
	Classification insight.Classification `json:"classification"`
	Provider       string                 `json:"provider"` // backend name, or "heuristic"
	Insight        *insight.Insight       `json:"insight"`
}

// Store provides access to the history database.
type Store struct {
	db *sql.DB
}

// Open creates the data directory if needed, opens the database, and runs
// the schema migration. Idempotent across runs.
func Open(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", filepath.Join(dataDir, "history.db"))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Single writer suits SQLite.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if _, err := s.db.Exec(analysesSchema); err != nil {
		return fmt.Errorf("run migration: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error { return s.db.Close() }

// Save inserts one analysis record.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	payload, err := json.Marshal(rec.Insight)
	if err != nil {
		return fmt.Errorf("marshal insight: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO analyses (id, created_at, source, classification, provider, insight_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.CreatedAt.UTC(), rec.Source, string(rec.Classification), rec.Provider, string(payload),
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}
	return nil
}

// Recent returns up to n records, newest first.
func (s *Store) Recent(ctx context.Context, n int) ([]*Record, error) {
	if n <= 0 {
		n = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, source, classification, provider, insight_json
		 FROM analyses ORDER BY created_at DESC LIMIT ?`, n)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var out []*Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Get returns one record by id, or sql.ErrNoRows.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, created_at, source, classification, provider, insight_json
		 FROM analyses WHERE id = ?`, id)
	return scanRecord(row.Scan)
}

func scanRecord(scan func(...any) error) (*Record, error) {
	var rec Record
	var classification, payload string
	if err := scan(&rec.ID, &rec.CreatedAt, &rec.Source, &classification, &rec.Provider, &payload); err != nil {
		return nil, err
	}
	rec.Classification = insight.Classification(classification)

	var in insight.Insight
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		return nil, fmt.Errorf("unmarshal stored insight %s: %w", rec.ID, err)
	}
	rec.Insight = in.Sanitize()
	return &rec, nil
}
