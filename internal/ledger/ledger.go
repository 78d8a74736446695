// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records comparison run outcomes in a local SQLite
// database so past runs can be listed and compared.
package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "runs.db"

// Entry is one provider attempt: a pipeline that actually ran, whether
// it completed or failed. Skipped pipelines are not recorded.
type Entry struct {
	ID               int64     `json:"id"`
	Provider         string    `json:"provider"`
	Status           string    `json:"status"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	PromptTokens     *int      `json:"prompt_tokens,omitempty"`
	CompletionTokens *int      `json:"completion_tokens,omitempty"`
	TotalTokens      *int      `json:"total_tokens,omitempty"`
	ReportPath       string    `json:"report_path,omitempty"`
	Detail           string    `json:"detail,omitempty"`
}

// Store manages the run-history SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the run ledger at dir/runs.db, creating the
// schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
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
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			provider TEXT NOT NULL,
			status TEXT NOT NULL,
			started_at TEXT NOT NULL,
			finished_at TEXT NOT NULL,
			prompt_tokens INTEGER,
			completion_tokens INTEGER,
			total_tokens INTEGER,
			report_path TEXT,
			detail TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_provider ON runs(provider)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record inserts one provider attempt.
func (s *Store) Record(ctx context.Context, e Entry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (provider, status, started_at, finished_at,
			prompt_tokens, completion_tokens, total_tokens, report_path, detail)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Provider, e.Status,
		e.StartedAt.UTC().Format(time.RFC3339Nano),
		e.FinishedAt.UTC().Format(time.RFC3339Nano),
		nullableInt(e.PromptTokens), nullableInt(e.CompletionTokens), nullableInt(e.TotalTokens),
		e.ReportPath, e.Detail,
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}
	return nil
}

// Recent returns up to limit entries, newest first. A non-positive
// limit defaults to 20.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, provider, status, started_at, finished_at,
			prompt_tokens, completion_tokens, total_tokens, report_path, detail
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e                    Entry
			started, finished    string
			prompt, compl, total sql.NullInt64
		)
		if err := rows.Scan(&e.ID, &e.Provider, &e.Status, &started, &finished,
			&prompt, &compl, &total, &e.ReportPath, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, started); parseErr == nil {
			e.StartedAt = t
		}
		if t, parseErr := time.Parse(time.RFC3339Nano, finished); parseErr == nil {
			e.FinishedAt = t
		}
		e.PromptTokens = intFromNull(prompt)
		e.CompletionTokens = intFromNull(compl)
		e.TotalTokens = intFromNull(total)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableInt(n *int) any {
	if n == nil {
		return nil
	}
	return *n
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}
