// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package runlog records completed scans in a SQLite database so prior runs
// and their output files can be listed later. It is bookkeeping only; the
// pipeline never consults it while scanning.
package runlog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const dbFile = "history.db"

// Store manages the run history database.
type Store struct {
	db *sql.DB
}

// Run is one recorded scan.
type Run struct {
	ID             int64
	StartedAt      time.Time
	Query          string
	Keywords       []string
	FetchedTotal   int
	AfterDedupe    int
	AfterFilter    int
	SourceFailures []string
	Files          []string
}

// Open opens or creates the run history database at dir/history.db and
// creates the schema if it does not exist.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	path := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL")
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
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at TEXT NOT NULL,
		query TEXT NOT NULL,
		keywords TEXT,
		fetched_total INTEGER,
		after_dedupe INTEGER,
		after_filter INTEGER,
		source_failures TEXT,
		files TEXT
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Record inserts one completed run and returns its row ID.
func (s *Store) Record(ctx context.Context, run Run) (int64, error) {
	keywordsJSON, _ := json.Marshal(run.Keywords)
	failuresJSON, _ := json.Marshal(run.SourceFailures)
	filesJSON, _ := json.Marshal(run.Files)

	startedAt := run.StartedAt
	if startedAt.IsZero() {
		startedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (started_at, query, keywords, fetched_total, after_dedupe, after_filter, source_failures, files)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		startedAt.UTC().Format(time.RFC3339), run.Query, string(keywordsJSON),
		run.FetchedTotal, run.AfterDedupe, run.AfterFilter,
		string(failuresJSON), string(filesJSON),
	)
	if err != nil {
		return 0, fmt.Errorf("inserting run: %w", err)
	}
	return res.LastInsertId()
}

// List returns the most recent runs, newest first. limit <= 0 means 20.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, query, keywords, fetched_total, after_dedupe, after_filter, source_failures, files
		 FROM runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var (
			r            Run
			startedAt    string
			keywordsJSON string
			failuresJSON string
			filesJSON    string
		)
		if err := rows.Scan(&r.ID, &startedAt, &r.Query, &keywordsJSON,
			&r.FetchedTotal, &r.AfterDedupe, &r.AfterFilter, &failuresJSON, &filesJSON); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if t, err := time.Parse(time.RFC3339, startedAt); err == nil {
			r.StartedAt = t
		}
		json.Unmarshal([]byte(keywordsJSON), &r.Keywords)
		json.Unmarshal([]byte(failuresJSON), &r.SourceFailures)
		json.Unmarshal([]byte(filesJSON), &r.Files)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
