// results.go
//
// Package results persists benchmark runs to a local SQLite database and
// exports them as JSON.  One row per (strategy, mode) measurement, so
// runs on different machines or configs can be compared after the fact.
package results

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/sugawarayuuta/sonnet"
)

// Run is one measured benchmark scenario.
type Run struct {
	ID           int64   `json:"id,omitempty"`
	Strategy     string  `json:"strategy"`
	Batched      bool    `json:"batched"`
	Threads      int     `json:"threads"`
	BufferBytes  int     `json:"buffer_bytes"`
	Ops          uint64  `json:"ops"`
	PushAvgNs    float64 `json:"push_avg_ns"`
	ConsumeAvgNs float64 `json:"consume_avg_ns"`
	Hostname     string  `json:"hostname"`
	StartedAt    string  `json:"started_at"`
}

// Store records benchmark runs in a SQLite database.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS bench_runs (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	strategy      TEXT    NOT NULL,
	batched       INTEGER NOT NULL,
	threads       INTEGER NOT NULL,
	buffer_bytes  INTEGER NOT NULL,
	ops           INTEGER NOT NULL,
	push_avg_ns   REAL    NOT NULL,
	consume_avg_ns REAL   NOT NULL,
	hostname      TEXT    NOT NULL,
	started_at    TEXT    NOT NULL
);`

// Open opens (creating if needed) the results database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("results: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("results: create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Record inserts one run, filling in StartedAt when unset and returning
// the row id.
func (s *Store) Record(r *Run) (int64, error) {
	if r.StartedAt == "" {
		r.StartedAt = time.Now().UTC().Format(time.RFC3339)
	}

	res, err := s.db.Exec(
		`INSERT INTO bench_runs
		 (strategy, batched, threads, buffer_bytes, ops, push_avg_ns, consume_avg_ns, hostname, started_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.Strategy, r.Batched, r.Threads, r.BufferBytes, r.Ops,
		r.PushAvgNs, r.ConsumeAvgNs, r.Hostname, r.StartedAt)
	if err != nil {
		return 0, fmt.Errorf("results: insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("results: last insert id: %w", err)
	}
	r.ID = id
	return id, nil
}

// Recent returns up to limit runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, strategy, batched, threads, buffer_bytes, ops,
		        push_avg_ns, consume_avg_ns, hostname, started_at
		 FROM bench_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("results: query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Strategy, &r.Batched, &r.Threads,
			&r.BufferBytes, &r.Ops, &r.PushAvgNs, &r.ConsumeAvgNs,
			&r.Hostname, &r.StartedAt); err != nil {
			return nil, fmt.Errorf("results: scan run: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ExportJSON renders runs as JSON for downstream tooling.
func ExportJSON(runs []Run) ([]byte, error) {
	out, err := sonnet.Marshal(runs)
	if err != nil {
		return nil, fmt.Errorf("results: marshal runs: %w", err)
	}
	return out, nil
}
