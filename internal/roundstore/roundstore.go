// Package roundstore persists a ledger of processing rounds the bridge has
// serviced: round id, backend, start/end time and outcome. It exists so an
// operator can audit what a long-running bridge process has done without
// re-deriving it from logs, and is deliberately separate from the adapter
// core itself — nothing in internal/typeutils or internal/annotation
// depends on it.
package roundstore

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Outcome classifies how a round finished.
type Outcome string

const (
	OutcomeRunning Outcome = "running"
	OutcomeOK      Outcome = "ok"
	OutcomeFailed  Outcome = "failed"
)

// Round is one row of the round ledger.
type Round struct {
	ID        string
	Backend   string
	StartedAt time.Time
	EndedAt   *time.Time
	Outcome   Outcome
	Detail    string
}

// Store wraps a sqlite-backed round ledger.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// ensures the rounds table exists.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening round store %s: %w", path, err)
	}
	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) migrate() error {
	const schema = `
CREATE TABLE IF NOT EXISTS rounds (
	id         TEXT PRIMARY KEY,
	backend    TEXT NOT NULL,
	started_at TEXT NOT NULL,
	ended_at   TEXT,
	outcome    TEXT NOT NULL,
	detail     TEXT NOT NULL DEFAULT ''
);`
	_, err := s.db.Exec(schema)
	if err != nil {
		return fmt.Errorf("creating rounds table: %w", err)
	}
	return nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// startedAtLayout is RFC 3339 with a fixed nine-digit fraction, so that
// ordering the stored text (as Recent does) is chronological; RFC3339Nano
// drops trailing zeros, which breaks lexical order within one second.
const startedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Begin records the start of a new round.
func (s *Store) Begin(id, backend string, startedAt time.Time) error {
	_, err := s.db.Exec(
		`INSERT INTO rounds (id, backend, started_at, outcome) VALUES (?, ?, ?, ?)`,
		id, backend, startedAt.UTC().Format(startedAtLayout), OutcomeRunning,
	)
	if err != nil {
		return fmt.Errorf("recording round start %s: %w", id, err)
	}
	return nil
}

// Finish records a round's outcome and end time.
func (s *Store) Finish(id string, endedAt time.Time, outcome Outcome, detail string) error {
	_, err := s.db.Exec(
		`UPDATE rounds SET ended_at = ?, outcome = ?, detail = ? WHERE id = ?`,
		endedAt.UTC().Format(time.RFC3339Nano), outcome, detail, id,
	)
	if err != nil {
		return fmt.Errorf("recording round finish %s: %w", id, err)
	}
	return nil
}

// Get fetches one round by id.
func (s *Store) Get(id string) (Round, error) {
	row := s.db.QueryRow(
		`SELECT id, backend, started_at, ended_at, outcome, detail FROM rounds WHERE id = ?`, id,
	)
	return scanRound(row)
}

// Recent returns the most recently started rounds, newest first, capped at
// limit.
func (s *Store) Recent(limit int) ([]Round, error) {
	rows, err := s.db.Query(
		`SELECT id, backend, started_at, ended_at, outcome, detail FROM rounds ORDER BY started_at DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing rounds: %w", err)
	}
	defer rows.Close()

	var out []Round
	for rows.Next() {
		r, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// rowScanner is the subset of *sql.Row / *sql.Rows this package needs.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRound(row rowScanner) (Round, error) {
	var r Round
	var startedAt string
	var endedAt sql.NullString
	if err := row.Scan(&r.ID, &r.Backend, &startedAt, &endedAt, &r.Outcome, &r.Detail); err != nil {
		return Round{}, fmt.Errorf("scanning round row: %w", err)
	}
	started, err := time.Parse(time.RFC3339Nano, startedAt)
	if err != nil {
		return Round{}, fmt.Errorf("parsing started_at: %w", err)
	}
	r.StartedAt = started
	if endedAt.Valid {
		ended, err := time.Parse(time.RFC3339Nano, endedAt.String)
		if err != nil {
			return Round{}, fmt.Errorf("parsing ended_at: %w", err)
		}
		r.EndedAt = &ended
	}
	return r, nil
}
