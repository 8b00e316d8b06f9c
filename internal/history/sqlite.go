// Package history records finished application attempts so re-runs skip jobs
// that already went through.
package history

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Attempt is one recorded application attempt.
type Attempt struct {
	JobURL    string
	Resume    string
	Outcome   string
	Detail    string
	CreatedAt time.Time
}

// Store persists attempts in a SQLite database.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at path and ensures the attempts table
// exists.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging history db: %w", err)
	}

	createTable := `CREATE TABLE IF NOT EXISTS attempts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		job_url    TEXT NOT NULL,
		resume     TEXT NOT NULL,
		outcome    TEXT NOT NULL,
		detail     TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`
	if _, err := db.Exec(createTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating attempts table: %w", err)
	}

	return &Store{db: db}, nil
}

// Record appends one attempt.
func (s *Store) Record(attempt Attempt) error {
	_, err := s.db.Exec(
		"INSERT INTO attempts (job_url, resume, outcome, detail) VALUES (?, ?, ?, ?)",
		attempt.JobURL, attempt.Resume, attempt.Outcome, attempt.Detail,
	)
	if err != nil {
		return fmt.Errorf("recording attempt for %s: %w", attempt.JobURL, err)
	}
	return nil
}

// HasSucceeded reports whether the job URL already has a successful attempt.
func (s *Store) HasSucceeded(jobURL string) (bool, error) {
	var exists int
	err := s.db.QueryRow(
		"SELECT 1 FROM attempts WHERE job_url = ? AND outcome = 'success' LIMIT 1",
		jobURL,
	).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking history for %s: %w", jobURL, err)
	}
	return true, nil
}

// Recent returns the latest attempts, newest first.
func (s *Store) Recent(limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		"SELECT job_url, resume, outcome, COALESCE(detail, ''), created_at FROM attempts ORDER BY id DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("listing attempts: %w", err)
	}
	defer rows.Close()

	var attempts []Attempt
	for rows.Next() {
		var attempt Attempt
		if err := rows.Scan(&attempt.JobURL, &attempt.Resume, &attempt.Outcome, &attempt.Detail, &attempt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}

	return attempts, rows.Err()
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}
