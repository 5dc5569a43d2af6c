// Package store persists the question catalog, per-question review
// records, and the append-only evaluation log in a local SQLite database.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the database handle and provides all persistence operations.
type Store struct {
	db *sqlx.DB
}

// Open creates a Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying handle for raw queries.
func (s *Store) DB() *sqlx.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-user local use.
func applyPragmas(db *sqlx.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

func migrate(db *sqlx.DB) error {
	const schema = `
CREATE TABLE IF NOT EXISTS questions (
	id           TEXT PRIMARY KEY,
	language     TEXT NOT NULL,
	difficulty   TEXT NOT NULL,
	tags         TEXT NOT NULL DEFAULT '[]',
	question     TEXT NOT NULL,
	short_answer TEXT NOT NULL,
	key_points   TEXT NOT NULL DEFAULT '[]',
	red_flags    TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS records (
	question_id     TEXT PRIMARY KEY,
	next_review_ms  INTEGER NOT NULL,
	interval_days   REAL NOT NULL,
	streak          INTEGER NOT NULL,
	ease_factor     REAL NOT NULL,
	times_seen      INTEGER NOT NULL,
	last_evaluation TEXT NOT NULL,
	good_count      INTEGER NOT NULL DEFAULT 0,
	kind_of_count   INTEGER NOT NULL DEFAULT 0,
	bad_count       INTEGER NOT NULL DEFAULT 0,
	updated_at_ms   INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_next_review ON records (next_review_ms);

CREATE TABLE IF NOT EXISTS evaluations (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	question_id   TEXT NOT NULL,
	evaluation    TEXT NOT NULL,
	created_at_ms INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evaluations_question ON evaluations (question_id);
CREATE INDEX IF NOT EXISTS idx_evaluations_created ON evaluations (created_at_ms);

CREATE TABLE IF NOT EXISTS llm_requests (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	request_id    TEXT NOT NULL,
	provider      TEXT NOT NULL,
	model         TEXT NOT NULL,
	purpose       TEXT NOT NULL,
	latency_ms    INTEGER NOT NULL,
	success       INTEGER NOT NULL,
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	error_message TEXT NOT NULL DEFAULT '',
	created_at_ms INTEGER NOT NULL
);
`
	_, err := db.Exec(schema)
	return err
}

// DefaultDBPath resolves the database file path in priority order:
// 1. PREPDECK_DB environment variable
// 2. $XDG_DATA_HOME/prepdeck/prepdeck.db
// 3. ~/.local/share/prepdeck/prepdeck.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("PREPDECK_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "prepdeck", "prepdeck.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
