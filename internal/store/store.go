package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite handle and provides access to repositories.
type Store struct {
	db  *sql.DB
	seq *sequenceCounter
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// SQLite allows a single writer; serializing here avoids SQLITE_BUSY
	// between the probe logger and the generation logger.
	db.SetMaxOpenConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	seq, err := newSequenceCounter(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, seq: seq}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// EventRepo returns an EventRepo backed by this store.
func (s *Store) EventRepo() EventRepo {
	return &eventRepo{db: s.db, seq: s.seq}
}

// applyPragmas configures SQLite for optimal single-user performance.
func applyPragmas(db *sql.DB) error {
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

func migrate(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS probe_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			url TEXT NOT NULL,
			image_type TEXT NOT NULL DEFAULT '',
			found INTEGER NOT NULL,
			latency_ms INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS generation_events (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			sequence INTEGER NOT NULL,
			timestamp_ms INTEGER NOT NULL,
			run_id TEXT NOT NULL,
			requested INTEGER NOT NULL,
			generated INTEGER NOT NULL,
			short_distractors INTEGER NOT NULL,
			success INTEGER NOT NULL,
			error_message TEXT NOT NULL DEFAULT '',
			latency_ms INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_probe_events_sequence ON probe_events(sequence)`,
		`CREATE INDEX IF NOT EXISTS idx_probe_events_url ON probe_events(url)`,
		`CREATE INDEX IF NOT EXISTS idx_generation_events_sequence ON generation_events(sequence)`,
	}
	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. LENSQUIZ_DB environment variable
// 2. $XDG_DATA_HOME/lensquiz/lensquiz.db
// 3. ~/.local/share/lensquiz/lensquiz.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("LENSQUIZ_DB"); p != "" {
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

	p := filepath.Join(dataHome, "lensquiz", "lensquiz.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
