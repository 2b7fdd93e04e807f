// Package storage provides the SQLite persistence layer for vnfinews.
//
// Articles are never stored: they live only in the in-memory snapshot. The
// database holds the external summary cache and the refresh-run audit log.
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver.
)

const memoryPath = ":memory:"

// connection pragmas: WAL for concurrent readers, a busy timeout so the
// scheduler and HTTP handlers wait on each other instead of failing.
const pragmas = "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(ON)"

// Store is the summary cache and run log.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path, applies pending migrations
// and returns a ready Store. Parent directories are created as needed.
func Open(path string) (*Store, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if path != memoryPath {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite", path+pragmas)
	if err != nil {
		return nil, fmt.Errorf("opening database %q: %w", path, err)
	}
	// SQLite has a single writer; one connection also keeps an in-memory
	// database alive for the Store's lifetime.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging database %q: %w", path, err)
	}

	migrations, err := loadMigrations(migrationsFS)
	if err != nil {
		db.Close()
		return nil, err
	}
	n, err := migrate(ctx, db, migrations)
	if err != nil {
		db.Close()
		return nil, err
	}

	slog.Info("opened sqlite database", "path", path, "migrations_applied", n)
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// storedTimeLayout is fixed-width so stored timestamps sort lexically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// sqliteTimeLayout matches SQLite's datetime('now').
const sqliteTimeLayout = "2006-01-02 15:04:05"

// formatTime renders t the way refresh-run timestamps are stored.
func formatTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

// parseTime reads a stored timestamp in any layout this package writes. It
// returns the zero time for anything else.
func parseTime(s string) time.Time {
	for _, layout := range []string{storedTimeLayout, sqliteTimeLayout, time.RFC3339Nano} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
