// Package store persists synced Dex records in a local SQLite
// database and provides the read and write surface duplicate
// detection, merging, and the sync engine are built on.
//
// The store uses the pure-Go modernc.org/sqlite driver with WAL mode
// and a single connection, so concurrent readers never block the one
// writer and the database stays usable from multiple processes.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	dexerrors "github.com/Aman-CERP/dexsync/internal/errors"
)

// Store wraps the SQLite database holding contacts, their child
// rows, reminders, and notes.
type Store struct {
	db     *sql.DB
	path   string
	mu     sync.Mutex
	closed bool
}

// Open opens (or creates) the database at path and ensures the
// schema exists. An empty path opens an in-memory database for
// testing. A database that fails its integrity check is reported as
// corrupt rather than silently cleared: it may hold review decisions
// that a re-sync cannot reconstruct.
func Open(path string) (*Store, error) {
	var dsn string
	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, dexerrors.New(dexerrors.ErrCodeStoreOpen,
				fmt.Sprintf("creating data directory %s", dir), err)
		}

		if err := validateIntegrity(path); err != nil {
			return nil, dexerrors.New(dexerrors.ErrCodeStoreCorrupt,
				fmt.Sprintf("database %s failed integrity check", path), err).
				WithSuggestion("back up the file, delete it, and run 'dexsync sync' to rebuild from the API")
		}

		dsn = path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, dexerrors.New(dexerrors.ErrCodeStoreOpen, "opening database", err)
	}

	// Single writer; SQLite serializes writes anyway and one
	// connection avoids lock contention inside the process.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// DSN params may be ignored by modernc.org/sqlite; set the
	// pragmas explicitly.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA cache_size = -65536",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, dexerrors.New(dexerrors.ErrCodeStoreOpen, "setting pragma", err)
		}
	}

	s := &Store{db: db, path: path}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		return nil, dexerrors.New(dexerrors.ErrCodeStoreOpen, "initializing schema", err)
	}
	return s, nil
}

// validateIntegrity runs a read-only integrity check. A missing file
// is fine; it will be created on open.
func validateIntegrity(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}

	db, err := sql.Open("sqlite", path+"?mode=ro")
	if err != nil {
		return fmt.Errorf("cannot open database: %w", err)
	}
	defer db.Close()

	var result string
	if err := db.QueryRow("PRAGMA integrity_check").Scan(&result); err != nil {
		return fmt.Errorf("cannot run integrity check: %w", err)
	}
	if result != "ok" {
		return fmt.Errorf("integrity check failed: %s", result)
	}
	return nil
}

// Close checkpoints the WAL and closes the database. Safe to call
// more than once.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true

	_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
	return s.db.Close()
}

// Path returns the database file path ("" for in-memory stores).
func (s *Store) Path() string {
	return s.path
}

// placeholders returns "?,?,...,?" with n slots for IN clauses. Only
// values are ever bound; identifiers never reach query text
// dynamically.
func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// stringArgs widens a string slice for variadic query binding.
func stringArgs(ids []string) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// begin starts a write transaction.
func (s *Store) begin(ctx context.Context) (*sql.Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	return tx, nil
}
