// Package store implements the embedded pattern library: a three-level
// hierarchy (domain → category → pattern) plus a submission ledger, backed
// by a single SQLite file.
//
// The store is single-writer by design. Every mutating operation runs as one
// SQLite transaction; multi-step mutations (cascade deletes, submission
// acceptance) commit atomically or not at all. Foreign-key enforcement is
// switched on at the connection level so cascade delete is always active —
// referential integrity is maintained by cascade, never by orphaning.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// Sentinel errors callers are expected to branch on with errors.Is.
// None of them is transient — the same call against the same state fails
// the same way, so nothing here is ever retried internally.
var (
	// ErrNotFound — the referenced domain, category, pattern, or submission
	// does not exist.
	ErrNotFound = errors.New("not found")
	// ErrConflict — a duplicate slug at the scope where uniqueness is
	// required, or a submission that has already been reviewed.
	ErrConflict = errors.New("conflict")
	// ErrInvalid — malformed submission input, rejected before any storage
	// access.
	ErrInvalid = errors.New("invalid submission")
)

// Store owns the SQLite handle. Safe for concurrent use: reads go through
// the connection pool, writes serialize on SQLite's own write lock.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (or creates) the library database at path and brings the
// schema up to date. The DSN enables WAL mode and foreign-key cascade;
// the schema setup is idempotent, so opening an existing store is safe.
func Open(path string) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("ping %s: %w", path, err)
	}

	s := &Store{db: db, path: path}
	if err := s.migrate(); err != nil {
		_ = db.Close() // ignore error
		return nil, fmt.Errorf("migrate %s: %w", path, err)
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path the store was opened with.
func (s *Store) Path() string {
	return s.path
}

// ---------------------------------------------------------------------------
// Schema
// ---------------------------------------------------------------------------

// baseTables is the full schema for a fresh store. Every statement is
// create-if-absent, so running the set against an existing store is a no-op.
//
// submissions.target_pattern_id deliberately carries no FOREIGN KEY: it is a
// weak reference. Deleting a pattern must not be blocked by submissions that
// point at it; a later acceptance against the dangling id fails cleanly.
var baseTables = []string{
	`CREATE TABLE IF NOT EXISTS domains (
		slug TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT ''
	);`,

	`CREATE TABLE IF NOT EXISTS categories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		domain_slug TEXT NOT NULL REFERENCES domains(slug) ON DELETE CASCADE,
		slug TEXT NOT NULL,
		name TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		UNIQUE(domain_slug, slug)
	);`,
	`CREATE INDEX IF NOT EXISTS idx_categories_domain ON categories(domain_slug);`,

	`CREATE TABLE IF NOT EXISTS patterns (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		category_id INTEGER NOT NULL REFERENCES categories(id) ON DELETE CASCADE,
		label TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		intention TEXT NOT NULL DEFAULT '',
		template TEXT NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`,
	`CREATE INDEX IF NOT EXISTS idx_patterns_category ON patterns(category_id);`,

	`CREATE TABLE IF NOT EXISTS submissions (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		kind TEXT NOT NULL CHECK(kind IN ('new', 'modify')),
		status TEXT NOT NULL CHECK(status IN ('pending', 'accepted', 'rejected')) DEFAULT 'pending',
		target_pattern_id INTEGER,
		domain_slug TEXT,
		category_slug TEXT,
		label TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		intention TEXT NOT NULL DEFAULT '',
		template TEXT NOT NULL DEFAULT '',
		submitted_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		reviewed_at DATETIME
	);`,
	`CREATE INDEX IF NOT EXISTS idx_submissions_status ON submissions(status);`,
}

// migrate establishes the schema. Base tables first, then additive column
// migrations for stores created before a column existed. Safe to run any
// number of times, concurrently or sequentially.
func (s *Store) migrate() error {
	for _, q := range baseTables {
		if _, err := s.db.Exec(q); err != nil {
			return fmt.Errorf("schema: %w", err)
		}
	}

	// Columns added after the initial release. SQLite has no
	// ADD COLUMN IF NOT EXISTS, so existence is checked via PRAGMA.
	columnMigrations := []struct {
		table, column, colDef string
	}{
		{"submissions", "source", "TEXT"},
	}
	for _, m := range columnMigrations {
		if err := s.addColumnIfNotExists(m.table, m.column, m.colDef); err != nil {
			return fmt.Errorf("add column %s.%s: %w", m.table, m.column, err)
		}
	}
	return nil
}

func (s *Store) addColumnIfNotExists(table, column, colDef string) error {
	rows, err := s.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		return err
	}
	defer func() { _ = rows.Close() }() // safe to ignore

	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return err
		}
		if name == column {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	_, err = s.db.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, colDef))
	return err
}

// ---------------------------------------------------------------------------
// Transaction helper
// ---------------------------------------------------------------------------

// withTx runs fn inside a transaction, committing on nil and rolling back
// otherwise. The rollback after a successful commit is a no-op.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // safe to ignore

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
