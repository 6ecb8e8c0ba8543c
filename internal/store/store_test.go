package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "library.db")
	s, err := Open(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestOpenCreatesSchema(t *testing.T) {
	s := newTestStore(t)

	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('domains', 'categories', 'patterns', 'submissions')`).
		Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 4, count)
}

func TestOpenIsIdempotent(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	s1, err := Open(dbPath)
	require.NoError(t, err)
	require.NoError(t, s1.AddDomain(context.Background(), "eng", "Engineering", ""))
	require.NoError(t, s1.Close())

	// Reopening must not disturb existing data.
	s2, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = s2.Close() }()

	d, err := s2.GetDomain(context.Background(), "eng")
	require.NoError(t, err)
	require.NotNil(t, d)
	assert.Equal(t, "Engineering", d.Name)
}

func TestMigrateAddsMissingColumns(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "library.db")

	// A store created before the source column existed.
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE submissions (
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
	)`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(dbPath)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	var count int
	err = s.db.QueryRow(
		`SELECT COUNT(*) FROM pragma_table_info('submissions') WHERE name = 'source'`).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestForeignKeysEnforced(t *testing.T) {
	s := newTestStore(t)

	var fk int
	require.NoError(t, s.db.QueryRow(`PRAGMA foreign_keys`).Scan(&fk))
	assert.Equal(t, 1, fk)
}
