// Package store caches folder inventory snapshots in a SQLite database, so
// the wizard can start instantly and work through connector outages. The
// cache is refreshed by the sync command.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/curatorlabs/curator/internal/inventory"
)

// Store manages the SQLite cache of folder inventory.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and runs migrations.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent access
	ctx := context.Background()
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		_ = db.Close() //nolint:errcheck,gosec // best-effort cleanup on error path
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ReplaceFolders replaces the cached inventory for a connector with the
// given snapshot, atomically, and records the sync time.
func (s *Store) ReplaceFolders(connector string, snap *inventory.Snapshot) error {
	ctx := context.Background()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning sync transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM folders WHERE connector = ?`, connector); err != nil {
		_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
		return fmt.Errorf("clearing cached folders: %w", err)
	}

	for _, f := range snap.Folders() {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO folders (connector, guid, path, object_count, total_size, collection_guid)
			VALUES (?, ?, ?, ?, ?, ?)
		`, connector, f.GUID, f.Path, f.ObjectCount, f.TotalSize, f.CollectionGUID)
		if err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("caching folder %q: %w", f.Path, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO sync_meta (connector, synced_at) VALUES (?, CURRENT_TIMESTAMP)
		ON CONFLICT(connector) DO UPDATE SET synced_at = CURRENT_TIMESTAMP
	`, connector); err != nil {
		_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
		return fmt.Errorf("recording sync time: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing sync: %w", err)
	}

	return nil
}

// LoadFolders returns the cached inventory for a connector. An empty
// snapshot means the connector has never been synced.
func (s *Store) LoadFolders(connector string) (*inventory.Snapshot, error) {
	ctx := context.Background()
	rows, err := s.db.QueryContext(ctx, `
		SELECT guid, path, object_count, total_size, collection_guid
		FROM folders
		WHERE connector = ?
		ORDER BY path
	`, connector)
	if err != nil {
		return nil, fmt.Errorf("querying cached folders: %w", err)
	}
	defer func() { _ = rows.Close() }() //nolint:errcheck,gosec // defer close is best-effort

	var folders []inventory.Folder
	for rows.Next() {
		var f inventory.Folder
		if err := rows.Scan(&f.GUID, &f.Path, &f.ObjectCount, &f.TotalSize, &f.CollectionGUID); err != nil {
			return nil, fmt.Errorf("scanning folder row: %w", err)
		}
		folders = append(folders, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading cached folders: %w", err)
	}

	return inventory.NewSnapshot(folders), nil
}

// LastSync returns when the connector was last synced, or the zero time if
// it never was.
func (s *Store) LastSync(connector string) (time.Time, error) {
	var syncedAt string

	err := s.db.QueryRowContext(context.Background(), `
		SELECT synced_at FROM sync_meta WHERE connector = ?
	`, connector).Scan(&syncedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("querying sync time: %w", err)
	}

	t, err := parseTime(syncedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing synced_at: %w", err)
	}

	return t, nil
}

// migrate runs schema migrations.
func (s *Store) migrate() error {
	currentVersion := s.getSchemaVersion()

	migrations := []func(*sql.Tx) error{
		migrateV1,
	}

	ctx := context.Background()
	for i := currentVersion; i < len(migrations); i++ {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("beginning migration %d: %w", i+1, err)
		}

		if err := migrations[i](tx); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort on migration failure
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}

		// Update schema version
		if _, err := tx.ExecContext(ctx, `DELETE FROM schema_version`); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("updating schema version: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_version (version) VALUES (?)`, i+1); err != nil {
			_ = tx.Rollback() //nolint:errcheck,gosec // rollback best-effort
			return fmt.Errorf("inserting schema version: %w", err)
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %d: %w", i+1, err)
		}
	}

	return nil
}

// getSchemaVersion returns the current schema version, or 0 if the schema_version table doesn't exist.
func (s *Store) getSchemaVersion() int {
	ctx := context.Background()
	// Check if schema_version table exists
	var tableName string
	err := s.db.QueryRowContext(ctx, `SELECT name FROM sqlite_master WHERE type='table' AND name='schema_version'`).Scan(&tableName)
	if err != nil {
		return 0
	}

	var version int
	if err := s.db.QueryRowContext(ctx, `SELECT version FROM schema_version LIMIT 1`).Scan(&version); err != nil {
		return 0
	}

	return version
}

// parseTime parses a timestamp string from SQLite, trying multiple formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		time.RFC3339,
		"2006-01-02T15:04:05Z",
		"2006-01-02 15:04:05",
	}
	for _, f := range formats {
		if t, err := time.Parse(f, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse time %q", s)
}

// migrateV1 creates the initial schema.
func migrateV1(tx *sql.Tx) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS folders (
			connector       TEXT NOT NULL,
			guid            TEXT NOT NULL,
			path            TEXT NOT NULL,
			object_count    INTEGER NOT NULL DEFAULT 0,
			total_size      INTEGER NOT NULL DEFAULT 0,
			collection_guid TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (connector, path)
		)`,
		`CREATE TABLE IF NOT EXISTS sync_meta (
			connector TEXT PRIMARY KEY,
			synced_at DATETIME NOT NULL
		)`,
	}

	ctx := context.Background()
	for _, stmt := range stmts {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	return nil
}
