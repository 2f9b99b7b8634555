package storage

import (
	"database/sql"
	"fmt"
)

// migration is one schema step. Migrations are applied in order and
// recorded in schema_version; each must be safe to re-run on a database
// that already has its tables (IF NOT EXISTS).
type migration struct {
	version int
	apply   func(db *sql.DB) error
}

var migrations = []migration{
	{1, migrateInitialSchema},
}

// LatestSchemaVersion returns the version the database is migrated to.
func LatestSchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// SchemaVersion reads the current schema version, 0 when the database
// has never been migrated.
func SchemaVersion(db *sql.DB) (int, error) {
	var exists int
	err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&exists)
	if err != nil {
		return 0, fmt.Errorf("check schema_version table: %w", err)
	}
	if exists == 0 {
		return 0, nil
	}
	var version int
	err = db.QueryRow("SELECT ifnull(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// MigrateDB brings the database schema up to the latest version.
// PRE: db is a valid database connection
// POST: WAL mode and foreign keys enabled, all pending migrations applied
func MigrateDB(db *sql.DB) error {
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY, applied_at TEXT NOT NULL)"); err != nil {
		return fmt.Errorf("failed to create schema_version: %w", err)
	}

	current, err := SchemaVersion(db)
	if err != nil {
		return err
	}

	for _, m := range migrations {
		if m.version <= current {
			continue
		}
		if err := m.apply(db); err != nil {
			return fmt.Errorf("migration %d failed: %w", m.version, err)
		}
		if _, err := db.Exec("INSERT INTO schema_version (version, applied_at) VALUES (?, datetime('now'))", m.version); err != nil {
			return fmt.Errorf("failed to record migration %d: %w", m.version, err)
		}
	}
	return nil
}

// migrateInitialSchema creates the dictionary tables.
func migrateInitialSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS role (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE,
		allow_edit INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS account (
		id TEXT PRIMARY KEY,
		first_name TEXT NOT NULL,
		last_name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL DEFAULT '',
		role_id TEXT NOT NULL,
		created_at TEXT NOT NULL,
		FOREIGN KEY (role_id) REFERENCES role(id)
	);

	CREATE TABLE IF NOT EXISTS category (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS entry (
		id TEXT PRIMARY KEY,
		maori TEXT NOT NULL UNIQUE,
		english TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		level INTEGER NOT NULL,
		category_id TEXT,
		updated_at TEXT NOT NULL,
		edited_by TEXT,
		FOREIGN KEY (category_id) REFERENCES category(id) ON DELETE CASCADE,
		FOREIGN KEY (edited_by) REFERENCES account(id) ON DELETE SET NULL
	);

	CREATE INDEX IF NOT EXISTS idx_entry_category ON entry(category_id);
	CREATE INDEX IF NOT EXISTS idx_entry_updated ON entry(updated_at);
	`
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}
