package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 1

// Init creates (or opens) a writable recipe catalog database at path and
// applies migrations. Used by `catalog import` and tests.
func Init(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create catalog directory: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// OpenReadOnly opens an existing catalog database without creating or
// migrating it. A missing file is reported as os.ErrNotExist.
func OpenReadOnly(path string) (*sql.DB, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", "file:"+path+"?mode=ro&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	version, err := GetUserVersion(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if version < 1 {
		db.Close()
		return nil, fmt.Errorf("catalog database %s has no recipes schema", path)
	}

	return db, nil
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: recipes table
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS recipes (
		  id            INTEGER PRIMARY KEY AUTOINCREMENT,
		  category      TEXT NOT NULL,
		  name          TEXT NOT NULL,
		  ingredients   TEXT NOT NULL DEFAULT '',
		  cuisine       TEXT NOT NULL DEFAULT '',
		  prep_time_min REAL NOT NULL CHECK (prep_time_min >= 0),
		  calories_kcal REAL NOT NULL CHECK (calories_kcal >= 0)
		);

		CREATE INDEX IF NOT EXISTS idx_recipes_category ON recipes(category);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
