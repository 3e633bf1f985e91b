package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/linkbot/internal/config"
	"github.com/hpungsan/linkbot/internal/errors"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations.
const CurrentSchemaVersion = 2

// Init creates (if needed) and migrates the SQLite database at path.
// It is the only entry point allowed to create the file.
func Init(path string) (*sql.DB, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := open(path)
	if err != nil {
		return nil, err
	}

	// Set file permissions after file exists (best-effort)
	_ = os.Chmod(path, 0600)

	return db, nil
}

// Open opens an existing database at path and brings its schema up to date.
// It fails with DATABASE_MISSING when the file does not exist, so a
// misconfigured path is reported at startup instead of silently creating
// an empty store.
func Open(path string) (*sql.DB, error) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return nil, errors.NewDatabaseMissing(path)
	}
	return open(path)
}

func open(path string) (*sql.DB, error) {
	// Open database with pragmas in connection string (applies to all connections)
	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
// Databases written by the legacy bot have user_version 0 and already
// contain both tables; every statement here is idempotent for them.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: info and bookmarks tables
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS info (
		  name TEXT PRIMARY KEY,
		  val  TEXT DEFAULT NULL
		);

		CREATE TABLE IF NOT EXISTS bookmarks (
		  id     INTEGER PRIMARY KEY,
		  handle TEXT,
		  link   TEXT,
		  active INTEGER
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Migration 1 -> 2: at most one active row per handle.
	// Older data may hold duplicates; the newest row for each handle stays active.
	if version < 2 {
		tx, err := db.Begin()
		if err != nil {
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		repair := `
		UPDATE bookmarks SET active = 0
		WHERE active = 1 AND id NOT IN (
		  SELECT MAX(id) FROM bookmarks WHERE active = 1 GROUP BY handle
		)
		`
		if _, err := tx.Exec(repair); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		index := `
		CREATE UNIQUE INDEX IF NOT EXISTS idx_bookmarks_active_handle
		ON bookmarks(handle)
		WHERE active = 1;

		CREATE INDEX IF NOT EXISTS idx_bookmarks_handle
		ON bookmarks(handle);
		`
		if _, err := tx.Exec(index); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("migration 2 failed: %w", err)
		}
		if err := SetUserVersion(db, 2); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 3 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
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
