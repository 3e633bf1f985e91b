package ops

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/hpungsan/linkbot/internal/db"
)

// openTestDB initializes a fresh database in a temp directory.
func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(filepath.Join(t.TempDir(), "linkbot.db"))
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

// mustCreate stores a bookmark or fails the test.
func mustCreate(t *testing.T, database *sql.DB, handle, link string) *CreateOutput {
	t.Helper()
	out, err := Create(t.Context(), database, CreateInput{Handle: handle, Link: link})
	if err != nil {
		t.Fatalf("Create(%q) failed: %v", handle, err)
	}
	return out
}
