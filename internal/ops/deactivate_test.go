package ops

import (
	"testing"

	"github.com/hpungsan/linkbot/internal/errors"
)

func TestDeactivate(t *testing.T) {
	database := openTestDB(t)
	mustCreate(t, database, "food", "Pizza")

	out, err := Deactivate(t.Context(), database, DeactivateInput{Handle: "food"})
	if err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	if out.Deactivated != 1 {
		t.Errorf("Deactivated = %d, want 1", out.Deactivated)
	}

	if _, err := Resolve(t.Context(), database, ResolveInput{Handle: "food"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Resolve after deactivate = %v, want NOT_FOUND", err)
	}

	// History row is kept.
	var total int
	if err := database.QueryRow("SELECT COUNT(*) FROM bookmarks WHERE handle = 'food'").Scan(&total); err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 1 {
		t.Errorf("rows = %d, want 1", total)
	}
}

func TestDeactivate_NotFound(t *testing.T) {
	database := openTestDB(t)

	_, err := Deactivate(t.Context(), database, DeactivateInput{Handle: "ghost"})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Deactivate = %v, want NOT_FOUND", err)
	}
}

func TestDeactivate_ThenRecreate(t *testing.T) {
	database := openTestDB(t)
	mustCreate(t, database, "food", "old")

	if _, err := Deactivate(t.Context(), database, DeactivateInput{Handle: "food"}); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}
	mustCreate(t, database, "food", "new")

	got, err := Resolve(t.Context(), database, ResolveInput{Handle: "food"})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if got.Link != "new" {
		t.Errorf("Link = %q, want %q", got.Link, "new")
	}
}

func TestDeactivate_InvalidHandle(t *testing.T) {
	database := openTestDB(t)

	_, err := Deactivate(t.Context(), database, DeactivateInput{Handle: "   "})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Deactivate = %v, want INVALID_REQUEST", err)
	}
}
