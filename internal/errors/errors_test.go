package errors

import (
	"fmt"
	"testing"
)

func TestLinkbotError_Error(t *testing.T) {
	err := &LinkbotError{
		Code:    ErrNotFound,
		Status:  404,
		Message: "bookmark not found",
	}

	expected := "NOT_FOUND: bookmark not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewInvalidRequest(t *testing.T) {
	err := NewInvalidRequest("handle is required")

	if err.Code != ErrInvalidRequest {
		t.Errorf("Code = %q, want %q", err.Code, ErrInvalidRequest)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "handle is required" {
		t.Errorf("Message = %q, want %q", err.Message, "handle is required")
	}
}

func TestNewIncompleteCommand(t *testing.T) {
	err := NewIncompleteCommand("bookmark", "Usage: .bookmark <keyword> <data>")

	if err.Code != ErrIncompleteCommand {
		t.Errorf("Code = %q, want %q", err.Code, ErrIncompleteCommand)
	}
	if err.Status != 400 {
		t.Errorf("Status = %d, want 400", err.Status)
	}
	if err.Message != "Usage: .bookmark <keyword> <data>" {
		t.Errorf("Message = %q, want usage text", err.Message)
	}
	if err.Details["verb"] != "bookmark" {
		t.Errorf("Details[verb] = %v, want %q", err.Details["verb"], "bookmark")
	}
}

func TestNewNotFound(t *testing.T) {
	err := NewNotFound("food")

	if err.Code != ErrNotFound {
		t.Errorf("Code = %q, want %q", err.Code, ErrNotFound)
	}
	if err.Status != 404 {
		t.Errorf("Status = %d, want 404", err.Status)
	}
	if err.Details["handle"] != "food" {
		t.Errorf("Details[handle] = %v, want %q", err.Details["handle"], "food")
	}
}

func TestNewAlreadyExists(t *testing.T) {
	err := NewAlreadyExists("food")

	if err.Code != ErrAlreadyExists {
		t.Errorf("Code = %q, want %q", err.Code, ErrAlreadyExists)
	}
	if err.Status != 409 {
		t.Errorf("Status = %d, want 409", err.Status)
	}
	if err.Details["handle"] != "food" {
		t.Errorf("Details[handle] = %v, want %q", err.Details["handle"], "food")
	}
}

func TestNewStoreUnavailable(t *testing.T) {
	err := NewStoreUnavailable(fmt.Errorf("disk I/O error"))

	if err.Code != ErrStoreUnavailable {
		t.Errorf("Code = %q, want %q", err.Code, ErrStoreUnavailable)
	}
	if err.Status != 503 {
		t.Errorf("Status = %d, want 503", err.Status)
	}
	// Driver text stays out of the message
	if err.Message != "bookmark store unavailable" {
		t.Errorf("Message = %q, want generic message", err.Message)
	}
	if err.Details["store_error"] != "disk I/O error" {
		t.Errorf("Details[store_error] = %v, want %q", err.Details["store_error"], "disk I/O error")
	}
}

func TestNewCollaborator(t *testing.T) {
	err := NewCollaborator("weather", fmt.Errorf("context deadline exceeded"))

	if err.Code != ErrCollaborator {
		t.Errorf("Code = %q, want %q", err.Code, ErrCollaborator)
	}
	if err.Status != 502 {
		t.Errorf("Status = %d, want 502", err.Status)
	}
	if err.Details["collaborator"] != "weather" {
		t.Errorf("Details[collaborator] = %v, want %q", err.Details["collaborator"], "weather")
	}
}

func TestNewDatabaseMissing(t *testing.T) {
	err := NewDatabaseMissing("/tmp/nope.db")

	if err.Code != ErrDatabaseMissing {
		t.Errorf("Code = %q, want %q", err.Code, ErrDatabaseMissing)
	}
	if err.Details["path"] != "/tmp/nope.db" {
		t.Errorf("Details[path] = %v, want %q", err.Details["path"], "/tmp/nope.db")
	}
}

func TestNewInternal(t *testing.T) {
	t.Run("with error", func(t *testing.T) {
		err := NewInternal(fmt.Errorf("boom"))

		if err.Code != ErrInternal {
			t.Errorf("Code = %q, want %q", err.Code, ErrInternal)
		}
		if err.Message != "an internal error occurred" {
			t.Errorf("Message = %q, want %q", err.Message, "an internal error occurred")
		}
		if err.Details["internal_error"] != "boom" {
			t.Errorf("Details[internal_error] = %v, want %q", err.Details["internal_error"], "boom")
		}
	})

	t.Run("with nil", func(t *testing.T) {
		err := NewInternal(nil)
		if err.Details == nil {
			t.Error("Details should not be nil")
		}
	})
}

func TestIs(t *testing.T) {
	t.Run("matching code", func(t *testing.T) {
		if !Is(NewNotFound("x"), ErrNotFound) {
			t.Error("Is() = false, want true")
		}
	})

	t.Run("non-matching code", func(t *testing.T) {
		if Is(NewNotFound("x"), ErrAlreadyExists) {
			t.Error("Is() = true, want false")
		}
	})

	t.Run("plain error", func(t *testing.T) {
		if Is(fmt.Errorf("plain error"), ErrNotFound) {
			t.Error("Is() = true, want false for non-LinkbotError")
		}
	})

	t.Run("wrapped", func(t *testing.T) {
		wrapped := fmt.Errorf("create: %w", NewAlreadyExists("x"))
		if !Is(wrapped, ErrAlreadyExists) {
			t.Error("Is() = false, want true for wrapped LinkbotError")
		}
	})
}

func TestAs(t *testing.T) {
	wrapped := fmt.Errorf("parse: %w", NewIncompleteCommand("unmark", "usage"))

	lErr, ok := As(wrapped)
	if !ok {
		t.Fatal("As() ok = false, want true")
	}
	if lErr.Message != "usage" {
		t.Errorf("Message = %q, want %q", lErr.Message, "usage")
	}

	if _, ok := As(fmt.Errorf("plain")); ok {
		t.Error("As() ok = true, want false for plain error")
	}
}
