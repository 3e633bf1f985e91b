package bookmark

import (
	"net/url"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hpungsan/linkbot/internal/errors"
)

// Limits on stored values.
const (
	MaxHandleChars = 100
	MaxLinkChars   = 4000
)

// Bookmark is one keyword to link binding. Inactive rows are soft-deleted
// history and are never returned by lookups.
type Bookmark struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Link   string `json:"link"`
	Active bool   `json:"active"`
}

// CleanHandle trims surrounding whitespace. Handles are otherwise stored and
// matched exactly, case included.
func CleanHandle(s string) string {
	return strings.TrimSpace(s)
}

// CleanLink trims surrounding whitespace from link text.
func CleanLink(s string) string {
	return strings.TrimSpace(s)
}

// ValidateHandle checks that a cleaned handle can be stored.
func ValidateHandle(handle string) error {
	if handle == "" {
		return errors.NewInvalidRequest("handle must not be empty")
	}
	if utf8.RuneCountInString(handle) > MaxHandleChars {
		return errors.NewInvalidRequest("handle exceeds maximum length")
	}
	if strings.IndexFunc(handle, unicode.IsSpace) >= 0 {
		return errors.NewInvalidRequest("handle must be a single word")
	}
	return nil
}

// ValidateLink checks that cleaned link text can be stored.
func ValidateLink(link string) error {
	if link == "" {
		return errors.NewInvalidRequest("link must not be empty")
	}
	if utf8.RuneCountInString(link) > MaxLinkChars {
		return errors.NewInvalidRequest("link exceeds maximum length")
	}
	return nil
}

// IsURL reports whether link is a single absolute http or https URL.
// Links are free text, so most callers treat a false result as prose.
func IsURL(link string) bool {
	if link == "" || strings.ContainsAny(link, " \t\n") {
		return false
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
