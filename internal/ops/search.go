package ops

import (
	"context"
	"database/sql"
	"strings"
	"unicode/utf8"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/db"
	"github.com/hpungsan/linkbot/internal/errors"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Pattern string // required
	Limit   int    // default and max: MaxSearchResults
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Pattern string   `json:"pattern"`
	Handles []string `json:"handles"`
	HasMore bool     `json:"has_more"`
}

// Search finds active handles containing the pattern, ignoring case.
// Exact matches come first, the rest alphabetically.
func Search(ctx context.Context, database *sql.DB, input SearchInput) (*SearchOutput, error) {
	pattern := strings.TrimSpace(input.Pattern)
	if pattern == "" {
		return nil, errors.NewInvalidRequest("pattern is required")
	}
	if utf8.RuneCountInString(pattern) > bookmark.MaxHandleChars {
		return nil, errors.NewInvalidRequest("pattern exceeds maximum length")
	}

	limit := input.Limit
	if limit <= 0 || limit > MaxSearchResults {
		limit = MaxSearchResults
	}

	// Fetch one extra row to detect whether more results exist.
	handles, err := db.SearchActiveHandles(ctx, database, pattern, limit+1)
	if err != nil {
		return nil, err
	}

	hasMore := len(handles) > limit
	if hasMore {
		handles = handles[:limit]
	}

	return &SearchOutput{
		Pattern: pattern,
		Handles: handles,
		HasMore: hasMore,
	}, nil
}
