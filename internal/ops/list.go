package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/db"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Limit  int // default: 20, max: 100
	Offset int
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []bookmark.Bookmark `json:"items"`
	Pagination Pagination          `json:"pagination"`
}

// List returns active bookmarks, newest first.
func List(ctx context.Context, database *sql.DB, input ListInput) (*ListOutput, error) {
	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := input.Offset
	if offset < 0 {
		offset = 0
	}

	items, err := db.ListActive(ctx, database, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := db.CountActive(ctx, database)
	if err != nil {
		return nil, err
	}

	return &ListOutput{
		Items: items,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(items) < total,
			Total:   total,
		},
	}, nil
}
