package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/db"
	"github.com/hpungsan/linkbot/internal/errors"
)

// CreateInput contains parameters for the Create operation.
type CreateInput struct {
	Handle string // required
	Link   string // required, free text
}

// CreateOutput contains the result of the Create operation.
type CreateOutput struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
}

// Create adds a new active bookmark. Existing active bookmarks are never
// overwritten; the insert itself detects the collision so two concurrent
// creates for one handle cannot both succeed.
func Create(ctx context.Context, database *sql.DB, input CreateInput) (*CreateOutput, error) {
	handle := bookmark.CleanHandle(input.Handle)
	if err := bookmark.ValidateHandle(handle); err != nil {
		return nil, err
	}
	link := bookmark.CleanLink(input.Link)
	if err := bookmark.ValidateLink(link); err != nil {
		return nil, err
	}

	id, err := db.InsertActive(ctx, database, handle, link)
	if err == db.ErrUniqueConstraint {
		return nil, errors.NewAlreadyExists(handle)
	}
	if err != nil {
		return nil, err
	}

	return &CreateOutput{
		ID:     id,
		Handle: handle,
	}, nil
}
