package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/db"
)

// ResolveInput contains parameters for the Resolve operation.
type ResolveInput struct {
	Handle string
}

// ResolveOutput contains the result of the Resolve operation.
type ResolveOutput struct {
	ID     int64  `json:"id"`
	Handle string `json:"handle"`
	Link   string `json:"link"`
}

// Resolve looks up the active bookmark for a handle.
func Resolve(ctx context.Context, database *sql.DB, input ResolveInput) (*ResolveOutput, error) {
	handle := bookmark.CleanHandle(input.Handle)
	if err := bookmark.ValidateHandle(handle); err != nil {
		return nil, err
	}

	b, err := db.GetActive(ctx, database, handle)
	if err != nil {
		return nil, err
	}

	return &ResolveOutput{
		ID:     b.ID,
		Handle: b.Handle,
		Link:   b.Link,
	}, nil
}
