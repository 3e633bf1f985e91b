package ops

import (
	"context"
	"database/sql"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/db"
)

// DeactivateInput contains parameters for the Deactivate operation.
type DeactivateInput struct {
	Handle string
}

// DeactivateOutput contains the result of the Deactivate operation.
type DeactivateOutput struct {
	Handle      string `json:"handle"`
	Deactivated int64  `json:"deactivated"`
}

// Deactivate soft-deletes the active bookmark for a handle. Rows are kept as
// history. Deactivated is normally 1; a larger value means duplicate active
// rows were found and all of them were retired.
func Deactivate(ctx context.Context, database *sql.DB, input DeactivateInput) (*DeactivateOutput, error) {
	handle := bookmark.CleanHandle(input.Handle)
	if err := bookmark.ValidateHandle(handle); err != nil {
		return nil, err
	}

	n, err := db.DeactivateActive(ctx, database, handle)
	if err != nil {
		return nil, err
	}

	return &DeactivateOutput{
		Handle:      handle,
		Deactivated: n,
	}, nil
}
