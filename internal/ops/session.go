package ops

import (
	"context"
	"database/sql"
	"time"

	"github.com/hpungsan/linkbot/internal/db"
	"github.com/hpungsan/linkbot/internal/errors"
)

// LastRunKey is the info row holding the last start time.
const LastRunKey = "lastrun"

// LastRunLayout matches JavaScript's Date.toJSON, the format existing
// databases already hold.
const LastRunLayout = "2006-01-02T15:04:05.000Z07:00"

// LastRun returns the recorded last start time. found is false when the bot
// has never run against this database.
func LastRun(ctx context.Context, database *sql.DB) (string, bool, error) {
	val, err := db.GetInfo(ctx, database, LastRunKey)
	if errors.Is(err, errors.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

// TouchLastRun records now (in UTC) as the last start time.
func TouchLastRun(ctx context.Context, database *sql.DB, now time.Time) error {
	return db.SetInfo(ctx, database, LastRunKey, now.UTC().Format(LastRunLayout))
}
