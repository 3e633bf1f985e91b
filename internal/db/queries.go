package db

import (
	"context"
	"database/sql"
	stderrors "errors"
	"strings"

	"github.com/hpungsan/linkbot/internal/bookmark"
	"github.com/hpungsan/linkbot/internal/errors"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.LinkbotError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertActive stores a new active bookmark and returns its row id.
// The partial unique index on active handles makes the existence check and
// the insert a single atomic step; a concurrent insert for the same handle
// fails with ErrUniqueConstraint.
func InsertActive(ctx context.Context, db *sql.DB, handle, link string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO bookmarks (handle, link, active) VALUES (?, ?, 1)`,
		handle, link,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return 0, ErrUniqueConstraint
		}
		return 0, errors.NewStoreUnavailable(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, errors.NewStoreUnavailable(err)
	}
	return id, nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetActive retrieves the active bookmark for handle.
func GetActive(ctx context.Context, db *sql.DB, handle string) (*bookmark.Bookmark, error) {
	query := `
		SELECT id, handle, link, active
		FROM bookmarks
		WHERE handle = ? AND active = 1
		ORDER BY id DESC
		LIMIT 1
	`

	b, err := scanBookmark(db.QueryRowContext(ctx, query, handle))
	if stderrors.Is(err, sql.ErrNoRows) {
		return nil, errors.NewNotFound(handle)
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return b, nil
}

// DeactivateActive soft-deletes every active row for handle and returns how
// many rows changed. More than one means the single-active invariant had been
// broken; the update repairs it.
func DeactivateActive(ctx context.Context, db *sql.DB, handle string) (int64, error) {
	result, err := db.ExecContext(ctx,
		`UPDATE bookmarks SET active = 0 WHERE handle = ? AND active = 1`,
		handle,
	)
	if err != nil {
		return 0, errors.NewStoreUnavailable(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, errors.NewStoreUnavailable(err)
	}
	if rowsAffected == 0 {
		return 0, errors.NewNotFound(handle)
	}
	return rowsAffected, nil
}

// SearchActiveHandles returns active handles containing pattern, compared
// case-insensitively. Exact matches sort first, then alphabetical order.
// instr is used instead of LIKE so % and _ in patterns match literally.
func SearchActiveHandles(ctx context.Context, db *sql.DB, pattern string, limit int) ([]string, error) {
	query := `
		SELECT handle
		FROM bookmarks
		WHERE active = 1 AND instr(lower(handle), lower(?)) > 0
		ORDER BY (lower(handle) = lower(?)) DESC, handle ASC
		LIMIT ?
	`

	rows, err := db.QueryContext(ctx, query, pattern, pattern, limit)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	handles := make([]string, 0)
	for rows.Next() {
		var h string
		if err := rows.Scan(&h); err != nil {
			return nil, errors.NewStoreUnavailable(err)
		}
		handles = append(handles, h)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return handles, nil
}

// ListActive returns active bookmarks, newest first.
func ListActive(ctx context.Context, db *sql.DB, limit, offset int) ([]bookmark.Bookmark, error) {
	query := `
		SELECT id, handle, link, active
		FROM bookmarks
		WHERE active = 1
		ORDER BY id DESC
		LIMIT ? OFFSET ?
	`

	rows, err := db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	defer rows.Close()

	items := make([]bookmark.Bookmark, 0)
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, errors.NewStoreUnavailable(err)
		}
		items = append(items, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}
	return items, nil
}

// CountActive returns the number of active bookmarks.
func CountActive(ctx context.Context, db *sql.DB) (int, error) {
	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM bookmarks WHERE active = 1`).Scan(&n); err != nil {
		return 0, errors.NewStoreUnavailable(err)
	}
	return n, nil
}

// GetInfo reads a value from the info table.
func GetInfo(ctx context.Context, db *sql.DB, name string) (string, error) {
	var val sql.NullString
	err := db.QueryRowContext(ctx, `SELECT val FROM info WHERE name = ? LIMIT 1`, name).Scan(&val)
	if stderrors.Is(err, sql.ErrNoRows) {
		return "", errors.NewNotFound(name)
	}
	if err != nil {
		return "", errors.NewStoreUnavailable(err)
	}
	return val.String, nil
}

// SetInfo writes a value to the info table, inserting the row on first use.
func SetInfo(ctx context.Context, db *sql.DB, name, val string) error {
	query := `
		INSERT INTO info (name, val) VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET val = excluded.val
	`
	if _, err := db.ExecContext(ctx, query, name, val); err != nil {
		return errors.NewStoreUnavailable(err)
	}
	return nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBookmark scans a single row into a Bookmark. NULL link or handle
// values from hand-edited databases read as empty strings.
func scanBookmark(row rowScanner) (*bookmark.Bookmark, error) {
	var (
		b      bookmark.Bookmark
		handle sql.NullString
		link   sql.NullString
		active sql.NullInt64
	)
	if err := row.Scan(&b.ID, &handle, &link, &active); err != nil {
		return nil, err
	}
	b.Handle = handle.String
	b.Link = link.String
	b.Active = active.Valid && active.Int64 == 1
	return &b, nil
}
