package sqlite

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"

	"github.com/example/fta/internal/core/faulttree"
)

// timeLayout is how cause node timestamps are stored. Sub-second precision
// keeps the creation-time tiebreak between siblings stable.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// storeErr wraps a driver error for op. Lock contention is reported as a
// retryable store error; everything else keeps the plain wrapped form.
func storeErr(op string, err error) error {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && (sqliteErr.Code == sqlite3.ErrBusy || sqliteErr.Code == sqlite3.ErrLocked) {
		return &faulttree.StoreError{Op: op, Err: err, Retryable: true}
	}
	return fmt.Errorf("failed to %s: %w", op, err)
}

// nullString maps "" to NULL.
func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

// requireAffected turns a zero-row write into a not-found error.
func requireAffected(result sql.Result, kind, id string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return faulttree.NotFoundf("%s %s", kind, id)
	}
	return nil
}
