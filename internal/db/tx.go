// Package db holds helpers shared by the SQLite stores.
package db

import (
	"context"
	"database/sql"
	"time"
)

// WithTx runs fn in a transaction. The transaction commits when fn returns
// nil and rolls back otherwise, including when fn panics.
func WithTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// Value returns the scanned value, or T's zero value for NULL.
func Value[T any](n sql.Null[T]) T {
	if !n.Valid {
		var zero T
		return zero
	}
	return n.V
}

// UnixMillis converts t to a column value. The zero time is stored as NULL.
func UnixMillis(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UnixMilli()
}

// Time reads a millisecond column written by UnixMillis.
func Time(n sql.Null[int64]) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.UnixMilli(n.V)
}
