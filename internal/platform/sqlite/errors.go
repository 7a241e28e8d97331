package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	sqlitedrv "modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/phrazzld/todo-api/internal/store"
)

// MapError maps a SQLite error to the matching store error, keeping the
// original in the chain.
func MapError(err error) error {
	if err == nil {
		return nil
	}

	// already mapped
	if errors.Is(err, store.ErrStorageUnavailable) ||
		errors.Is(err, store.ErrNotFound) ||
		errors.Is(err, store.ErrDuplicate) ||
		errors.Is(err, store.ErrInvalidEntity) {
		return err
	}

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %w", store.ErrNotFound, err)
	}

	if IsUnavailable(err) {
		return fmt.Errorf("%w: %w", store.ErrStorageUnavailable, err)
	}

	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return fmt.Errorf("%w: %w", store.ErrDuplicate, err)
		}
		if sqliteErr.Code()&0xff == sqlite3.SQLITE_CONSTRAINT {
			return fmt.Errorf("%w: constraint violation: %w", store.ErrInvalidEntity, err)
		}
	}

	return err
}

// IsUnavailable reports whether err means the database file could not be
// used: locked or busy past the busy timeout, unopenable, full, I/O failure,
// or a closed connection.
func IsUnavailable(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var sqliteErr *sqlitedrv.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() & 0xff {
		case sqlite3.SQLITE_BUSY,
			sqlite3.SQLITE_LOCKED,
			sqlite3.SQLITE_CANTOPEN,
			sqlite3.SQLITE_FULL,
			sqlite3.SQLITE_IOERR,
			sqlite3.SQLITE_READONLY:
			return true
		}
	}

	return false
}

// checkRowsAffected returns notFound when the statement touched no rows.
func checkRowsAffected(result sql.Result, notFound error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return notFound
	}
	return nil
}
