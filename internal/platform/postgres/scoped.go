package postgres

import (
	"context"
	"database/sql"

	"github.com/phrazzld/todo-api/internal/store"
)

// runScoped runs fn inside a transaction. When db is already a transaction
// (anything that cannot begin one) fn runs directly against it and the
// caller keeps ownership of commit and rollback.
func runScoped(ctx context.Context, db store.DBTX, fn func(ctx context.Context, db store.DBTX) error) error {
	beginner, ok := db.(store.TxBeginner)
	if !ok {
		return fn(ctx, db)
	}

	return store.RunInTransaction(ctx, beginner, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, tx)
	})
}
