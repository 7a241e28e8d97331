package sqlite

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/jmoiron/sqlx/reflectx"

	"github.com/phrazzld/todo-api/internal/store"
)

// wrapTx adapts a plain *sql.Tx handed in by a caller to sqlx.
func wrapTx(tx *sql.Tx) *sqlx.Tx {
	return &sqlx.Tx{Tx: tx, Mapper: reflectx.NewMapperFunc("db", sqlx.NameMapper)}
}

// runScoped runs fn in its own transaction when db is the pool, and directly
// against db when it is already a caller's transaction.
func runScoped(ctx context.Context, db sqlx.ExtContext, fn func(ctx context.Context, db sqlx.ExtContext) error) error {
	pool, ok := db.(*sqlx.DB)
	if !ok {
		return fn(ctx, db)
	}

	return store.RunInTransaction(ctx, pool.DB, func(ctx context.Context, tx *sql.Tx) error {
		return fn(ctx, wrapTx(tx))
	})
}
