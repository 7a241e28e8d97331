package postgres

import (
	"context"
	"database/sql"
	"embed"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/platform/migrate"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations is the PostgreSQL migration set.
var Migrations = migrate.Source{
	Dialect: "postgres",
	FS:      migrationsFS,
	Dir:     "migrations",
}

// Migrate runs a goose command against a PostgreSQL database using the
// embedded migrations. Driver errors are mapped to store errors.
func Migrate(ctx context.Context, db *sql.DB, logger *slog.Logger, command string, args ...string) error {
	return MapError(migrate.Run(ctx, db, Migrations, logger, command, args...))
}
