package sqlite

import (
	"context"
	"embed"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // registers the "sqlite" database/sql driver

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/migrate"
	"github.com/phrazzld/todo-api/internal/store"
)

// DriverName is the database/sql driver name registered by modernc.org/sqlite.
const DriverName = "sqlite"

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations is the SQLite migration set.
var Migrations = migrate.Source{
	Dialect: "sqlite3",
	FS:      migrationsFS,
	Dir:     "migrations",
}

var pragmas = []string{
	"PRAGMA foreign_keys = ON",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA journal_mode = WAL",
}

// Open opens (or creates) the SQLite database at cfg.URL, which is a file
// path or ":memory:", applies pragmas and verifies the connection.
//
// The pool is pinned to one connection: SQLite allows a single writer, and
// every connection to ":memory:" would otherwise see its own empty database.
// The pool settings in cfg are ignored.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sqlx.Open(DriverName, cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%w: applying %q: %w", store.ErrStorageUnavailable, pragma, err)
		}
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: failed to ping database: %w", store.ErrStorageUnavailable, err)
	}

	logger.Info("database connection established",
		slog.String("driver", config.DriverSQLite))
	return db, nil
}

// Migrate runs a goose command against db using the embedded migrations.
func Migrate(ctx context.Context, db *sqlx.DB, logger *slog.Logger, command string, args ...string) error {
	return MapError(migrate.Run(ctx, db.DB, Migrations, logger, command, args...))
}

// OpenMigrated opens the database and applies every pending migration.
func OpenMigrated(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*sqlx.DB, error) {
	db, err := Open(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	if err := Migrate(ctx, db, logger, "up"); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
