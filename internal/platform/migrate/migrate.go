// Package migrate runs goose migrations from an embedded filesystem.
//
// goose keeps its base filesystem, dialect, table name and logger in package
// globals, so every backend goes through Run, which holds a single lock
// while it configures goose and executes the command.
package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"sync"

	"github.com/pressly/goose/v3"
)

// TableName is the table goose records applied versions in.
const TableName = "schema_migrations"

var mu sync.Mutex

// Source describes one backend's migration set.
type Source struct {
	// Dialect is the goose dialect name, e.g. "postgres" or "sqlite3".
	Dialect string
	// FS holds the migration files.
	FS fs.FS
	// Dir is the directory inside FS containing the .sql files.
	Dir string
}

// Run executes a goose command ("up", "down", "status", "version", "redo",
// "reset", "up-to", "down-to", ...) against db.
func Run(ctx context.Context, db *sql.DB, src Source, logger *slog.Logger, command string, args ...string) error {
	if db == nil {
		return errors.New("migrate: nil database")
	}
	if src.FS == nil {
		return errors.New("migrate: nil migration filesystem")
	}
	if logger == nil {
		logger = slog.Default()
	}

	mu.Lock()
	defer mu.Unlock()

	goose.SetBaseFS(src.FS)
	defer goose.SetBaseFS(nil)

	goose.SetTableName(TableName)
	goose.SetLogger(gooseLogger{log: logger.With(slog.String("component", "migrations"))})

	if err := goose.SetDialect(src.Dialect); err != nil {
		return fmt.Errorf("failed to set goose dialect %q: %w", src.Dialect, err)
	}

	logger.Info("running migration command",
		slog.String("command", command),
		slog.String("dialect", src.Dialect))

	if err := goose.RunContext(ctx, command, db, src.Dir, args...); err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}
	return nil
}

// gooseLogger routes goose output through slog.
type gooseLogger struct {
	log *slog.Logger
}

func (l gooseLogger) Printf(format string, v ...any) {
	l.log.Info(fmt.Sprintf(format, v...))
}

// Fatalf logs at error level. goose only calls it from its own CLI.
func (l gooseLogger) Fatalf(format string, v ...any) {
	l.log.Error(fmt.Sprintf(format, v...))
}
