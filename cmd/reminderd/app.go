package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/dispatch"
	"github.com/phrazzld/todo-api/internal/platform/postgres"
	"github.com/phrazzld/todo-api/internal/platform/sqlite"
	"github.com/phrazzld/todo-api/internal/service"
	"github.com/phrazzld/todo-api/internal/store"
)

// application holds the process dependencies so they can be closed together
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     io.Closer

	notificationStore store.NotificationStore
	reminderStore     store.ReminderStore

	// entry points for the task and UI layers; the daemon itself only
	// dispatches reminders
	cleanupService      service.TaskCleanupService
	notificationService service.NotificationService

	dispatcher *dispatch.Dispatcher
}

// newApplication opens the configured backend, migrates it and wires the
// stores, services and (when enabled) the reminder dispatcher.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	var txb store.TxBeginner
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		if err := postgres.Migrate(ctx, db, logger, "up"); err != nil {
			app.cleanup()
			return nil, fmt.Errorf("failed to apply migrations: %w", err)
		}
		txb = db
		app.notificationStore = postgres.NewPostgresNotificationStore(db, logger)
		app.reminderStore = postgres.NewPostgresReminderStore(db, logger)

	case config.DriverSQLite:
		db, err := sqlite.OpenMigrated(ctx, cfg.Database, logger)
		if err != nil {
			return nil, err
		}
		app.db = db
		txb = db.DB
		app.notificationStore = sqlite.NewSQLiteNotificationStore(db, logger)
		app.reminderStore = sqlite.NewSQLiteReminderStore(db, logger)

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	var err error
	app.cleanupService, err = service.NewTaskCleanupService(txb, app.notificationStore, app.reminderStore, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}
	app.notificationService, err = service.NewNotificationService(app.notificationStore, logger)
	if err != nil {
		app.cleanup()
		return nil, err
	}

	if cfg.Dispatcher.Enabled {
		app.dispatcher = dispatch.NewDispatcher(
			app.reminderStore,
			dispatch.NewLogSender(logger),
			dispatch.ConfigFrom(cfg.Dispatcher),
			logger,
		)
	}

	return app, nil
}

// start launches background work. It returns immediately.
func (app *application) start(ctx context.Context) error {
	if app.dispatcher == nil {
		app.logger.Info("reminder dispatcher disabled")
		return nil
	}
	if err := app.dispatcher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start dispatcher: %w", err)
	}
	return nil
}

// cleanup stops the dispatcher and closes the database.
func (app *application) cleanup() {
	if app.dispatcher != nil {
		app.dispatcher.Stop()
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("failed to close database", slog.String("error", err.Error()))
		}
		app.db = nil
	}
}

// runMigration opens the configured backend without migrating it and runs a
// single goose command.
func runMigration(
	ctx context.Context,
	cfg config.DatabaseConfig,
	logger *slog.Logger,
	command string,
	args ...string,
) error {
	switch cfg.Driver {
	case config.DriverPostgres:
		db, err := postgres.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return postgres.Migrate(ctx, db, logger, command, args...)

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg, logger)
		if err != nil {
			return err
		}
		defer func() { _ = db.Close() }()
		return sqlite.Migrate(ctx, db, logger, command, args...)

	default:
		return fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
