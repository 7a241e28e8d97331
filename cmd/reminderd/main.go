// Package main implements reminderd, the process that owns the notification
// and reminder tables of the to-do backend and delivers due reminders.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/phrazzld/todo-api/internal/config"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		log.Fatalf("reminderd: %v", err)
	}
}

// options are the command-line flags.
type options struct {
	envFile        string
	migrateCommand string
	migrateArgs    []string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fset := flag.NewFlagSet("reminderd", flag.ContinueOnError)
	fset.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before configuration (ignored if missing)")
	fset.StringVar(&opts.migrateCommand, "migrate", "",
		"run a migration command (up, down, status, version, reset, redo) and exit")

	if err := fset.Parse(args); err != nil {
		return options{}, err
	}
	opts.migrateArgs = fset.Args()
	return opts, nil
}

// run is main without the process exit, so it can be driven from tests.
func run(ctx context.Context, args []string) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	cfg, err := initializeApp(opts.envFile)
	if err != nil {
		return err
	}
	appLogger := slog.Default()

	if opts.migrateCommand != "" {
		return runMigration(ctx, cfg.Database, appLogger, opts.migrateCommand, opts.migrateArgs...)
	}

	app, err := newApplication(ctx, cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer app.cleanup()

	if err := app.start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	appLogger.Info("shutdown signal received")
	return nil
}

// initializeApp loads the dotenv file, configuration and the default logger.
func initializeApp(envFile string) (*config.Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if _, err := logger.Setup(cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	slog.Info("configuration loaded",
		"log_level", cfg.Server.LogLevel,
		"database_driver", cfg.Database.Driver,
		"dispatcher_enabled", cfg.Dispatcher.Enabled)
	return cfg, nil
}
