package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/store"
)

const (
	reminderStoreComponent = "reminder_store"
	reminderColumns        = `id, task_id, reminder_time, sent`
)

// PostgresReminderStore implements the store.ReminderStore interface
// using a PostgreSQL database as the storage backend.
type PostgresReminderStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresReminderStore creates a new PostgreSQL implementation of the ReminderStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresReminderStore(db store.DBTX, logger *slog.Logger) *PostgresReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", reminderStoreComponent)),
	}
}

// Ensure PostgresReminderStore implements store.ReminderStore interface
var _ store.ReminderStore = (*PostgresReminderStore)(nil)

// Create implements store.ReminderStore.Create.
func (s *PostgresReminderStore) Create(ctx context.Context, r *domain.Reminder) error {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	if err := r.Validate(); err != nil {
		log.Warn("reminder validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("task_id", r.TaskID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	r.ReminderTime = r.ReminderTime.UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO reminders (task_id, reminder_time, sent)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		r.TaskID,
		r.ReminderTime.UTC(),
		r.Sent,
	).Scan(&r.ID)
	if err != nil {
		log.Error("failed to create reminder",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", r.TaskID))
		return fmt.Errorf("failed to create reminder: %w", MapError(err))
	}

	log.Debug("reminder created",
		slog.Int64("reminder_id", r.ID),
		slog.Int64("task_id", r.TaskID),
		slog.Time("reminder_time", r.ReminderTime))
	return nil
}

// GetByID implements store.ReminderStore.GetByID.
func (s *PostgresReminderStore) GetByID(ctx context.Context, id int64) (*domain.Reminder, error) {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	query := `SELECT ` + reminderColumns + ` FROM reminders WHERE id = $1`

	var r domain.Reminder
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&r.ID,
		&r.TaskID,
		&r.ReminderTime,
		&r.Sent,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("reminder not found", slog.Int64("reminder_id", id))
			return nil, store.ErrReminderNotFound
		}
		log.Error("failed to get reminder by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("reminder_id", id))
		return nil, fmt.Errorf("failed to get reminder: %w", MapError(err))
	}

	r.ReminderTime = r.ReminderTime.UTC()
	return &r, nil
}

// ListForTask implements store.ReminderStore.ListForTask.
func (s *PostgresReminderStore) ListForTask(ctx context.Context, taskID int64) ([]*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE task_id = $1
		ORDER BY id
	`
	return s.list(ctx, "list_for_task", query, taskID)
}

// ListDueUnsent implements store.ReminderStore.ListDueUnsent.
// This is the query the dispatcher polls; the partial index on
// reminder_time WHERE NOT sent serves it.
func (s *PostgresReminderStore) ListDueUnsent(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	query := `
		SELECT ` + reminderColumns + `
		FROM reminders
		WHERE reminder_time < $1 AND sent = FALSE
		ORDER BY reminder_time, id
	`
	return s.list(ctx, "list_due_unsent", query, store.DueCutoff(now))
}

// MarkSent implements store.ReminderStore.MarkSent.
func (s *PostgresReminderStore) MarkSent(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	result, err := s.db.ExecContext(ctx, `UPDATE reminders SET sent = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to mark reminder sent",
			slog.String("error", redact.Error(err)),
			slog.Int64("reminder_id", id))
		return fmt.Errorf("failed to mark reminder sent: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrReminderNotFound); err != nil {
		log.Debug("reminder not found for mark sent", slog.Int64("reminder_id", id))
		return err
	}

	log.Debug("reminder marked sent", slog.Int64("reminder_id", id))
	return nil
}

// Delete implements store.ReminderStore.Delete.
func (s *PostgresReminderStore) Delete(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete reminder",
			slog.String("error", redact.Error(err)),
			slog.Int64("reminder_id", id))
		return fmt.Errorf("failed to delete reminder: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrReminderNotFound); err != nil {
		log.Debug("reminder not found for delete", slog.Int64("reminder_id", id))
		return err
	}

	log.Debug("reminder deleted", slog.Int64("reminder_id", id))
	return nil
}

// DeleteForTask implements store.ReminderStore.DeleteForTask.
func (s *PostgresReminderStore) DeleteForTask(ctx context.Context, taskID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	var deleted int64
	err := runScoped(ctx, s.db, func(ctx context.Context, db store.DBTX) error {
		result, err := db.ExecContext(ctx, `DELETE FROM reminders WHERE task_id = $1`, taskID)
		if err != nil {
			return MapError(err)
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		log.Error("failed to delete reminders for task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", taskID))
		return 0, fmt.Errorf("failed to delete reminders for task: %w", MapError(err))
	}

	log.Info("reminders deleted for task",
		slog.Int64("task_id", taskID),
		slog.Int64("count", deleted))
	return deleted, nil
}

// WithTx implements store.ReminderStore.WithTx.
func (s *PostgresReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &PostgresReminderStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresReminderStore) list(
	ctx context.Context,
	op string,
	query string,
	arg any,
) ([]*domain.Reminder, error) {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query reminders",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to query reminders: %w", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", redact.Error(err)))
		}
	}()

	reminders := []*domain.Reminder{}
	for rows.Next() {
		var r domain.Reminder
		if err := rows.Scan(&r.ID, &r.TaskID, &r.ReminderTime, &r.Sent); err != nil {
			log.Error("failed to scan reminder row",
				slog.String("operation", op),
				slog.String("error", redact.Error(err)))
			return nil, fmt.Errorf("failed to scan reminder row: %w", err)
		}
		r.ReminderTime = r.ReminderTime.UTC()
		reminders = append(reminders, &r)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating reminder rows",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("error iterating reminder rows: %w", MapError(err))
	}

	log.Debug("reminders listed",
		slog.String("operation", op),
		slog.Int("count", len(reminders)))
	return reminders, nil
}
