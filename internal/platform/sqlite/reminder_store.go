package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/store"
)

const (
	reminderStoreComponent = "reminder_store"
	reminderColumns        = `id, task_id, reminder_time, sent`
)

type reminderRow struct {
	ID           int64 `db:"id"`
	TaskID       int64 `db:"task_id"`
	ReminderTime int64 `db:"reminder_time"`
	Sent         bool  `db:"sent"`
}

func (r reminderRow) toDomain() *domain.Reminder {
	return &domain.Reminder{
		ID:           r.ID,
		TaskID:       r.TaskID,
		ReminderTime: time.UnixMicro(r.ReminderTime).UTC(),
		Sent:         r.Sent,
	}
}

// SQLiteReminderStore implements store.ReminderStore on SQLite.
type SQLiteReminderStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewSQLiteReminderStore creates a reminder store on db, which is either the
// pool or a transaction. If logger is nil, slog.Default is used.
func NewSQLiteReminderStore(db sqlx.ExtContext, logger *slog.Logger) *SQLiteReminderStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteReminderStore{
		db:     db,
		logger: logger.With(slog.String("component", reminderStoreComponent)),
	}
}

var _ store.ReminderStore = (*SQLiteReminderStore)(nil)

// Create implements store.ReminderStore.Create.
func (s *SQLiteReminderStore) Create(ctx context.Context, r *domain.Reminder) error {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	if err := r.Validate(); err != nil {
		log.Warn("reminder validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("task_id", r.TaskID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	r.ReminderTime = r.ReminderTime.UTC().Truncate(time.Microsecond)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO reminders (task_id, reminder_time, sent) VALUES (?, ?, ?)`,
		r.TaskID, r.ReminderTime.UTC().UnixMicro(), r.Sent,
	)
	if err != nil {
		log.Error("failed to create reminder",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", r.TaskID))
		return fmt.Errorf("failed to create reminder: %w", MapError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read reminder id: %w", err)
	}
	r.ID = id

	log.Debug("reminder created",
		slog.Int64("reminder_id", r.ID),
		slog.Int64("task_id", r.TaskID))
	return nil
}

// GetByID implements store.ReminderStore.GetByID.
func (s *SQLiteReminderStore) GetByID(ctx context.Context, id int64) (*domain.Reminder, error) {
	var row reminderRow
	err := sqlx.GetContext(ctx, s.db, &row,
		`SELECT `+reminderColumns+` FROM reminders WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrReminderNotFound
		}
		logger.ForComponent(ctx, s.logger, reminderStoreComponent).Error("failed to get reminder by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("reminder_id", id))
		return nil, fmt.Errorf("failed to get reminder: %w", MapError(err))
	}

	return row.toDomain(), nil
}

// ListForTask implements store.ReminderStore.ListForTask.
func (s *SQLiteReminderStore) ListForTask(ctx context.Context, taskID int64) ([]*domain.Reminder, error) {
	return s.list(ctx, "list_for_task", `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE task_id = ?
		ORDER BY id`, taskID)
}

// ListDueUnsent implements store.ReminderStore.ListDueUnsent.
func (s *SQLiteReminderStore) ListDueUnsent(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	return s.list(ctx, "list_due_unsent", `
		SELECT `+reminderColumns+`
		FROM reminders
		WHERE reminder_time < ? AND sent = 0
		ORDER BY reminder_time, id`, store.DueCutoff(now).UnixMicro())
}

// MarkSent implements store.ReminderStore.MarkSent.
func (s *SQLiteReminderStore) MarkSent(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `UPDATE reminders SET sent = 1 WHERE id = ?`, id)
	if err != nil {
		logger.ForComponent(ctx, s.logger, reminderStoreComponent).Error("failed to mark reminder sent",
			slog.String("error", redact.Error(err)),
			slog.Int64("reminder_id", id))
		return fmt.Errorf("failed to mark reminder sent: %w", MapError(err))
	}

	return checkRowsAffected(result, store.ErrReminderNotFound)
}

// Delete implements store.ReminderStore.Delete.
func (s *SQLiteReminderStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM reminders WHERE id = ?`, id)
	if err != nil {
		logger.ForComponent(ctx, s.logger, reminderStoreComponent).Error("failed to delete reminder",
			slog.String("error", redact.Error(err)),
			slog.Int64("reminder_id", id))
		return fmt.Errorf("failed to delete reminder: %w", MapError(err))
	}

	return checkRowsAffected(result, store.ErrReminderNotFound)
}

// DeleteForTask implements store.ReminderStore.DeleteForTask.
func (s *SQLiteReminderStore) DeleteForTask(ctx context.Context, taskID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, reminderStoreComponent)

	var deleted int64
	err := runScoped(ctx, s.db, func(ctx context.Context, db sqlx.ExtContext) error {
		result, err := db.ExecContext(ctx, `DELETE FROM reminders WHERE task_id = ?`, taskID)
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
func (s *SQLiteReminderStore) WithTx(tx *sql.Tx) store.ReminderStore {
	return &SQLiteReminderStore{
		db:     wrapTx(tx),
		logger: s.logger,
	}
}

func (s *SQLiteReminderStore) list(ctx context.Context, op, query string, arg int64) ([]*domain.Reminder, error) {
	var rows []reminderRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, arg); err != nil {
		logger.ForComponent(ctx, s.logger, reminderStoreComponent).Error("failed to query reminders",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to query reminders: %w", MapError(err))
	}

	reminders := make([]*domain.Reminder, 0, len(rows))
	for _, row := range rows {
		reminders = append(reminders, row.toDomain())
	}
	return reminders, nil
}
