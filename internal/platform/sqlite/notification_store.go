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
	notificationStoreComponent = "notification_store"
	notificationColumns        = `id, user_id, task_id, is_read, created_at`
)

// notificationRow is the on-disk shape of a notification.
type notificationRow struct {
	ID        int64 `db:"id"`
	UserID    int64 `db:"user_id"`
	TaskID    int64 `db:"task_id"`
	IsRead    bool  `db:"is_read"`
	CreatedAt int64 `db:"created_at"`
}

func (r notificationRow) toDomain() *domain.Notification {
	return &domain.Notification{
		ID:        r.ID,
		UserID:    r.UserID,
		TaskID:    r.TaskID,
		IsRead:    r.IsRead,
		CreatedAt: time.UnixMicro(r.CreatedAt).UTC(),
	}
}

// SQLiteNotificationStore implements store.NotificationStore on SQLite.
type SQLiteNotificationStore struct {
	db     sqlx.ExtContext
	logger *slog.Logger
}

// NewSQLiteNotificationStore creates a notification store on db, which is
// either the pool or a transaction. If logger is nil, slog.Default is used.
func NewSQLiteNotificationStore(db sqlx.ExtContext, logger *slog.Logger) *SQLiteNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &SQLiteNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", notificationStoreComponent)),
	}
}

var _ store.NotificationStore = (*SQLiteNotificationStore)(nil)

// Create implements store.NotificationStore.Create.
func (s *SQLiteNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	if err := n.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", n.UserID),
			slog.Int64("task_id", n.TaskID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	n.CreatedAt = n.CreatedAt.UTC().Truncate(time.Microsecond)

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, task_id, is_read, created_at) VALUES (?, ?, ?, ?)`,
		n.UserID, n.TaskID, n.IsRead, n.CreatedAt.UTC().UnixMicro(),
	)
	if err != nil {
		log.Error("failed to create notification",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", n.UserID),
			slog.Int64("task_id", n.TaskID))
		return fmt.Errorf("failed to create notification: %w", MapError(err))
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read notification id: %w", err)
	}
	n.ID = id

	log.Debug("notification created",
		slog.Int64("notification_id", n.ID),
		slog.Int64("user_id", n.UserID),
		slog.Int64("task_id", n.TaskID))
	return nil
}

// GetByID implements store.NotificationStore.GetByID.
func (s *SQLiteNotificationStore) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	var row notificationRow
	err := sqlx.GetContext(ctx, s.db, &row,
		`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("notification not found", slog.Int64("notification_id", id))
			return nil, store.ErrNotificationNotFound
		}
		log.Error("failed to get notification by ID",
			slog.String("error", redact.Error(err)),
			slog.Int64("notification_id", id))
		return nil, fmt.Errorf("failed to get notification: %w", MapError(err))
	}

	return row.toDomain(), nil
}

// ListUnreadForUser implements store.NotificationStore.ListUnreadForUser.
func (s *SQLiteNotificationStore) ListUnreadForUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	return s.list(ctx, "list_unread_for_user", `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = ? AND is_read = 0
		ORDER BY created_at DESC, id DESC`, userID)
}

// ListAllForUser implements store.NotificationStore.ListAllForUser.
func (s *SQLiteNotificationStore) ListAllForUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	return s.list(ctx, "list_all_for_user", `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC`, userID)
}

// CountUnreadForUser implements store.NotificationStore.CountUnreadForUser.
func (s *SQLiteNotificationStore) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := sqlx.GetContext(ctx, s.db, &count,
		`SELECT COUNT(*) FROM notifications WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		logger.ForComponent(ctx, s.logger, notificationStoreComponent).Error("failed to count unread notifications",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", userID))
		return 0, fmt.Errorf("failed to count unread notifications: %w", MapError(err))
	}
	return count, nil
}

// ListForTask implements store.NotificationStore.ListForTask.
func (s *SQLiteNotificationStore) ListForTask(ctx context.Context, taskID int64) ([]*domain.Notification, error) {
	return s.list(ctx, "list_for_task", `
		SELECT `+notificationColumns+`
		FROM notifications
		WHERE task_id = ?
		ORDER BY id`, taskID)
}

// MarkRead implements store.NotificationStore.MarkRead.
func (s *SQLiteNotificationStore) MarkRead(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	result, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to mark notification read",
			slog.String("error", redact.Error(err)),
			slog.Int64("notification_id", id))
		return fmt.Errorf("failed to mark notification read: %w", MapError(err))
	}

	return checkRowsAffected(result, store.ErrNotificationNotFound)
}

// MarkAllReadForUser implements store.NotificationStore.MarkAllReadForUser.
func (s *SQLiteNotificationStore) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE user_id = ? AND is_read = 0`, userID)
	if err != nil {
		log.Error("failed to mark all notifications read",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", userID))
		return 0, fmt.Errorf("failed to mark all notifications read: %w", MapError(err))
	}

	updated, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return updated, nil
}

// Delete implements store.NotificationStore.Delete.
func (s *SQLiteNotificationStore) Delete(ctx context.Context, id int64) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = ?`, id)
	if err != nil {
		logger.ForComponent(ctx, s.logger, notificationStoreComponent).Error("failed to delete notification",
			slog.String("error", redact.Error(err)),
			slog.Int64("notification_id", id))
		return fmt.Errorf("failed to delete notification: %w", MapError(err))
	}

	return checkRowsAffected(result, store.ErrNotificationNotFound)
}

// DeleteForTask implements store.NotificationStore.DeleteForTask.
func (s *SQLiteNotificationStore) DeleteForTask(ctx context.Context, taskID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	var deleted int64
	err := runScoped(ctx, s.db, func(ctx context.Context, db sqlx.ExtContext) error {
		result, err := db.ExecContext(ctx, `DELETE FROM notifications WHERE task_id = ?`, taskID)
		if err != nil {
			return MapError(err)
		}
		deleted, err = result.RowsAffected()
		return err
	})
	if err != nil {
		log.Error("failed to delete notifications for task",
			slog.String("error", redact.Error(err)),
			slog.Int64("task_id", taskID))
		return 0, fmt.Errorf("failed to delete notifications for task: %w", MapError(err))
	}

	log.Info("notifications deleted for task",
		slog.Int64("task_id", taskID),
		slog.Int64("count", deleted))
	return deleted, nil
}

// WithTx implements store.NotificationStore.WithTx.
func (s *SQLiteNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &SQLiteNotificationStore{
		db:     wrapTx(tx),
		logger: s.logger,
	}
}

func (s *SQLiteNotificationStore) list(ctx context.Context, op, query string, arg int64) ([]*domain.Notification, error) {
	var rows []notificationRow
	if err := sqlx.SelectContext(ctx, s.db, &rows, query, arg); err != nil {
		logger.ForComponent(ctx, s.logger, notificationStoreComponent).Error("failed to query notifications",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("failed to query notifications: %w", MapError(err))
	}

	notifications := make([]*domain.Notification, 0, len(rows))
	for _, row := range rows {
		notifications = append(notifications, row.toDomain())
	}
	return notifications, nil
}
