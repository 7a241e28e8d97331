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
	notificationStoreComponent = "notification_store"
	notificationColumns        = `id, user_id, task_id, is_read, created_at`
)

// PostgresNotificationStore implements the store.NotificationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of the NotificationStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", notificationStoreComponent)),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create.
// It validates the notification, inserts it and sets n.ID from the generated key.
func (s *PostgresNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	if err := n.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.Int64("user_id", n.UserID),
			slog.Int64("task_id", n.TaskID))
		return fmt.Errorf("%w: %w", store.ErrInvalidEntity, err)
	}

	n.CreatedAt = n.CreatedAt.UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO notifications (user_id, task_id, is_read, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		n.UserID,
		n.TaskID,
		n.IsRead,
		n.CreatedAt.UTC(),
	).Scan(&n.ID)
	if err != nil {
		log.Error("failed to create notification",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", n.UserID),
			slog.Int64("task_id", n.TaskID))
		return fmt.Errorf("failed to create notification: %w", MapError(err))
	}

	log.Debug("notification created",
		slog.Int64("notification_id", n.ID),
		slog.Int64("user_id", n.UserID),
		slog.Int64("task_id", n.TaskID))
	return nil
}

// GetByID implements store.NotificationStore.GetByID.
func (s *PostgresNotificationStore) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	var n domain.Notification
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&n.ID,
		&n.UserID,
		&n.TaskID,
		&n.IsRead,
		&n.CreatedAt,
	)
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

	n.CreatedAt = n.CreatedAt.UTC()
	return &n, nil
}

// ListUnreadForUser implements store.NotificationStore.ListUnreadForUser.
func (s *PostgresNotificationStore) ListUnreadForUser(
	ctx context.Context,
	userID int64,
) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC, id DESC
	`
	return s.list(ctx, "list_unread_for_user", query, userID)
}

// ListAllForUser implements store.NotificationStore.ListAllForUser.
func (s *PostgresNotificationStore) ListAllForUser(
	ctx context.Context,
	userID int64,
) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`
	return s.list(ctx, "list_all_for_user", query, userID)
}

// CountUnreadForUser implements store.NotificationStore.CountUnreadForUser.
// The predicate is the same as ListUnreadForUser.
func (s *PostgresNotificationStore) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND is_read = FALSE`

	var count int64
	if err := s.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		log.Error("failed to count unread notifications",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", userID))
		return 0, fmt.Errorf("failed to count unread notifications: %w", MapError(err))
	}

	return count, nil
}

// ListForTask implements store.NotificationStore.ListForTask.
func (s *PostgresNotificationStore) ListForTask(
	ctx context.Context,
	taskID int64,
) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE task_id = $1
		ORDER BY id
	`
	return s.list(ctx, "list_for_task", query, taskID)
}

// MarkRead implements store.NotificationStore.MarkRead.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	result, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = TRUE WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to mark notification read",
			slog.String("error", redact.Error(err)),
			slog.Int64("notification_id", id))
		return fmt.Errorf("failed to mark notification read: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrNotificationNotFound); err != nil {
		log.Debug("notification not found for mark read", slog.Int64("notification_id", id))
		return err
	}

	log.Debug("notification marked read", slog.Int64("notification_id", id))
	return nil
}

// MarkAllReadForUser implements store.NotificationStore.MarkAllReadForUser.
func (s *PostgresNotificationStore) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	result, err := s.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE WHERE user_id = $1 AND is_read = FALSE`,
		userID,
	)
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

	log.Debug("notifications marked read",
		slog.Int64("user_id", userID),
		slog.Int64("count", updated))
	return updated, nil
}

// Delete implements store.NotificationStore.Delete.
func (s *PostgresNotificationStore) Delete(ctx context.Context, id int64) error {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	result, err := s.db.ExecContext(ctx, `DELETE FROM notifications WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete notification",
			slog.String("error", redact.Error(err)),
			slog.Int64("notification_id", id))
		return fmt.Errorf("failed to delete notification: %w", MapError(err))
	}

	if err := CheckRowsAffected(result, store.ErrNotificationNotFound); err != nil {
		log.Debug("notification not found for delete", slog.Int64("notification_id", id))
		return err
	}

	log.Debug("notification deleted", slog.Int64("notification_id", id))
	return nil
}

// DeleteForTask implements store.NotificationStore.DeleteForTask.
// On a store bound to a *sql.DB the DELETE runs in its own transaction; on a
// store bound to a transaction it joins the caller's.
func (s *PostgresNotificationStore) DeleteForTask(ctx context.Context, taskID int64) (int64, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	var deleted int64
	err := runScoped(ctx, s.db, func(ctx context.Context, db store.DBTX) error {
		result, err := db.ExecContext(ctx, `DELETE FROM notifications WHERE task_id = $1`, taskID)
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
func (s *PostgresNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &PostgresNotificationStore{
		db:     tx,
		logger: s.logger,
	}
}

func (s *PostgresNotificationStore) list(
	ctx context.Context,
	op string,
	query string,
	arg int64,
) ([]*domain.Notification, error) {
	log := logger.ForComponent(ctx, s.logger, notificationStoreComponent)

	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		log.Error("failed to query notifications",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)),
			slog.Int64("arg", arg))
		return nil, fmt.Errorf("failed to query notifications: %w", MapError(err))
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", redact.Error(err)))
		}
	}()

	notifications := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.TaskID, &n.IsRead, &n.CreatedAt); err != nil {
			log.Error("failed to scan notification row",
				slog.String("operation", op),
				slog.String("error", redact.Error(err)))
			return nil, fmt.Errorf("failed to scan notification row: %w", err)
		}
		n.CreatedAt = n.CreatedAt.UTC()
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating notification rows",
			slog.String("operation", op),
			slog.String("error", redact.Error(err)))
		return nil, fmt.Errorf("error iterating notification rows: %w", MapError(err))
	}

	log.Debug("notifications listed",
		slog.String("operation", op),
		slog.Int64("arg", arg),
		slog.Int("count", len(notifications)))
	return notifications, nil
}
