package service

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/store"
)

const (
	taskCleanupService          = "task_cleanup"
	taskCleanupServiceComponent = "task_cleanup_service"
)

// CleanupResult reports how many rows each store removed for a task.
type CleanupResult struct {
	NotificationsDeleted int64 `json:"notifications_deleted"`
	RemindersDeleted     int64 `json:"reminders_deleted"`
}

// Total returns the number of rows removed across both stores.
func (r CleanupResult) Total() int64 {
	return r.NotificationsDeleted + r.RemindersDeleted
}

// TaskCleanupService removes everything attached to a task when the task
// itself is deleted.
type TaskCleanupService interface {
	// DeleteTaskArtifacts deletes the task's notifications and reminders in a
	// single transaction: either both deletions commit or neither does.
	// Non-positive task IDs own nothing and yield a zero result.
	DeleteTaskArtifacts(ctx context.Context, taskID int64) (CleanupResult, error)
}

type taskCleanupServiceImpl struct {
	db            store.TxBeginner
	notifications store.NotificationStore
	reminders     store.ReminderStore
	logger        *slog.Logger
}

// NewTaskCleanupService creates a TaskCleanupService. db must be the pool
// both stores were built on.
func NewTaskCleanupService(
	db store.TxBeginner,
	notifications store.NotificationStore,
	reminders store.ReminderStore,
	logger *slog.Logger,
) (TaskCleanupService, error) {
	if db == nil {
		return nil, missingDependency(taskCleanupService, "db")
	}
	if notifications == nil {
		return nil, missingDependency(taskCleanupService, "notifications")
	}
	if reminders == nil {
		return nil, missingDependency(taskCleanupService, "reminders")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskCleanupServiceImpl{
		db:            db,
		notifications: notifications,
		reminders:     reminders,
		logger:        logger.With(slog.String("component", taskCleanupServiceComponent)),
	}, nil
}

func (s *taskCleanupServiceImpl) DeleteTaskArtifacts(ctx context.Context, taskID int64) (CleanupResult, error) {
	log := logger.ForComponent(ctx, s.logger, taskCleanupServiceComponent).With(slog.Int64("task_id", taskID))

	if taskID <= 0 {
		log.Debug("skipping cleanup for non-positive task id")
		return CleanupResult{}, nil
	}

	var result CleanupResult
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		n, err := s.notifications.WithTx(tx).DeleteForTask(ctx, taskID)
		if err != nil {
			return NewServiceError(taskCleanupService, "delete_task_artifacts", "failed to delete notifications", err)
		}

		r, err := s.reminders.WithTx(tx).DeleteForTask(ctx, taskID)
		if err != nil {
			return NewServiceError(taskCleanupService, "delete_task_artifacts", "failed to delete reminders", err)
		}

		result = CleanupResult{NotificationsDeleted: n, RemindersDeleted: r}
		return nil
	})
	if err != nil {
		log.Error("task cleanup rolled back", slog.String("error", redact.Error(err)))
		return CleanupResult{}, err
	}

	log.Info("task artifacts deleted",
		slog.Int64("notifications_deleted", result.NotificationsDeleted),
		slog.Int64("reminders_deleted", result.RemindersDeleted))
	return result, nil
}
