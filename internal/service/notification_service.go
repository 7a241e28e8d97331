package service

import (
	"context"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
	"github.com/phrazzld/todo-api/internal/redact"
	"github.com/phrazzld/todo-api/internal/store"
)

const notificationServiceComponent = "notification_service"

// NotificationService is what the UI layer calls to show and acknowledge
// notifications. Store errors are returned unchanged.
type NotificationService interface {
	// Notify records a new unread notification for the user about the task.
	Notify(ctx context.Context, userID, taskID int64) (*domain.Notification, error)

	// Unread returns the user's unread notifications, newest first.
	Unread(ctx context.Context, userID int64) ([]*domain.Notification, error)

	// All returns every notification of the user, newest first.
	All(ctx context.Context, userID int64) ([]*domain.Notification, error)

	// UnreadCount returns the badge count for the user.
	UnreadCount(ctx context.Context, userID int64) (int64, error)

	// Acknowledge marks one notification read.
	Acknowledge(ctx context.Context, notificationID int64) error

	// AcknowledgeAll marks all of the user's notifications read and returns
	// how many changed.
	AcknowledgeAll(ctx context.Context, userID int64) (int64, error)
}

type notificationServiceImpl struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates a NotificationService over the given store.
func NewNotificationService(notifications store.NotificationStore, logger *slog.Logger) (NotificationService, error) {
	if notifications == nil {
		return nil, missingDependency("notification", "notifications")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &notificationServiceImpl{
		notifications: notifications,
		logger:        logger.With(slog.String("component", notificationServiceComponent)),
	}, nil
}

func (s *notificationServiceImpl) Notify(ctx context.Context, userID, taskID int64) (*domain.Notification, error) {
	log := logger.ForComponent(ctx, s.logger, notificationServiceComponent)

	n, err := domain.NewNotification(userID, taskID)
	if err != nil {
		log.Warn("rejected notification",
			slog.String("error", err.Error()),
			slog.Int64("user_id", userID),
			slog.Int64("task_id", taskID))
		return nil, err
	}

	if err := s.notifications.Create(ctx, n); err != nil {
		log.Error("failed to store notification",
			slog.String("error", redact.Error(err)),
			slog.Int64("user_id", userID),
			slog.Int64("task_id", taskID))
		return nil, err
	}

	log.Info("user notified",
		slog.Int64("notification_id", n.ID),
		slog.Int64("user_id", userID),
		slog.Int64("task_id", taskID))
	return n, nil
}

func (s *notificationServiceImpl) Unread(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	return s.notifications.ListUnreadForUser(ctx, userID)
}

func (s *notificationServiceImpl) All(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	return s.notifications.ListAllForUser(ctx, userID)
}

func (s *notificationServiceImpl) UnreadCount(ctx context.Context, userID int64) (int64, error) {
	return s.notifications.CountUnreadForUser(ctx, userID)
}

func (s *notificationServiceImpl) Acknowledge(ctx context.Context, notificationID int64) error {
	if err := s.notifications.MarkRead(ctx, notificationID); err != nil {
		logger.ForComponent(ctx, s.logger, notificationServiceComponent).Debug("acknowledge failed",
			slog.String("error", redact.Error(err)),
			slog.Int64("notification_id", notificationID))
		return err
	}
	return nil
}

func (s *notificationServiceImpl) AcknowledgeAll(ctx context.Context, userID int64) (int64, error) {
	updated, err := s.notifications.MarkAllReadForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	logger.ForComponent(ctx, s.logger, notificationServiceComponent).Info("notifications acknowledged",
		slog.Int64("user_id", userID),
		slog.Int64("count", updated))
	return updated, nil
}
