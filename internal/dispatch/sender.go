package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/platform/logger"
)

const logSenderComponent = "log_sender"

// Sender delivers a single reminder. It must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, r *domain.Reminder) error
}

// SenderFunc adapts a function to the Sender interface.
type SenderFunc func(ctx context.Context, r *domain.Reminder) error

// Send calls f(ctx, r).
func (f SenderFunc) Send(ctx context.Context, r *domain.Reminder) error {
	return f(ctx, r)
}

// LogSender "delivers" reminders by writing a structured log line.
type LogSender struct {
	logger *slog.Logger
}

// NewLogSender creates a LogSender. If l is nil, slog.Default is used.
func NewLogSender(l *slog.Logger) *LogSender {
	if l == nil {
		l = slog.Default()
	}
	return &LogSender{logger: l.With(slog.String("component", logSenderComponent))}
}

// Send implements Sender.
func (s *LogSender) Send(ctx context.Context, r *domain.Reminder) error {
	logger.ForComponent(ctx, s.logger, logSenderComponent).Info("reminder due",
		slog.Int64("reminder_id", r.ID),
		slog.Int64("task_id", r.TaskID),
		slog.Time("reminder_time", r.ReminderTime))
	return nil
}

// ErrOwnerUnknown is returned by an OwnerResolver that has no owner for a task.
var ErrOwnerUnknown = errors.New("task owner unknown")

// OwnerResolver maps a task to the user who should be notified about it.
type OwnerResolver interface {
	OwnerOf(ctx context.Context, taskID int64) (int64, error)
}

// OwnerResolverFunc adapts a function to the OwnerResolver interface.
type OwnerResolverFunc func(ctx context.Context, taskID int64) (int64, error)

// OwnerOf calls f(ctx, taskID).
func (f OwnerResolverFunc) OwnerOf(ctx context.Context, taskID int64) (int64, error) {
	return f(ctx, taskID)
}

// Notifier records a notification for a user about a task.
// service.NotificationService satisfies it.
type Notifier interface {
	Notify(ctx context.Context, userID, taskID int64) (*domain.Notification, error)
}

// NotificationSender delivers a reminder as an in-app notification to the
// task's owner.
type NotificationSender struct {
	owners   OwnerResolver
	notifier Notifier
}

// NewNotificationSender creates a NotificationSender.
func NewNotificationSender(owners OwnerResolver, notifier Notifier) *NotificationSender {
	if owners == nil {
		panic("owners cannot be nil")
	}
	if notifier == nil {
		panic("notifier cannot be nil")
	}
	return &NotificationSender{owners: owners, notifier: notifier}
}

// Send implements Sender.
func (s *NotificationSender) Send(ctx context.Context, r *domain.Reminder) error {
	userID, err := s.owners.OwnerOf(ctx, r.TaskID)
	if err != nil {
		return fmt.Errorf("failed to resolve owner of task %d: %w", r.TaskID, err)
	}

	if _, err := s.notifier.Notify(ctx, userID, r.TaskID); err != nil {
		return fmt.Errorf("failed to notify user %d: %w", userID, err)
	}
	return nil
}
