package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/todo-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
// List and count operations never fail for unknown users or tasks; they
// return empty results.
type NotificationStore interface {
	// Create validates and inserts a notification, setting its ID.
	// CreatedAt is normalised to UTC and truncated to microseconds.
	// Returns an error wrapping ErrInvalidEntity if validation fails.
	Create(ctx context.Context, n *domain.Notification) error

	// GetByID retrieves a notification by its ID.
	// Returns ErrNotificationNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Notification, error)

	// ListUnreadForUser returns the user's unread notifications, most recent first.
	ListUnreadForUser(ctx context.Context, userID int64) ([]*domain.Notification, error)

	// ListAllForUser returns all of the user's notifications, most recent first.
	ListAllForUser(ctx context.Context, userID int64) ([]*domain.Notification, error)

	// CountUnreadForUser returns the number of unread notifications for the user.
	// It always equals len(ListUnreadForUser) observed at the same instant.
	CountUnreadForUser(ctx context.Context, userID int64) (int64, error)

	// ListForTask returns every notification that references the task.
	// Callers must not rely on the order.
	ListForTask(ctx context.Context, taskID int64) ([]*domain.Notification, error)

	// MarkRead flags a notification as read. Marking an already read
	// notification succeeds. Returns ErrNotificationNotFound if it does not exist.
	MarkRead(ctx context.Context, id int64) error

	// MarkAllReadForUser flags every unread notification of the user as read
	// and returns how many changed.
	MarkAllReadForUser(ctx context.Context, userID int64) (int64, error)

	// Delete removes a single notification.
	// Returns ErrNotificationNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteForTask removes every notification that references the task and
	// returns how many were removed. Repeated calls succeed and return 0.
	DeleteForTask(ctx context.Context, taskID int64) (int64, error)

	// WithTx returns a NotificationStore bound to the provided transaction.
	// The transaction is owned by the caller.
	WithTx(tx *sql.Tx) NotificationStore
}
