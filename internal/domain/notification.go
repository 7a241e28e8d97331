package domain

import (
	"fmt"
	"time"
)

// Validation errors for Notification.
var (
	ErrNotificationUserIDInvalid = fmt.Errorf("%w: notification user ID must be positive", ErrValidation)
	ErrNotificationTaskIDInvalid = fmt.Errorf("%w: notification task ID must be positive", ErrValidation)
	ErrNotificationCreatedAtZero = fmt.Errorf("%w: notification creation time must be set", ErrValidation)
)

// Notification tells a user that something happened to one of their tasks.
// It is created unread and flipped to read once the user acknowledges it.
// Notifications belong to their task and are removed when the task is.
type Notification struct {
	ID        int64     `json:"id" db:"id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	TaskID    int64     `json:"task_id" db:"task_id"`
	IsRead    bool      `json:"is_read" db:"is_read"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewNotification creates an unread Notification for the given user and task,
// stamped with the current UTC time truncated to the microsecond precision
// both storage backends keep. The ID is assigned by the store on insert.
func NewNotification(userID, taskID int64) (*Notification, error) {
	n := &Notification{
		UserID:    userID,
		TaskID:    taskID,
		IsRead:    false,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}

	if err := n.Validate(); err != nil {
		return nil, err
	}

	return n, nil
}

// Validate checks that the notification can be persisted.
// The ID is not checked because it is zero until the store assigns one.
func (n *Notification) Validate() error {
	if n.UserID <= 0 {
		return ErrNotificationUserIDInvalid
	}

	if n.TaskID <= 0 {
		return ErrNotificationTaskIDInvalid
	}

	if n.CreatedAt.IsZero() {
		return ErrNotificationCreatedAtZero
	}

	return nil
}

// MarkRead flags the notification as acknowledged. There is no inverse.
func (n *Notification) MarkRead() {
	n.IsRead = true
}
