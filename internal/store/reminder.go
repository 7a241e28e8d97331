package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
)

// ReminderStore defines the interface for reminder persistence.
type ReminderStore interface {
	// Create validates and inserts a reminder, setting its ID. ReminderTime
	// is normalised to UTC and truncated to microseconds, the resolution
	// reminders are stored and compared at.
	// Returns an error wrapping ErrInvalidEntity if validation fails.
	Create(ctx context.Context, r *domain.Reminder) error

	// GetByID retrieves a reminder by its ID.
	// Returns ErrReminderNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Reminder, error)

	// ListForTask returns every reminder that references the task.
	// Callers must not rely on the order.
	ListForTask(ctx context.Context, taskID int64) ([]*domain.Reminder, error)

	// ListDueUnsent returns the reminders whose trigger time is strictly
	// before now and that have not been sent, oldest trigger first.
	// Sent reminders are never returned regardless of their trigger time.
	ListDueUnsent(ctx context.Context, now time.Time) ([]*domain.Reminder, error)

	// MarkSent records delivery of a reminder. Marking an already sent
	// reminder succeeds. Returns ErrReminderNotFound if it does not exist.
	MarkSent(ctx context.Context, id int64) error

	// Delete removes a single reminder.
	// Returns ErrReminderNotFound if it does not exist.
	Delete(ctx context.Context, id int64) error

	// DeleteForTask removes every reminder that references the task and
	// returns how many were removed. Repeated calls succeed and return 0.
	DeleteForTask(ctx context.Context, taskID int64) (int64, error)

	// WithTx returns a ReminderStore bound to the provided transaction.
	// The transaction is owned by the caller.
	WithTx(tx *sql.Tx) ReminderStore
}

// DueCutoff returns now in UTC rounded up to the next whole microsecond.
// Reminder times are stored at microsecond resolution, so a stored time is
// strictly before now exactly when it is strictly before DueCutoff(now).
func DueCutoff(now time.Time) time.Time {
	now = now.UTC()
	cutoff := now.Truncate(time.Microsecond)
	if cutoff.Before(now) {
		cutoff = cutoff.Add(time.Microsecond)
	}
	return cutoff
}
