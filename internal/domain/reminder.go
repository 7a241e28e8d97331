package domain

import (
	"fmt"
	"time"
)

// Validation errors for Reminder.
var (
	ErrReminderTaskIDInvalid = fmt.Errorf("%w: reminder task ID must be positive", ErrValidation)
	ErrReminderTimeZero      = fmt.Errorf("%w: reminder time must be set", ErrValidation)
)

// Reminder is a point in time at which the owner of a task should be nudged.
// Sent stays false until the dispatcher delivers it; a sent reminder is never
// dispatched again.
type Reminder struct {
	ID           int64     `json:"id" db:"id"`
	TaskID       int64     `json:"task_id" db:"task_id"`
	ReminderTime time.Time `json:"reminder_time" db:"reminder_time"`
	Sent         bool      `json:"sent" db:"sent"`
}

// NewReminder creates an unsent Reminder for the task firing at the given time.
// The time is normalised to UTC and truncated to microseconds.
func NewReminder(taskID int64, at time.Time) (*Reminder, error) {
	r := &Reminder{
		TaskID:       taskID,
		ReminderTime: at.UTC().Truncate(time.Microsecond),
		Sent:         false,
	}

	if err := r.Validate(); err != nil {
		return nil, err
	}

	return r, nil
}

// Validate checks that the reminder can be persisted.
func (r *Reminder) Validate() error {
	if r.TaskID <= 0 {
		return ErrReminderTaskIDInvalid
	}

	if r.ReminderTime.IsZero() {
		return ErrReminderTimeZero
	}

	return nil
}

// IsDue reports whether the reminder should be dispatched at now:
// it must be unsent and its trigger time strictly before now.
func (r *Reminder) IsDue(now time.Time) bool {
	return !r.Sent && r.ReminderTime.Before(now)
}

// MarkSent records delivery. There is no inverse.
func (r *Reminder) MarkSent() {
	r.Sent = true
}
