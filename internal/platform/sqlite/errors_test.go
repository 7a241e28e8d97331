package sqlite

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phrazzld/todo-api/internal/store"
)

func TestMapError_Sentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected error
	}{
		{"no_rows", sql.ErrNoRows, store.ErrNotFound},
		{"bad_conn", driver.ErrBadConn, store.ErrStorageUnavailable},
		{"conn_done", sql.ErrConnDone, store.ErrStorageUnavailable},
		{"deadline", fmt.Errorf("exec: %w", context.DeadlineExceeded), store.ErrStorageUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			assert.ErrorIs(t, got, tt.expected)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.NoError(t, MapError(nil))

	plain := errors.New("something else")
	assert.Same(t, plain, MapError(plain))
}

func TestMapError_Idempotent(t *testing.T) {
	once := MapError(sql.ErrConnDone)
	assert.Equal(t, once, MapError(once))
}

func TestMapError_ConstraintViolations(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)

	_, err := db.ExecContext(ctx,
		`INSERT INTO reminders (id, task_id, reminder_time, sent) VALUES (1, 1, 1, 0)`)
	require.NoError(t, err)

	_, err = db.ExecContext(ctx,
		`INSERT INTO reminders (id, task_id, reminder_time, sent) VALUES (1, 2, 2, 0)`)
	require.Error(t, err)
	assert.ErrorIs(t, MapError(err), store.ErrDuplicate)

	_, err = db.ExecContext(ctx,
		`INSERT INTO reminders (task_id, reminder_time, sent) VALUES (NULL, 2, 0)`)
	require.Error(t, err)
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)

	_, err = db.ExecContext(ctx,
		`INSERT INTO notifications (user_id, task_id, is_read, created_at) VALUES (1, 1, 2, 0)`)
	require.Error(t, err)
	assert.ErrorIs(t, MapError(err), store.ErrInvalidEntity)
}

func TestStore_ExpiredContextIsUnavailable(t *testing.T) {
	s := NewSQLiteReminderStore(newTestDB(t), nil)

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := s.ListDueUnsent(ctx, time.Now())
	require.Error(t, err)
	assert.True(t, store.IsStorageUnavailable(err))
}

func TestIsUnavailable(t *testing.T) {
	assert.False(t, IsUnavailable(nil))
	assert.False(t, IsUnavailable(errors.New("boom")))
	assert.False(t, IsUnavailable(context.Canceled))
	assert.True(t, IsUnavailable(driver.ErrBadConn))
}
