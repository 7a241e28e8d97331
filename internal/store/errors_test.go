package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{name: "nil error", err: nil, expected: false},
		{name: "generic error", err: errors.New("some error"), expected: false},
		{name: "ErrNotFound", err: ErrNotFound, expected: true},
		{name: "ErrNotificationNotFound", err: ErrNotificationNotFound, expected: true},
		{
			name:     "wrapped ErrReminderNotFound",
			err:      fmt.Errorf("failed to mark reminder sent: %w", ErrReminderNotFound),
			expected: true,
		},
		{name: "ErrStorageUnavailable", err: ErrStorageUnavailable, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsNotFoundError(tt.err))
		})
	}
}

func TestIsStorageUnavailable(t *testing.T) {
	t.Parallel()

	assert.False(t, IsStorageUnavailable(nil))
	assert.False(t, IsStorageUnavailable(ErrNotFound))
	assert.True(t, IsStorageUnavailable(ErrStorageUnavailable))
	assert.True(t, IsStorageUnavailable(
		fmt.Errorf("%w: dial tcp: connection refused", ErrStorageUnavailable)))
}

func TestEntitySpecificErrorsAreDistinct(t *testing.T) {
	t.Parallel()

	assert.ErrorIs(t, ErrNotificationNotFound, ErrNotFound)
	assert.ErrorIs(t, ErrReminderNotFound, ErrNotFound)
	assert.NotErrorIs(t, ErrNotificationNotFound, ErrReminderNotFound)
	assert.Equal(t, "entity not found: notification", ErrNotificationNotFound.Error())
	assert.Equal(t, "entity not found: reminder", ErrReminderNotFound.Error())
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	t.Run("with wrapped error", func(t *testing.T) {
		err := NewStoreError("reminder", "delete_for_task", "query failed", ErrStorageUnavailable)

		assert.Equal(t,
			"delete_for_task operation on reminder failed: query failed: storage unavailable",
			err.Error())
		assert.ErrorIs(t, err, ErrStorageUnavailable)

		var storeErr *StoreError
		assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
		assert.Equal(t, "reminder", storeErr.Entity)
	})

	t.Run("without wrapped error", func(t *testing.T) {
		err := NewStoreError("notification", "create", "validation failed", nil)

		assert.Equal(t, "create operation on notification failed: validation failed", err.Error())
		assert.Nil(t, err.Unwrap())
	})
}
