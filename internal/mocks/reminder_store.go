package mocks

import (
	"context"
	"database/sql"
	"time"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockReminderStore is a mock of store.ReminderStore for use with testify/mock.
type TestifyMockReminderStore struct {
	mock.Mock
}

var _ store.ReminderStore = (*TestifyMockReminderStore)(nil)

// Create is a mock implementation of store.ReminderStore.Create.
func (m *TestifyMockReminderStore) Create(ctx context.Context, r *domain.Reminder) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

// GetByID is a mock implementation of store.ReminderStore.GetByID.
func (m *TestifyMockReminderStore) GetByID(ctx context.Context, id int64) (*domain.Reminder, error) {
	args := m.Called(ctx, id)
	if r, ok := args.Get(0).(*domain.Reminder); ok {
		return r, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListForTask is a mock implementation of store.ReminderStore.ListForTask.
func (m *TestifyMockReminderStore) ListForTask(ctx context.Context, taskID int64) ([]*domain.Reminder, error) {
	args := m.Called(ctx, taskID)
	return reminders(args.Get(0)), args.Error(1)
}

// ListDueUnsent is a mock implementation of store.ReminderStore.ListDueUnsent.
func (m *TestifyMockReminderStore) ListDueUnsent(ctx context.Context, now time.Time) ([]*domain.Reminder, error) {
	args := m.Called(ctx, now)
	return reminders(args.Get(0)), args.Error(1)
}

// MarkSent is a mock implementation of store.ReminderStore.MarkSent.
func (m *TestifyMockReminderStore) MarkSent(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Delete is a mock implementation of store.ReminderStore.Delete.
func (m *TestifyMockReminderStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteForTask is a mock implementation of store.ReminderStore.DeleteForTask.
func (m *TestifyMockReminderStore) DeleteForTask(ctx context.Context, taskID int64) (int64, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int64), args.Error(1)
}

// WithTx returns the mock itself so calls made inside a transaction hit
// the same expectations.
func (m *TestifyMockReminderStore) WithTx(_ *sql.Tx) store.ReminderStore {
	return m
}

func reminders(v any) []*domain.Reminder {
	if list, ok := v.([]*domain.Reminder); ok {
		return list
	}
	return nil
}
