package mocks

import (
	"context"
	"database/sql"

	"github.com/phrazzld/todo-api/internal/domain"
	"github.com/phrazzld/todo-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockNotificationStore is a mock of store.NotificationStore for use with testify/mock.
type TestifyMockNotificationStore struct {
	mock.Mock
}

var _ store.NotificationStore = (*TestifyMockNotificationStore)(nil)

// Create is a mock implementation of store.NotificationStore.Create.
// Use Run on the expectation to assign an ID.
func (m *TestifyMockNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

// GetByID is a mock implementation of store.NotificationStore.GetByID.
func (m *TestifyMockNotificationStore) GetByID(ctx context.Context, id int64) (*domain.Notification, error) {
	args := m.Called(ctx, id)
	if n, ok := args.Get(0).(*domain.Notification); ok {
		return n, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListUnreadForUser is a mock implementation of store.NotificationStore.ListUnreadForUser.
func (m *TestifyMockNotificationStore) ListUnreadForUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID)
	return notifications(args.Get(0)), args.Error(1)
}

// ListAllForUser is a mock implementation of store.NotificationStore.ListAllForUser.
func (m *TestifyMockNotificationStore) ListAllForUser(ctx context.Context, userID int64) ([]*domain.Notification, error) {
	args := m.Called(ctx, userID)
	return notifications(args.Get(0)), args.Error(1)
}

// CountUnreadForUser is a mock implementation of store.NotificationStore.CountUnreadForUser.
func (m *TestifyMockNotificationStore) CountUnreadForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// ListForTask is a mock implementation of store.NotificationStore.ListForTask.
func (m *TestifyMockNotificationStore) ListForTask(ctx context.Context, taskID int64) ([]*domain.Notification, error) {
	args := m.Called(ctx, taskID)
	return notifications(args.Get(0)), args.Error(1)
}

// MarkRead is a mock implementation of store.NotificationStore.MarkRead.
func (m *TestifyMockNotificationStore) MarkRead(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MarkAllReadForUser is a mock implementation of store.NotificationStore.MarkAllReadForUser.
func (m *TestifyMockNotificationStore) MarkAllReadForUser(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// Delete is a mock implementation of store.NotificationStore.Delete.
func (m *TestifyMockNotificationStore) Delete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// DeleteForTask is a mock implementation of store.NotificationStore.DeleteForTask.
func (m *TestifyMockNotificationStore) DeleteForTask(ctx context.Context, taskID int64) (int64, error) {
	args := m.Called(ctx, taskID)
	return args.Get(0).(int64), args.Error(1)
}

// WithTx returns the mock itself so calls made inside a transaction hit
// the same expectations.
func (m *TestifyMockNotificationStore) WithTx(_ *sql.Tx) store.NotificationStore {
	return m
}

func notifications(v any) []*domain.Notification {
	if list, ok := v.([]*domain.Notification); ok {
		return list
	}
	return nil
}
