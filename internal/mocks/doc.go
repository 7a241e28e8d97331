// Package mocks provides shared mock implementations for tests.
//
// Store mocks are built on testify/mock and are configured with On/Return:
//
//	notifications := &mocks.TestifyMockNotificationStore{}
//	notifications.On("CountUnreadForUser", mock.Anything, int64(1)).Return(int64(2), nil)
//
// MockSender uses function fields and records every call, for tests that
// care about concurrency rather than expectations.
package mocks
