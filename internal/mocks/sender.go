package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/todo-api/internal/domain"
)

// MockSender implements dispatch.Sender for testing.
type MockSender struct {
	// SendFn overrides the default behaviour when set.
	SendFn func(ctx context.Context, r *domain.Reminder) error

	// Err is returned when SendFn is nil.
	Err error

	mu    sync.Mutex
	calls []int64
}

// Send records the reminder ID and delegates to SendFn or returns Err.
func (m *MockSender) Send(ctx context.Context, r *domain.Reminder) error {
	m.mu.Lock()
	m.calls = append(m.calls, r.ID)
	m.mu.Unlock()

	if m.SendFn != nil {
		return m.SendFn(ctx, r)
	}
	return m.Err
}

// Calls returns the reminder IDs passed to Send, in call order.
func (m *MockSender) Calls() []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]int64, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns how many times Send was called.
func (m *MockSender) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
