package notify

import (
	"context"
	"sync"
)

// MockNotifier records notifications for test assertions.
type MockNotifier struct {
	mu      sync.Mutex
	updates []OrderUpdate
	fills   []ChildOrderFill
	err     error
}

// NewMockNotifier creates a recording notifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// SetError makes subsequent publishes fail with err.
func (m *MockNotifier) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Name returns the name of the notifier.
func (m *MockNotifier) Name() string {
	return "mock"
}

// OrderUpdated records a parent order update.
func (m *MockNotifier) OrderUpdated(ctx context.Context, update OrderUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.updates = append(m.updates, update)
	return nil
}

// ChildOrderFilled records a child order fill report.
func (m *MockNotifier) ChildOrderFilled(ctx context.Context, fill ChildOrderFill) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.fills = append(m.fills, fill)
	return nil
}

// Updates returns the recorded parent updates.
func (m *MockNotifier) Updates() []OrderUpdate {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]OrderUpdate(nil), m.updates...)
}

// Fills returns the recorded child fill reports.
func (m *MockNotifier) Fills() []ChildOrderFill {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]ChildOrderFill(nil), m.fills...)
}
