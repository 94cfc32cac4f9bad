package alerta

import (
	"context"
	"fmt"
	"sync"
)

// MockAdapter implements Adapter for testing. It records sent alerts and can
// simulate delivery failures.
type MockAdapter struct {
	mu     sync.Mutex
	sent   []Alerta
	closed bool
	fail   error
}

// NewMockAdapter creates a MockAdapter.
func NewMockAdapter() *MockAdapter {
	return &MockAdapter{}
}

// Send records the alert, or returns the configured failure.
func (m *MockAdapter) Send(ctx context.Context, a Alerta) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return fmt.Errorf("mock adapter: closed")
	}
	if m.fail != nil {
		return m.fail
	}
	m.sent = append(m.sent, a)
	return nil
}

// Close marks the adapter closed.
func (m *MockAdapter) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Sent returns a copy of the recorded alerts.
func (m *MockAdapter) Sent() []Alerta {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Alerta, len(m.sent))
	copy(out, m.sent)
	return out
}

// FailWith makes subsequent Send calls return err.
func (m *MockAdapter) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fail = err
}
