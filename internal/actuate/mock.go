package actuate

import (
	"sync"

	"github.com/ayusman/mudra/internal/mapping"
)

// Call records one actuator invocation.
type Call struct {
	Op    string // "move", "down", "up", "click"
	Point mapping.Point
}

// MockActuator records calls for tests.
type MockActuator struct {
	mu    sync.Mutex
	calls []Call
	err   error
}

// NewMockActuator creates a recording actuator.
func NewMockActuator() *MockActuator {
	return &MockActuator{}
}

// SetError makes every subsequent call return err.
func (m *MockActuator) SetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

// Calls returns a copy of the recorded calls.
func (m *MockActuator) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Call, len(m.calls))
	copy(out, m.calls)
	return out
}

func (m *MockActuator) record(op string, p mapping.Point) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, Call{Op: op, Point: p})
	return m.err
}

func (m *MockActuator) MoveTo(p mapping.Point) error { return m.record("move", p) }
func (m *MockActuator) PressDown() error             { return m.record("down", mapping.Point{}) }
func (m *MockActuator) PressUp() error               { return m.record("up", mapping.Point{}) }
func (m *MockActuator) Click() error                 { return m.record("click", mapping.Point{}) }
