package testutil

import (
	"github.com/stretchr/testify/mock"
)

// MockInvoker implements the host's native call dispatcher for testing
type MockInvoker struct {
	mock.Mock
}

// Invoke records the call and returns the configured result
func (m *MockInvoker) Invoke(id uint64, args ...any) (any, error) {
	callArgs := m.Called(id, args)
	return callArgs.Get(0), callArgs.Error(1)
}
