package irrecoverable

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// MockSignalerContext is a SignalerContext which will fail the test if an error is thrown.
type MockSignalerContext struct {
	context.Context
	t           *testing.T
	expectError error
}

var _ SignalerContext = &MockSignalerContext{}

func (m MockSignalerContext) sealed() {}

func (m MockSignalerContext) Throw(err error) {
	if m.expectError != nil {
		require.ErrorIs(m.t, err, m.expectError)
		return
	}
	m.t.Fatalf("mock signaler context received error: %v", err)
}

func NewMockSignalerContext(t *testing.T, ctx context.Context) *MockSignalerContext {
	return &MockSignalerContext{
		Context: ctx,
		t:       t,
	}
}

func NewMockSignalerContextWithCancel(t *testing.T, parent context.Context) (*MockSignalerContext, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	return NewMockSignalerContext(t, ctx), cancel
}

// NewMockSignalerContextExpectError returns a SignalerContext which requires that the thrown
// error matches the expected one.
func NewMockSignalerContextExpectError(t *testing.T, ctx context.Context, err error) *MockSignalerContext {
	require.NotNil(t, err)
	return &MockSignalerContext{
		Context:     ctx,
		t:           t,
		expectError: err,
	}
}
