package util

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

// an error is returned even if the done channel was closed at the same time
func TestWaitError(t *testing.T) {
	expected := errors.New("fatal")
	for i := 0; i < 100; i++ {
		errChan := make(chan error, 1)
		done := make(chan struct{})
		errChan <- expected
		close(done)

		assert.ErrorIs(t, WaitError(errChan, done), expected)
	}

	done := make(chan struct{})
	close(done)
	assert.NoError(t, WaitError(make(chan error), done))
}
