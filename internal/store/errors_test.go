package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFoundError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some error"), false},
		{"ErrNotFound", ErrNotFound, true},
		{"ErrCardNotFound", ErrCardNotFound, true},
		{"wrapped ErrReviewSessionNotFound", fmt.Errorf("lookup: %w", ErrReviewSessionNotFound), true},
		{"already completed is not a miss", ErrSessionAlreadyCompleted, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, IsNotFoundError(tc.err))
		})
	}
}

func TestIsDuplicateError(t *testing.T) {
	assert.True(t, IsDuplicateError(ErrCardExists))
	assert.True(t, IsDuplicateError(fmt.Errorf("insert: %w", ErrDuplicate)))
	assert.False(t, IsDuplicateError(ErrCardNotFound))
}

func TestStoreError(t *testing.T) {
	cause := errors.New("disk full")
	err := NewStoreError("card", "update", "failed to write schedule", cause)

	assert.Equal(t, "update operation on card failed: failed to write schedule: disk full", err.Error())
	assert.ErrorIs(t, err, cause)

	var storeErr *StoreError
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &storeErr))
	assert.Equal(t, "card", storeErr.Entity)

	bare := NewStoreError("review_session", "create", "invalid", nil)
	assert.Equal(t, "create operation on review_session failed: invalid", bare.Error())
}
