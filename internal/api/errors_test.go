package api

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/service/card_review"
	"github.com/phrazzld/scry-review/internal/service/review_stats"
	"github.com/stretchr/testify/assert"
)

func TestMapErrorToStatusCode(t *testing.T) {
	t.Parallel()

	wrapped := func(err error) error {
		return card_review.NewServiceError("complete_session", "failed", err)
	}

	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, http.StatusOK},
		{"invalid quality", wrapped(card_review.ErrInvalidQuality), http.StatusBadRequest},
		{"invalid session type", card_review.ErrInvalidSessionType, http.StatusBadRequest},
		{"validation", domain.NewValidationError("limit", "bad", nil), http.StatusBadRequest},
		{"invalid id", domain.ErrInvalidID, http.StatusBadRequest},
		{"card not found", wrapped(card_review.ErrCardNotFound), http.StatusNotFound},
		{"session not found", card_review.ErrSessionNotFound, http.StatusNotFound},
		{"already completed", wrapped(card_review.ErrSessionAlreadyCompleted), http.StatusConflict},
		{"concurrent update", card_review.ErrConcurrentUpdate, http.StatusConflict},
		{"card exists", card_review.ErrCardExists, http.StatusConflict},
		{"store unavailable", fmt.Errorf("%w: boom", card_review.ErrStoreUnavailable), http.StatusServiceUnavailable},
		{"stats unavailable", fmt.Errorf("%w: boom", review_stats.ErrStatsUnavailable), http.StatusServiceUnavailable},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MapErrorToStatusCode(tc.err))
		})
	}
}

func TestGetSafeErrorMessage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{nil, "An unexpected error occurred"},
		{card_review.ErrInvalidQuality, "Quality must be between 0 and 5"},
		{domain.NewValidationError("id", "has invalid format", domain.ErrInvalidID), "Invalid id: has invalid format"},
		{card_review.ErrCardNotFound, "Card not found"},
		{card_review.ErrSessionNotFound, "Review session not found"},
		{card_review.ErrSessionAlreadyCompleted, "Review session already completed"},
		{fmt.Errorf("%w: password=hunter22", card_review.ErrStoreUnavailable), "Service temporarily unavailable"},
		{fmt.Errorf("postgres://u:p@host/db refused"), "An unexpected error occurred"},
	}

	for _, tc := range tests {
		assert.Equal(t, tc.want, GetSafeErrorMessage(tc.err))
	}
}

func TestSanitizeValidationError(t *testing.T) {
	t.Parallel()

	err := shared.ValidateRequest(StartSessionRequest{SessionType: "cram"})
	assert.Equal(t, "Invalid SessionType: invalid value", SanitizeValidationError(err))

	quality := 9
	err = shared.ValidateRequest(CompleteSessionRequest{Quality: &quality})
	assert.Equal(t, "Invalid Quality: too large", SanitizeValidationError(err))

	assert.Equal(t, "Validation error", SanitizeValidationError(assert.AnError))
}
