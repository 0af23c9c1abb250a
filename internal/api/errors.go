package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/scry-review/internal/api/shared"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/service/card_review"
	"github.com/phrazzld/scry-review/internal/service/review_stats"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes without
// exposing internal error types to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, card_review.ErrInvalidQuality),
		errors.Is(err, card_review.ErrInvalidSessionType),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrValidation),
		errors.As(err, &validationErr):
		return http.StatusBadRequest

	case errors.Is(err, card_review.ErrCardNotFound),
		errors.Is(err, card_review.ErrSessionNotFound):
		return http.StatusNotFound

	case errors.Is(err, card_review.ErrSessionAlreadyCompleted),
		errors.Is(err, card_review.ErrConcurrentUpdate),
		errors.Is(err, card_review.ErrCardExists):
		return http.StatusConflict

	case errors.Is(err, card_review.ErrStoreUnavailable),
		errors.Is(err, review_stats.ErrStatsUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a user-facing message for err that carries no
// internal detail.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var validationErr *domain.ValidationError
	switch {
	case errors.Is(err, card_review.ErrInvalidQuality):
		return "Quality must be between 0 and 5"
	case errors.Is(err, card_review.ErrInvalidSessionType):
		return "Invalid session type"
	case errors.As(err, &validationErr):
		return fmt.Sprintf("Invalid %s: %s", validationErr.Field, validationErr.Message)
	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID"
	case errors.Is(err, card_review.ErrCardNotFound):
		return "Card not found"
	case errors.Is(err, card_review.ErrSessionNotFound):
		return "Review session not found"
	case errors.Is(err, card_review.ErrSessionAlreadyCompleted):
		return "Review session already completed"
	case errors.Is(err, card_review.ErrConcurrentUpdate):
		return "Card was reviewed concurrently, retry the review"
	case errors.Is(err, card_review.ErrCardExists):
		return "Card already exists"
	case errors.Is(err, card_review.ErrStoreUnavailable),
		errors.Is(err, review_stats.ErrStatsUnavailable):
		return "Service temporarily unavailable"
	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the status and safe message for err. A non-empty
// fallback replaces the generic 500 message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError turns validator output into a short message naming
// the first failing field.
func SanitizeValidationError(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Sprintf("Invalid %s: %s", fe.Field(), getValidationTagMessage(fe.Tag()))
	}
	return "Validation error"
}

func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "min":
		return "too small"
	case "max":
		return "too large"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid UUID"
	default:
		return "validation failed"
	}
}
