// Package card_review runs review sessions: it opens a session for a card,
// grades it with the SM-2 algorithm and reschedules the card, and lists the
// cards that are due.
package card_review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
)

// DueCard is a card that is due for review together with its urgency bucket.
type DueCard struct {
	Card    *domain.Card `json:"card"`
	Urgency float64      `json:"urgency"`
}

// Service provides the review workflow for cards.
type Service interface {
	// RegisterCard adds a card to the schedule, due immediately. A nil id
	// generates a new one.
	//
	// Returns ErrCardExists if a card with the same id is already scheduled.
	RegisterCard(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetCard returns the schedule state of a card.
	//
	// Returns ErrCardNotFound if the card does not exist.
	GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// DeleteCard removes a card from the schedule. Its review history is kept.
	//
	// Returns ErrCardNotFound if the card does not exist.
	DeleteCard(ctx context.Context, id uuid.UUID) error

	// StartSession opens a review session for a card. The session captures
	// the card's average historical ease factor, or the default for a card
	// with no history.
	//
	// Returns:
	//   - ErrInvalidSessionType for an unknown session type
	//   - ErrCardNotFound if the card does not exist
	StartSession(
		ctx context.Context,
		cardID uuid.UUID,
		sessionType domain.SessionType,
	) (*domain.ReviewSession, error)

	// CompleteSession grades an open session and reschedules its card. The
	// session update and the card update commit together or not at all.
	//
	// Returns:
	//   - ErrInvalidQuality if quality is outside 0-5
	//   - ErrSessionNotFound if the session does not exist
	//   - ErrSessionAlreadyCompleted if the session was already graded
	//   - ErrCardNotFound if the session's card no longer exists
	//   - ErrConcurrentUpdate if the card changed underneath the review
	CompleteSession(
		ctx context.Context,
		sessionID uuid.UUID,
		quality domain.Quality,
		notes *string,
	) (*domain.Card, error)

	// GetSessionHistory returns the sessions of a card, newest first.
	GetSessionHistory(ctx context.Context, cardID uuid.UUID) ([]*domain.ReviewSession, error)

	// GetDueCards returns cards whose next review is at or before now, most
	// overdue first. limit <= 0 returns all of them.
	GetDueCards(ctx context.Context, limit int) ([]DueCard, error)
}

// Common error types for the card review service
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardExists indicates that the card is already scheduled.
	ErrCardExists = errors.New("card already exists")

	// ErrSessionNotFound indicates that the review session does not exist.
	ErrSessionNotFound = errors.New("review session not found")

	// ErrSessionAlreadyCompleted indicates that the review session was already graded.
	ErrSessionAlreadyCompleted = errors.New("review session already completed")

	// ErrInvalidQuality indicates a quality grade outside 0-5.
	ErrInvalidQuality = errors.New("quality must be between 0 and 5")

	// ErrInvalidSessionType indicates an unknown session type.
	ErrInvalidSessionType = errors.New("invalid session type")

	// ErrConcurrentUpdate indicates that another review of the same card
	// committed first.
	ErrConcurrentUpdate = errors.New("card was reviewed concurrently")

	// ErrStoreUnavailable indicates that the backing store failed. The
	// store's error stays in the chain.
	ErrStoreUnavailable = errors.New("review store unavailable")
)

// ServiceError wraps errors from the card review service with additional context.
// This allows consumers to differentiate between different types of service errors
// using errors.As instead of string matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "start_session", "complete_session")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// NewServiceError returns a new ServiceError for operation.
func NewServiceError(operation, message string, err error) *ServiceError {
	return &ServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}
