package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
)

// ReviewSessionStore defines the interface for review session persistence.
// Sessions are append-only history: they are created open and completed once.
type ReviewSessionStore interface {
	// Create inserts a new open session.
	Create(ctx context.Context, session *domain.ReviewSession) error

	// GetByID retrieves a session by ID.
	// Returns store.ErrReviewSessionNotFound if it does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)

	// GetForUpdate is GetByID that also locks the row until the surrounding
	// transaction ends, where the backend supports row locks.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error)

	// MarkCompleted persists a completed session. It only applies to a row
	// whose status is still active and returns store.ErrSessionAlreadyCompleted
	// otherwise, or store.ErrReviewSessionNotFound if the row is gone.
	MarkCompleted(ctx context.Context, session *domain.ReviewSession) error

	// CountCompletedForCard counts completed sessions of cardID, excluding
	// excludeSessionID.
	CountCompletedForCard(ctx context.Context, cardID, excludeSessionID uuid.UUID) (int, error)

	// AverageEaseFactorForCard averages the effective ease factor of every
	// session of cardID: the post-review value for completed sessions and the
	// captured value for open ones. Returns nil when the card has no sessions.
	AverageEaseFactorForCard(ctx context.Context, cardID uuid.UUID) (*float64, error)

	// ListByCard returns sessions of cardID newest reviewed_at first.
	// limit <= 0 means no limit.
	ListByCard(ctx context.Context, cardID uuid.UUID, limit int) ([]*domain.ReviewSession, error)

	// WithTx returns a new ReviewSessionStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) ReviewSessionStore
}
