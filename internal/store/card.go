package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
)

// CardStore defines the interface for card schedule persistence.
type CardStore interface {
	// Create registers a new card.
	// Returns store.ErrCardExists if the ID is taken.
	Create(ctx context.Context, card *domain.Card) error

	// GetByID retrieves a card by its unique ID.
	// Returns store.ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// GetForUpdate is GetByID that also locks the row until the surrounding
	// transaction ends, where the backend supports row locks.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error)

	// UpdateSchedule writes review_count, last_reviewed_at, next_review_at
	// and updated_at. The write only applies if the stored review_count still
	// equals expectedReviewCount; otherwise it returns store.ErrConcurrentUpdate.
	// Returns store.ErrCardNotFound if the card does not exist.
	UpdateSchedule(ctx context.Context, card *domain.Card, expectedReviewCount int) error

	// Delete removes a card. Its review sessions are kept.
	// Returns store.ErrCardNotFound if the card does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListDue returns cards with next_review_at <= now ordered by
	// next_review_at ascending, then id. limit <= 0 means no limit.
	ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error)

	// WithTx returns a new CardStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) CardStore
}
