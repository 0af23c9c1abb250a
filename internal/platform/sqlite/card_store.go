package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/store"
)

// CardStore implements store.CardStore on SQLite.
type CardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewCardStore creates a CardStore. If logger is nil, a default logger will be used.
func NewCardStore(db store.DBTX, logger *slog.Logger) *CardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &CardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

var _ store.CardStore = (*CardStore)(nil)

const cardColumns = `id, review_count, last_reviewed_at, next_review_at, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (*domain.Card, error) {
	var (
		card                         domain.Card
		lastReviewed                 sql.NullInt64
		nextReview, created, updated int64
	)
	if err := row.Scan(&card.ID, &card.ReviewCount, &lastReviewed, &nextReview, &created, &updated); err != nil {
		return nil, err
	}
	card.LastReviewedAt = timePtr(lastReviewed)
	card.NextReviewAt = fromMillis(nextReview)
	card.CreatedAt = fromMillis(created)
	card.UpdatedAt = fromMillis(updated)
	return &card, nil
}

// Create implements store.CardStore.Create.
func (s *CardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)`,
		card.ID,
		card.ReviewCount,
		nullMillis(card.LastReviewedAt),
		toMillis(card.NextReviewAt),
		toMillis(card.CreatedAt),
		toMillis(card.UpdatedAt),
	)
	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrDuplicate) {
			log.Warn("card already exists", slog.String("card_id", card.ID.String()))
			return fmt.Errorf("%w: %v", store.ErrCardExists, err)
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return mapped
	}

	log.Info("card created successfully", slog.String("card_id", card.ID.String()))
	return nil
}

// GetByID implements store.CardStore.GetByID.
func (s *CardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving card by ID", slog.String("card_id", id.String()))

	card, err := scanCard(s.db.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, MapError(err)
	}
	return card, nil
}

// GetForUpdate implements store.CardStore.GetForUpdate. SQLite has no row
// locks; the immediate transaction already holds the database write lock.
func (s *CardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.GetByID(ctx, id)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule.
func (s *CardStore) UpdateSchedule(ctx context.Context, card *domain.Card, expectedReviewCount int) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during schedule update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET review_count = ?, last_reviewed_at = ?, next_review_at = ?, updated_at = ?
		WHERE id = ? AND review_count = ?`,
		card.ReviewCount,
		nullMillis(card.LastReviewedAt),
		toMillis(card.NextReviewAt),
		toMillis(card.UpdatedAt),
		card.ID,
		expectedReviewCount,
	)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		// Distinguish a vanished card from a lost race.
		if _, getErr := s.GetByID(ctx, card.ID); getErr != nil {
			return getErr
		}
		log.Warn("card changed since it was read",
			slog.String("card_id", card.ID.String()),
			slog.Int("expected_review_count", expectedReviewCount))
		return store.ErrConcurrentUpdate
	}

	log.Info("card schedule updated",
		slog.String("card_id", card.ID.String()),
		slog.Int("review_count", card.ReviewCount),
		slog.Time("next_review_at", card.NextReviewAt))
	return nil
}

// Delete implements store.CardStore.Delete.
func (s *CardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = ?`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return store.ErrCardNotFound
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// ListDue implements store.CardStore.ListDue.
func (s *CardStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards WHERE next_review_at <= ? ORDER BY next_review_at ASC, id ASC`
	args := []any{toMillis(now)}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list due cards", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	cards := make([]*domain.Card, 0)
	for rows.Next() {
		card, err := scanCard(rows)
		if err != nil {
			return nil, store.NewStoreError("card", "list_due", "failed to scan row", err)
		}
		cards = append(cards, card)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	log.Debug("listed due cards", slog.Int("count", len(cards)))
	return cards, nil
}

// WithTx implements store.CardStore.WithTx.
func (s *CardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &CardStore{db: tx, logger: s.logger}
}
