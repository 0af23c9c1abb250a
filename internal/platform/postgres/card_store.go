package postgres

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

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the CardStore interface.
// It accepts a database connection or transaction that should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

const cardColumns = `id, review_count, last_reviewed_at, next_review_at, created_at, updated_at`

func scanCard(row interface{ Scan(...any) error }) (*domain.Card, error) {
	var (
		card         domain.Card
		lastReviewed sql.NullTime
	)
	err := row.Scan(
		&card.ID,
		&card.ReviewCount,
		&lastReviewed,
		&card.NextReviewAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastReviewed.Valid {
		t := lastReviewed.Time.UTC()
		card.LastReviewedAt = &t
	}
	card.NextReviewAt = card.NextReviewAt.UTC()
	card.CreatedAt = card.CreatedAt.UTC()
	card.UpdatedAt = card.UpdatedAt.UTC()
	return &card, nil
}

// Create implements store.CardStore.Create
// It registers a new card. Returns store.ErrCardExists if the ID is taken.
func (s *PostgresCardStore) Create(ctx context.Context, card *domain.Card) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during create",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cards (`+cardColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		card.ID,
		card.ReviewCount,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.CreatedAt,
		card.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("card already exists", slog.String("card_id", card.ID.String()))
			return MapUniqueViolation(err, "card", "", store.ErrCardExists)
		}
		log.Error("failed to create card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Info("card created successfully", slog.String("card_id", card.ID.String()))
	return nil
}

func (s *PostgresCardStore) get(ctx context.Context, id uuid.UUID, lock bool) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving card by ID",
		slog.String("card_id", id.String()),
		slog.Bool("for_update", lock))

	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	card, err := scanCard(s.db.QueryRowContext(ctx, query, id))
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

// GetByID implements store.CardStore.GetByID
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, id, false)
}

// GetForUpdate implements store.CardStore.GetForUpdate
// The row stays locked until the enclosing transaction ends.
func (s *PostgresCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return s.get(ctx, id, true)
}

// UpdateSchedule implements store.CardStore.UpdateSchedule
func (s *PostgresCardStore) UpdateSchedule(
	ctx context.Context,
	card *domain.Card,
	expectedReviewCount int,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during schedule update",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE cards
		SET review_count = $1, last_reviewed_at = $2, next_review_at = $3, updated_at = $4
		WHERE id = $5 AND review_count = $6`,
		card.ReviewCount,
		card.LastReviewedAt,
		card.NextReviewAt,
		card.UpdatedAt,
		card.ID,
		expectedReviewCount,
	)
	if err != nil {
		log.Error("failed to update card schedule",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, "card"); err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			return err
		}
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

// Delete implements store.CardStore.Delete
func (s *PostgresCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete card",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return MapError(err)
	}
	if err := CheckRowsAffected(result, "card"); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.ErrCardNotFound
		}
		return err
	}

	log.Info("card deleted", slog.String("card_id", id.String()))
	return nil
}

// ListDue implements store.CardStore.ListDue
func (s *PostgresCardStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE next_review_at <= $1
		ORDER BY next_review_at ASC, id ASC`
	args := []any{now}
	if limit > 0 {
		query += ` LIMIT $2`
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

// WithTx implements store.CardStore.WithTx
func (s *PostgresCardStore) WithTx(tx *sql.Tx) store.CardStore {
	return &PostgresCardStore{db: tx, logger: s.logger}
}
