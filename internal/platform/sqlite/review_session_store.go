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

// ReviewSessionStore implements store.ReviewSessionStore on SQLite.
type ReviewSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewReviewSessionStore creates a ReviewSessionStore. If logger is nil, a default logger will be used.
func NewReviewSessionStore(db store.DBTX, logger *slog.Logger) *ReviewSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReviewSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "review_session_store")),
	}
}

var _ store.ReviewSessionStore = (*ReviewSessionStore)(nil)

const sessionColumns = `id, card_id, session_type, status, ease_factor, quality, interval_days,
	new_ease_factor, reviewed_at, review_duration, completed_at, notes`

func scanSession(row interface{ Scan(...any) error }) (*domain.ReviewSession, error) {
	var (
		s                            domain.ReviewSession
		sessionType, status          string
		quality, duration, completed sql.NullInt64
		newEF                        sql.NullFloat64
		reviewedAt                   int64
		notes                        sql.NullString
	)
	err := row.Scan(
		&s.ID, &s.CardID, &sessionType, &status, &s.EaseFactor, &quality, &s.IntervalDays,
		&newEF, &reviewedAt, &duration, &completed, &notes,
	)
	if err != nil {
		return nil, err
	}

	s.SessionType = domain.SessionType(sessionType)
	s.Status = domain.SessionStatus(status)
	s.ReviewedAt = fromMillis(reviewedAt)
	if quality.Valid {
		s.Quality = domain.Quality(quality.Int64)
	}
	if newEF.Valid {
		ef := newEF.Float64
		s.NewEaseFactor = &ef
	}
	if duration.Valid {
		d := time.Duration(duration.Int64) * time.Millisecond
		s.ReviewDuration = &d
	}
	s.CompletedAt = timePtr(completed)
	if notes.Valid {
		n := notes.String
		s.Notes = &n
	}
	return &s, nil
}

// Create implements store.ReviewSessionStore.Create.
func (s *ReviewSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("review session validation failed during create",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}
	if !session.IsOpen() {
		return fmt.Errorf("%w: new review session must be active", store.ErrInvalidEntity)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO review_sessions (id, card_id, session_type, status, ease_factor, interval_days, reviewed_at, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		session.ID,
		session.CardID,
		string(session.SessionType),
		string(session.Status),
		session.EaseFactor,
		session.IntervalDays,
		toMillis(session.ReviewedAt),
		session.Notes,
	)
	if err != nil {
		log.Error("failed to create review session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("card_id", session.CardID.String()))
		return MapError(err)
	}

	log.Info("review session created",
		slog.String("session_id", session.ID.String()),
		slog.String("card_id", session.CardID.String()),
		slog.String("session_type", string(session.SessionType)),
		slog.Float64("ease_factor", session.EaseFactor))
	return nil
}

// GetByID implements store.ReviewSessionStore.GetByID.
func (s *ReviewSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)
	log.Debug("retrieving review session by ID", slog.String("session_id", id.String()))

	session, err := scanSession(s.db.QueryRowContext(ctx,
		`SELECT `+sessionColumns+` FROM review_sessions WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("review session not found", slog.String("session_id", id.String()))
			return nil, store.ErrReviewSessionNotFound
		}
		log.Error("failed to get review session by ID",
			slog.String("error", err.Error()),
			slog.String("session_id", id.String()))
		return nil, MapError(err)
	}
	return session, nil
}

// GetForUpdate implements store.ReviewSessionStore.GetForUpdate.
func (s *ReviewSessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	return s.GetByID(ctx, id)
}

// MarkCompleted implements store.ReviewSessionStore.MarkCompleted.
func (s *ReviewSessionStore) MarkCompleted(ctx context.Context, session *domain.ReviewSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if session.IsOpen() {
		return fmt.Errorf("%w: review session is not completed", store.ErrInvalidEntity)
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	var durationMs sql.NullInt64
	if session.ReviewDuration != nil {
		durationMs = sql.NullInt64{Int64: session.ReviewDuration.Milliseconds(), Valid: true}
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE review_sessions
		SET status = ?, quality = ?, interval_days = ?, new_ease_factor = ?,
			review_duration = ?, completed_at = ?, notes = ?
		WHERE id = ? AND status = ?`,
		string(domain.SessionStatusCompleted),
		int(session.Quality),
		session.IntervalDays,
		session.NewEaseFactor,
		durationMs,
		nullMillis(session.CompletedAt),
		session.Notes,
		session.ID,
		string(domain.SessionStatusActive),
	)
	if err != nil {
		log.Error("failed to complete review session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return MapError(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		if _, getErr := s.GetByID(ctx, session.ID); getErr != nil {
			return getErr
		}
		log.Warn("review session already completed", slog.String("session_id", session.ID.String()))
		return store.ErrSessionAlreadyCompleted
	}

	log.Info("review session completed",
		slog.String("session_id", session.ID.String()),
		slog.Int("quality", int(session.Quality)),
		slog.Int("interval_days", session.IntervalDays))
	return nil
}

// CountCompletedForCard implements store.ReviewSessionStore.CountCompletedForCard.
func (s *ReviewSessionStore) CountCompletedForCard(
	ctx context.Context,
	cardID, excludeSessionID uuid.UUID,
) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM review_sessions
		WHERE card_id = ? AND status = ? AND id <> ?`,
		cardID, string(domain.SessionStatusCompleted), excludeSessionID,
	).Scan(&count)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to count completed sessions",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return 0, MapError(err)
	}
	return count, nil
}

// AverageEaseFactorForCard implements store.ReviewSessionStore.AverageEaseFactorForCard.
func (s *ReviewSessionStore) AverageEaseFactorForCard(ctx context.Context, cardID uuid.UUID) (*float64, error) {
	var avg sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT AVG(new_ease_factor) FROM review_sessions
		WHERE card_id = ? AND status = 'completed'`,
		cardID,
	).Scan(&avg)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to average ease factor",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	if !avg.Valid {
		return nil, nil
	}
	v := avg.Float64
	return &v, nil
}

// ListByCard implements store.ReviewSessionStore.ListByCard.
func (s *ReviewSessionStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.ReviewSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + sessionColumns + ` FROM review_sessions
		WHERE card_id = ? ORDER BY reviewed_at DESC, id ASC`
	args := []any{cardID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list review sessions",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, MapError(err)
	}
	defer func() { _ = rows.Close() }()

	sessions := make([]*domain.ReviewSession, 0)
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, store.NewStoreError("review_session", "list_by_card", "failed to scan row", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return sessions, nil
}

// WithTx implements store.ReviewSessionStore.WithTx.
func (s *ReviewSessionStore) WithTx(tx *sql.Tx) store.ReviewSessionStore {
	return &ReviewSessionStore{db: tx, logger: s.logger}
}
