package card_review

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"math"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/clock"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/domain/srs"
	"github.com/phrazzld/scry-review/internal/platform/logger"
	"github.com/phrazzld/scry-review/internal/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "github.com/phrazzld/scry-review/internal/service/card_review"

// Verify interface compliance at compile time
var _ Service = (*serviceImpl)(nil)

type serviceImpl struct {
	db         *sql.DB
	cards      store.CardStore
	sessions   store.ReviewSessionStore
	srsService srs.Service
	clock      clock.Clock
	tracer     trace.Tracer
	logger     *slog.Logger
}

// NewService creates the card review service. Writes run in transactions
// opened on db, with the stores rebound to each transaction.
func NewService(
	db *sql.DB,
	cards store.CardStore,
	sessions store.ReviewSessionStore,
	srsService srs.Service,
	clk clock.Clock,
	logger *slog.Logger,
) Service {
	if db == nil {
		panic("db cannot be nil")
	}
	if cards == nil {
		panic("cards cannot be nil")
	}
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}
	if clk == nil {
		clk = clock.System{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &serviceImpl{
		db:         db,
		cards:      cards,
		sessions:   sessions,
		srsService: srsService,
		clock:      clk,
		tracer:     otel.Tracer(tracerName),
		logger:     logger.With(slog.String("component", "card_review_service")),
	}
}

// mapStoreError translates store errors into service errors. Conditions the
// caller can act on become sentinels; anything else is a store failure.
func mapStoreError(operation string, err error) error {
	var svcErr *ServiceError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &svcErr):
		return err
	case errors.Is(err, store.ErrCardNotFound):
		return ErrCardNotFound
	case errors.Is(err, store.ErrReviewSessionNotFound):
		return ErrSessionNotFound
	case errors.Is(err, store.ErrSessionAlreadyCompleted):
		return ErrSessionAlreadyCompleted
	case errors.Is(err, store.ErrConcurrentUpdate):
		return ErrConcurrentUpdate
	case errors.Is(err, store.ErrCardExists):
		return ErrCardExists
	default:
		return NewServiceError(operation, "store operation failed", fmt.Errorf("%w: %w", ErrStoreUnavailable, err))
	}
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// RegisterCard implements Service.RegisterCard.
func (s *serviceImpl) RegisterCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id == uuid.Nil {
		id = uuid.New()
	}
	card := domain.NewCardWithID(id, s.clock.Now())

	if err := s.cards.Create(ctx, card); err != nil {
		mapped := mapStoreError("register_card", err)
		if !errors.Is(mapped, ErrCardExists) {
			log.Error("failed to register card",
				slog.String("error", err.Error()),
				slog.String("card_id", id.String()))
		}
		return nil, mapped
	}
	return card, nil
}

// GetCard implements Service.GetCard.
func (s *serviceImpl) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card, err := s.cards.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreError("get_card", err)
	}
	return card, nil
}

// DeleteCard implements Service.DeleteCard.
func (s *serviceImpl) DeleteCard(ctx context.Context, id uuid.UUID) error {
	if err := s.cards.Delete(ctx, id); err != nil {
		return mapStoreError("delete_card", err)
	}
	return nil
}

// StartSession implements Service.StartSession.
func (s *serviceImpl) StartSession(
	ctx context.Context,
	cardID uuid.UUID,
	sessionType domain.SessionType,
) (_ *domain.ReviewSession, err error) {
	ctx, span := s.tracer.Start(ctx, "card_review.StartSession", trace.WithAttributes(
		attribute.String("card.id", cardID.String()),
		attribute.String("session.type", string(sessionType)),
	))
	defer func() { endSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)

	if !sessionType.Valid() {
		log.Warn("invalid session type",
			slog.String("card_id", cardID.String()),
			slog.String("session_type", string(sessionType)))
		return nil, ErrInvalidSessionType
	}

	var session *domain.ReviewSession
	txErr := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		sessions := s.sessions.WithTx(tx)

		if _, err := cards.GetForUpdate(ctx, cardID); err != nil {
			return err
		}

		easeFactor := s.srsService.DefaultEaseFactor()
		avg, err := sessions.AverageEaseFactorForCard(ctx, cardID)
		if err != nil {
			return err
		}
		if avg != nil {
			easeFactor = math.Max(*avg, s.srsService.MinEaseFactor())
		}

		session, err = domain.NewReviewSession(cardID, sessionType, easeFactor, s.clock.Now())
		if err != nil {
			return NewServiceError("start_session", "failed to open session", err)
		}
		return sessions.Create(ctx, session)
	})
	if txErr != nil {
		err = mapStoreError("start_session", txErr)
		if !errors.Is(err, ErrCardNotFound) {
			log.Error("failed to start review session",
				slog.String("error", txErr.Error()),
				slog.String("card_id", cardID.String()))
		}
		return nil, err
	}

	span.SetAttributes(
		attribute.String("session.id", session.ID.String()),
		attribute.Float64("session.ease_factor", session.EaseFactor),
	)
	log.Info("review session started",
		slog.String("session_id", session.ID.String()),
		slog.String("card_id", cardID.String()),
		slog.String("session_type", string(sessionType)),
		slog.Float64("ease_factor", session.EaseFactor))
	return session, nil
}

// CompleteSession implements Service.CompleteSession.
func (s *serviceImpl) CompleteSession(
	ctx context.Context,
	sessionID uuid.UUID,
	quality domain.Quality,
	notes *string,
) (_ *domain.Card, err error) {
	ctx, span := s.tracer.Start(ctx, "card_review.CompleteSession", trace.WithAttributes(
		attribute.String("session.id", sessionID.String()),
		attribute.Int("review.quality", int(quality)),
	))
	defer func() { endSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)

	if !quality.Valid() {
		log.Warn("invalid review quality",
			slog.String("session_id", sessionID.String()),
			slog.Int("quality", int(quality)))
		return nil, ErrInvalidQuality
	}

	var (
		card   *domain.Card
		result srs.Result
	)
	txErr := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		cards := s.cards.WithTx(tx)
		sessions := s.sessions.WithTx(tx)

		session, err := sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if !session.IsOpen() {
			return store.ErrSessionAlreadyCompleted
		}

		card, err = cards.GetForUpdate(ctx, session.CardID)
		if err != nil {
			return err
		}

		reviewCount, err := sessions.CountCompletedForCard(ctx, card.ID, session.ID)
		if err != nil {
			return err
		}

		now := s.clock.Now()
		result, err = s.srsService.Calculate(srs.Input{
			Quality:             quality,
			ReviewCount:         reviewCount,
			EaseFactor:          session.EaseFactor,
			DaysSinceLastReview: card.DaysSinceLastReview(now),
		})
		if err != nil {
			return NewServiceError("complete_session", "failed to calculate next review", err)
		}

		if err := session.Complete(quality, result.EaseFactor, result.IntervalDays, notes, now); err != nil {
			if errors.Is(err, domain.ErrSessionCompleted) {
				return store.ErrSessionAlreadyCompleted
			}
			return NewServiceError("complete_session", "failed to complete session", err)
		}
		if err := sessions.MarkCompleted(ctx, session); err != nil {
			return err
		}

		expected := card.ReviewCount
		card.ApplyReview(now, result.IntervalDays)
		return cards.UpdateSchedule(ctx, card, expected)
	})
	if txErr != nil {
		err = mapStoreError("complete_session", txErr)
		level := slog.LevelWarn
		if errors.Is(err, ErrStoreUnavailable) {
			level = slog.LevelError
		}
		log.Log(ctx, level, "failed to complete review session",
			slog.String("error", txErr.Error()),
			slog.String("session_id", sessionID.String()))
		return nil, err
	}

	span.SetAttributes(
		attribute.String("card.id", card.ID.String()),
		attribute.Int("review.interval_days", result.IntervalDays),
		attribute.Float64("review.ease_factor", result.EaseFactor),
		attribute.Bool("review.reset", result.Reset),
	)
	log.Info("review session completed",
		slog.String("session_id", sessionID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Int("quality", int(quality)),
		slog.Int("interval_days", result.IntervalDays),
		slog.Float64("ease_factor", result.EaseFactor),
		slog.Time("next_review_at", card.NextReviewAt))
	return card, nil
}

// GetSessionHistory implements Service.GetSessionHistory.
func (s *serviceImpl) GetSessionHistory(
	ctx context.Context,
	cardID uuid.UUID,
) ([]*domain.ReviewSession, error) {
	sessions, err := s.sessions.ListByCard(ctx, cardID, 0)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list review sessions",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, mapStoreError("get_session_history", err)
	}
	return sessions, nil
}

// GetDueCards implements Service.GetDueCards.
func (s *serviceImpl) GetDueCards(ctx context.Context, limit int) (_ []DueCard, err error) {
	ctx, span := s.tracer.Start(ctx, "card_review.GetDueCards",
		trace.WithAttributes(attribute.Int("due.limit", limit)))
	defer func() { endSpan(span, err) }()

	log := logger.FromContextOrDefault(ctx, s.logger)

	now := s.clock.Now()
	cards, err := s.cards.ListDue(ctx, now, limit)
	if err != nil {
		log.Error("failed to list due cards", slog.String("error", err.Error()))
		return nil, mapStoreError("get_due_cards", err)
	}

	due := make([]DueCard, 0, len(cards))
	for _, card := range cards {
		due = append(due, DueCard{
			Card:    card,
			Urgency: srs.UrgencyAt(card.NextReviewAt, now),
		})
	}

	span.SetAttributes(attribute.Int("due.count", len(due)))
	log.Debug("retrieved due cards", slog.Int("count", len(due)))
	return due, nil
}
