package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/service/card_review"
)

// mockReviewService is a function-field implementation of card_review.Service.
type mockReviewService struct {
	registerCardFn      func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	getCardFn           func(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	deleteCardFn        func(ctx context.Context, id uuid.UUID) error
	startSessionFn      func(ctx context.Context, cardID uuid.UUID, t domain.SessionType) (*domain.ReviewSession, error)
	completeSessionFn   func(ctx context.Context, sessionID uuid.UUID, q domain.Quality, notes *string) (*domain.Card, error)
	getSessionHistoryFn func(ctx context.Context, cardID uuid.UUID) ([]*domain.ReviewSession, error)
	getDueCardsFn       func(ctx context.Context, limit int) ([]card_review.DueCard, error)
}

var _ card_review.Service = (*mockReviewService)(nil)

func (m *mockReviewService) RegisterCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.registerCardFn(ctx, id)
}

func (m *mockReviewService) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	return m.getCardFn(ctx, id)
}

func (m *mockReviewService) DeleteCard(ctx context.Context, id uuid.UUID) error {
	return m.deleteCardFn(ctx, id)
}

func (m *mockReviewService) StartSession(
	ctx context.Context,
	cardID uuid.UUID,
	sessionType domain.SessionType,
) (*domain.ReviewSession, error) {
	return m.startSessionFn(ctx, cardID, sessionType)
}

func (m *mockReviewService) CompleteSession(
	ctx context.Context,
	sessionID uuid.UUID,
	quality domain.Quality,
	notes *string,
) (*domain.Card, error) {
	return m.completeSessionFn(ctx, sessionID, quality, notes)
}

func (m *mockReviewService) GetSessionHistory(ctx context.Context, cardID uuid.UUID) ([]*domain.ReviewSession, error) {
	return m.getSessionHistoryFn(ctx, cardID)
}

func (m *mockReviewService) GetDueCards(ctx context.Context, limit int) ([]card_review.DueCard, error) {
	return m.getDueCardsFn(ctx, limit)
}

type mockStatsService struct {
	getStatsFn func(ctx context.Context) (*domain.ReviewStats, error)
}

func (m *mockStatsService) GetStats(ctx context.Context) (*domain.ReviewStats, error) {
	return m.getStatsFn(ctx)
}

type mockPinger struct{ err error }

func (m mockPinger) PingContext(context.Context) error { return m.err }
