package card_review_test

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockCardStore is a mock implementation of store.CardStore. WithTx returns
// the mock itself so expectations apply inside transactions too.
type MockCardStore struct {
	mock.Mock
}

func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	return m.Called(ctx, card).Error(0)
}

func (m *MockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Card), args.Error(1)
}

func (m *MockCardStore) UpdateSchedule(ctx context.Context, card *domain.Card, expectedReviewCount int) error {
	return m.Called(ctx, card, expectedReviewCount).Error(0)
}

func (m *MockCardStore) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCardStore) ListDue(ctx context.Context, now time.Time, limit int) ([]*domain.Card, error) {
	args := m.Called(ctx, now, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Card), args.Error(1)
}

func (m *MockCardStore) WithTx(*sql.Tx) store.CardStore {
	return m
}

// MockReviewSessionStore is a mock implementation of store.ReviewSessionStore.
type MockReviewSessionStore struct {
	mock.Mock
}

func (m *MockReviewSessionStore) Create(ctx context.Context, session *domain.ReviewSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockReviewSessionStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSession), args.Error(1)
}

func (m *MockReviewSessionStore) GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.ReviewSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewSession), args.Error(1)
}

func (m *MockReviewSessionStore) MarkCompleted(ctx context.Context, session *domain.ReviewSession) error {
	return m.Called(ctx, session).Error(0)
}

func (m *MockReviewSessionStore) CountCompletedForCard(
	ctx context.Context,
	cardID, excludeSessionID uuid.UUID,
) (int, error) {
	args := m.Called(ctx, cardID, excludeSessionID)
	return args.Int(0), args.Error(1)
}

func (m *MockReviewSessionStore) AverageEaseFactorForCard(ctx context.Context, cardID uuid.UUID) (*float64, error) {
	args := m.Called(ctx, cardID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *MockReviewSessionStore) ListByCard(
	ctx context.Context,
	cardID uuid.UUID,
	limit int,
) ([]*domain.ReviewSession, error) {
	args := m.Called(ctx, cardID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewSession), args.Error(1)
}

func (m *MockReviewSessionStore) WithTx(*sql.Tx) store.ReviewSessionStore {
	return m
}
