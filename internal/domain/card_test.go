package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewCard(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	card := NewCard(now)

	if card.ID == uuid.Nil {
		t.Error("Expected non-nil UUID, got nil UUID")
	}
	if card.ReviewCount != 0 {
		t.Errorf("Expected review count 0, got %d", card.ReviewCount)
	}
	if card.LastReviewedAt != nil {
		t.Errorf("Expected nil LastReviewedAt, got %v", card.LastReviewedAt)
	}
	if !card.NextReviewAt.Equal(now) {
		t.Errorf("Expected NextReviewAt %v, got %v", now, card.NextReviewAt)
	}
	if !card.IsDue(now) {
		t.Error("Expected a new card to be due immediately")
	}
	if err := card.Validate(); err != nil {
		t.Errorf("Expected valid card, got %v", err)
	}
}

func TestCardValidate(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	later := now.Add(time.Hour)

	tests := []struct {
		name    string
		card    Card
		wantErr error
	}{
		{"nil id", Card{NextReviewAt: now}, ErrCardIDEmpty},
		{"negative count", Card{ID: uuid.New(), ReviewCount: -1}, ErrCardReviewCountNegative},
		{"regressed schedule", Card{ID: uuid.New(), LastReviewedAt: &later, NextReviewAt: now}, ErrCardScheduleRegressed},
		{"valid", Card{ID: uuid.New(), LastReviewedAt: &now, NextReviewAt: later}, nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.card.Validate()
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCardApplyReview(t *testing.T) {
	t.Parallel()
	created := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	reviewed := created.Add(2 * time.Hour)
	card := NewCard(created)

	card.ApplyReview(reviewed, 6)

	if card.ReviewCount != 1 {
		t.Errorf("Expected review count 1, got %d", card.ReviewCount)
	}
	if card.LastReviewedAt == nil || !card.LastReviewedAt.Equal(reviewed) {
		t.Errorf("Expected LastReviewedAt %v, got %v", reviewed, card.LastReviewedAt)
	}
	want := reviewed.Add(6 * 24 * time.Hour)
	if !card.NextReviewAt.Equal(want) {
		t.Errorf("Expected NextReviewAt %v, got %v", want, card.NextReviewAt)
	}
	if card.IsDue(reviewed.Add(5 * 24 * time.Hour)) {
		t.Error("Expected card not to be due before its interval elapses")
	}
	if !card.IsDue(want) {
		t.Error("Expected card to be due exactly at NextReviewAt")
	}
}

func TestCardDaysSinceLastReview(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

	card := NewCard(now)
	if got := card.DaysSinceLastReview(now); got != 0 {
		t.Errorf("Expected 0 for never-reviewed card, got %d", got)
	}

	last := now.Add(-(10*24 + 23) * time.Hour)
	card.LastReviewedAt = &last
	if got := card.DaysSinceLastReview(now); got != 10 {
		t.Errorf("Expected 10 whole days, got %d", got)
	}

	future := now.Add(time.Hour)
	card.LastReviewedAt = &future
	if got := card.DaysSinceLastReview(now); got != 0 {
		t.Errorf("Expected 0 when last review is in the future, got %d", got)
	}
}
