package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewReviewSession(t *testing.T) {
	t.Parallel()
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	cardID := uuid.New()

	s, err := NewReviewSession(cardID, SessionTypeDeep, 2.5, now)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !s.IsOpen() {
		t.Error("Expected new session to be open")
	}
	if s.Quality != 0 || s.IntervalDays != 0 {
		t.Errorf("Expected zero quality and interval, got %d and %d", s.Quality, s.IntervalDays)
	}
	if !s.ReviewedAt.Equal(now) {
		t.Errorf("Expected ReviewedAt %v, got %v", now, s.ReviewedAt)
	}

	if _, err := NewReviewSession(uuid.Nil, SessionTypeDeep, 2.5, now); !errors.Is(err, ErrSessionCardIDEmpty) {
		t.Errorf("Expected ErrSessionCardIDEmpty, got %v", err)
	}
	if _, err := NewReviewSession(cardID, SessionType("flash"), 2.5, now); !errors.Is(err, ErrInvalidSessionType) {
		t.Errorf("Expected ErrInvalidSessionType, got %v", err)
	}
	if _, err := NewReviewSession(cardID, SessionTypeQuick, 1.2, now); !errors.Is(err, ErrInvalidEaseFactor) {
		t.Errorf("Expected ErrInvalidEaseFactor, got %v", err)
	}
}

func TestReviewSessionComplete(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s, err := NewReviewSession(uuid.New(), SessionTypeQuick, 2.5, start)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := s.Complete(Quality(6), 2.6, 1, nil, start); !errors.Is(err, ErrInvalidQuality) {
		t.Errorf("Expected ErrInvalidQuality, got %v", err)
	}
	if !s.IsOpen() {
		t.Fatal("Expected session to remain open after rejected completion")
	}

	notes := "tricky"
	end := start.Add(90 * time.Second)
	if err := s.Complete(Quality(5), 2.6, 1, &notes, end); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.IsOpen() {
		t.Error("Expected session to be completed")
	}
	if *s.ReviewDuration != 90*time.Second {
		t.Errorf("Expected duration 90s, got %v", *s.ReviewDuration)
	}
	if *s.NewEaseFactor != 2.6 {
		t.Errorf("Expected new ease factor 2.6, got %v", *s.NewEaseFactor)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("Expected completed session to validate, got %v", err)
	}

	if err := s.Complete(Quality(3), 2.4, 6, nil, end); !errors.Is(err, ErrSessionCompleted) {
		t.Errorf("Expected ErrSessionCompleted, got %v", err)
	}
	if s.Quality != 5 {
		t.Errorf("Expected quality to stay 5, got %d", s.Quality)
	}
}

func TestReviewSessionCompleteClampsNegativeDuration(t *testing.T) {
	t.Parallel()
	start := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	s, _ := NewReviewSession(uuid.New(), SessionTypeTest, 2.5, start)

	if err := s.Complete(Quality(4), 2.5, 1, nil, start.Add(-time.Minute)); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if *s.ReviewDuration != 0 {
		t.Errorf("Expected zero duration, got %v", *s.ReviewDuration)
	}
}

func TestQuality(t *testing.T) {
	t.Parallel()
	for q := MinQuality; q <= MaxQuality; q++ {
		if !q.Valid() {
			t.Errorf("Expected quality %d to be valid", q)
		}
		if q.Description() == "unknown" {
			t.Errorf("Expected a description for quality %d", q)
		}
		if q.Passed() != (q >= 3) {
			t.Errorf("Unexpected Passed() for quality %d", q)
		}
	}
	for _, q := range []Quality{-1, 6} {
		if q.Valid() {
			t.Errorf("Expected quality %d to be invalid", q)
		}
		if q.Description() != "unknown" {
			t.Errorf("Expected unknown description for quality %d", q)
		}
	}
}

func TestSessionTypeValid(t *testing.T) {
	t.Parallel()
	for _, st := range SessionTypes {
		if !st.Valid() {
			t.Errorf("Expected %q to be valid", st)
		}
	}
	if SessionType("").Valid() {
		t.Error("Expected empty session type to be invalid")
	}
}
