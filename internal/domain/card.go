package domain

import (
	"errors"
	"math"
	"time"

	"github.com/google/uuid"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardReviewCountNegative is returned when a card's review count is negative.
	ErrCardReviewCountNegative = errors.New("card review count cannot be negative")

	// ErrCardScheduleRegressed is returned when next_review_at precedes last_reviewed_at.
	ErrCardScheduleRegressed = errors.New("card next review cannot precede last review")
)

// Card is a learned item tracked by the scheduler. Its content lives elsewhere;
// the scheduler only owns the review schedule.
type Card struct {
	ID             uuid.UUID  `json:"id"`
	ReviewCount    int        `json:"review_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCard registers a new card that is due immediately.
func NewCard(now time.Time) *Card {
	return NewCardWithID(uuid.New(), now)
}

// NewCardWithID is NewCard with a caller-supplied ID, used when the card
// pipeline already owns the identifier.
func NewCardWithID(id uuid.UUID, now time.Time) *Card {
	return &Card{
		ID:           id,
		NextReviewAt: now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}
	if c.ReviewCount < 0 {
		return ErrCardReviewCountNegative
	}
	if c.LastReviewedAt != nil && c.NextReviewAt.Before(*c.LastReviewedAt) {
		return ErrCardScheduleRegressed
	}
	return nil
}

// IsDue reports whether the card should be reviewed at now.
func (c *Card) IsDue(now time.Time) bool {
	return !c.NextReviewAt.After(now)
}

// DaysSinceLastReview returns whole days elapsed since the last review,
// or 0 when the card has never been reviewed.
func (c *Card) DaysSinceLastReview(now time.Time) int {
	if c.LastReviewedAt == nil {
		return 0
	}
	elapsed := now.Sub(*c.LastReviewedAt)
	if elapsed <= 0 {
		return 0
	}
	return int(math.Floor(elapsed.Hours() / 24))
}

// ApplyReview records a completed review at now and schedules the next one
// intervalDays later.
func (c *Card) ApplyReview(now time.Time, intervalDays int) {
	reviewedAt := now
	c.ReviewCount++
	c.LastReviewedAt = &reviewedAt
	c.NextReviewAt = now.Add(time.Duration(intervalDays) * 24 * time.Hour)
	c.UpdatedAt = now
}
