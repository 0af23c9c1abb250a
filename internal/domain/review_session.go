package domain

import (
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
)

// SessionType tags the kind of review. The scheduler does not interpret it.
type SessionType string

// Supported session types
const (
	SessionTypeQuick       SessionType = "quick"
	SessionTypeDeep        SessionType = "deep"
	SessionTypeTest        SessionType = "test"
	SessionTypeAssociative SessionType = "associative"
)

// SessionTypes lists every supported session type.
var SessionTypes = []SessionType{
	SessionTypeQuick,
	SessionTypeDeep,
	SessionTypeTest,
	SessionTypeAssociative,
}

// Valid reports whether t is a known session type.
func (t SessionType) Valid() bool {
	return slices.Contains(SessionTypes, t)
}

// SessionStatus is the lifecycle state of a review session.
type SessionStatus string

// Session lifecycle states
const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
)

// Quality is the learner's self-reported recall on the SM-2 0-5 scale.
type Quality int

// Quality bounds and the threshold below which a review counts as a lapse.
const (
	MinQuality     Quality = 0
	MaxQuality     Quality = 5
	PassingQuality Quality = 3
)

var qualityDescriptions = map[Quality]string{
	5: "perfect response, recalled effortlessly",
	4: "correct response after some hesitation",
	3: "correct response recalled with serious difficulty",
	2: "incorrect response, but the correct answer seemed easy to recall",
	1: "incorrect response, the correct answer was remembered on seeing it",
	0: "complete blackout, no recall at all",
}

// Valid reports whether q is on the 0-5 scale.
func (q Quality) Valid() bool {
	return q >= MinQuality && q <= MaxQuality
}

// Passed reports whether q counts as successful recall.
func (q Quality) Passed() bool {
	return q >= PassingQuality
}

// Description returns the meaning of q, or "unknown" when out of range.
func (q Quality) Description() string {
	if d, ok := qualityDescriptions[q]; ok {
		return d
	}
	return "unknown"
}

// Review session validation errors
var (
	ErrSessionIDEmpty     = errors.New("review session ID cannot be empty")
	ErrSessionCardIDEmpty = errors.New("review session card ID cannot be empty")
)

// ReviewSession is one review of one card. It is opened with the ease factor
// in effect at that moment and completed exactly once with a quality grade.
type ReviewSession struct {
	ID             uuid.UUID      `json:"id"`
	CardID         uuid.UUID      `json:"card_id"`
	SessionType    SessionType    `json:"session_type"`
	Status         SessionStatus  `json:"status"`
	EaseFactor     float64        `json:"ease_factor"`
	Quality        Quality        `json:"quality"`
	IntervalDays   int            `json:"interval_days"`
	NewEaseFactor  *float64       `json:"new_ease_factor,omitempty"`
	ReviewedAt     time.Time      `json:"reviewed_at"`
	ReviewDuration *time.Duration `json:"-"`
	CompletedAt    *time.Time     `json:"completed_at,omitempty"`
	Notes          *string        `json:"notes,omitempty"`
}

// NewReviewSession opens a session for cardID at now.
func NewReviewSession(
	cardID uuid.UUID,
	sessionType SessionType,
	easeFactor float64,
	now time.Time,
) (*ReviewSession, error) {
	s := &ReviewSession{
		ID:          uuid.New(),
		CardID:      cardID,
		SessionType: sessionType,
		Status:      SessionStatusActive,
		EaseFactor:  easeFactor,
		ReviewedAt:  now,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// IsOpen reports whether the session still awaits a quality grade.
func (s *ReviewSession) IsOpen() bool {
	return s.Status == SessionStatusActive
}

// Validate checks if the ReviewSession has valid data.
func (s *ReviewSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrSessionIDEmpty
	}
	if s.CardID == uuid.Nil {
		return ErrSessionCardIDEmpty
	}
	if !s.SessionType.Valid() {
		return ErrInvalidSessionType
	}
	if s.EaseFactor < 1.3 {
		return ErrInvalidEaseFactor
	}
	switch s.Status {
	case SessionStatusActive:
	case SessionStatusCompleted:
		if !s.Quality.Valid() {
			return ErrInvalidQuality
		}
		if s.IntervalDays < 1 {
			return ErrInvalidInterval
		}
	default:
		return NewValidationError("status", "is unknown", ErrValidation)
	}
	return nil
}

// Complete closes the session with the algorithm's outcome. The review
// duration is measured from ReviewedAt and never negative.
func (s *ReviewSession) Complete(
	quality Quality,
	newEaseFactor float64,
	intervalDays int,
	notes *string,
	now time.Time,
) error {
	if !s.IsOpen() {
		return ErrSessionCompleted
	}
	if !quality.Valid() {
		return ErrInvalidQuality
	}
	if intervalDays < 1 {
		return ErrInvalidInterval
	}

	duration := now.Sub(s.ReviewedAt)
	if duration < 0 {
		duration = 0
	}
	completedAt := now
	ef := newEaseFactor

	s.Status = SessionStatusCompleted
	s.Quality = quality
	s.IntervalDays = intervalDays
	s.NewEaseFactor = &ef
	s.ReviewDuration = &duration
	s.CompletedAt = &completedAt
	s.Notes = notes
	return nil
}
