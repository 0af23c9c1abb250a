package api

import (
	"time"

	"github.com/phrazzld/scry-review/internal/domain"
	"github.com/phrazzld/scry-review/internal/service/card_review"
)

// RegisterCardRequest is the payload for POST /api/cards. An empty id lets
// the server assign one.
type RegisterCardRequest struct {
	ID string `json:"id" validate:"omitempty,uuid"`
}

// StartSessionRequest is the payload for POST /api/cards/{id}/sessions.
type StartSessionRequest struct {
	SessionType string `json:"session_type" validate:"required,oneof=quick deep test associative"`
}

// CompleteSessionRequest is the payload for POST /api/sessions/{id}/complete.
// Quality is a pointer so a missing grade is told apart from 0.
type CompleteSessionRequest struct {
	Quality *int    `json:"quality" validate:"required,min=0,max=5"`
	Notes   *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}

// CardResponse is the schedule state of a card.
type CardResponse struct {
	ID             string     `json:"id"`
	ReviewCount    int        `json:"review_count"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	NextReviewAt   time.Time  `json:"next_review_at"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// DueCardResponse is a due card with its urgency bucket.
type DueCardResponse struct {
	Card    CardResponse `json:"card"`
	Urgency float64      `json:"urgency"`
}

// SessionResponse is one review session.
type SessionResponse struct {
	ID                 string     `json:"id"`
	CardID             string     `json:"card_id"`
	SessionType        string     `json:"session_type"`
	Status             string     `json:"status"`
	EaseFactor         float64    `json:"ease_factor"`
	Quality            *int       `json:"quality,omitempty"`
	QualityDescription *string    `json:"quality_description,omitempty"`
	IntervalDays       *int       `json:"interval_days,omitempty"`
	NewEaseFactor      *float64   `json:"new_ease_factor,omitempty"`
	ReviewedAt         time.Time  `json:"reviewed_at"`
	ReviewDurationSec  *float64   `json:"review_duration_seconds,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

// QualityGrade is one step of the 0-5 recall scale.
type QualityGrade struct {
	Quality     int    `json:"quality"`
	Description string `json:"description"`
	Passing     bool   `json:"passing"`
}

// ReviewScaleResponse lists the accepted grades and session types.
type ReviewScaleResponse struct {
	Qualities    []QualityGrade `json:"qualities"`
	SessionTypes []string       `json:"session_types"`
}

func reviewScale() ReviewScaleResponse {
	resp := ReviewScaleResponse{
		Qualities:    make([]QualityGrade, 0, int(domain.MaxQuality-domain.MinQuality)+1),
		SessionTypes: make([]string, 0, len(domain.SessionTypes)),
	}
	for q := domain.MaxQuality; q >= domain.MinQuality; q-- {
		resp.Qualities = append(resp.Qualities, QualityGrade{
			Quality:     int(q),
			Description: q.Description(),
			Passing:     q.Passed(),
		})
	}
	for _, t := range domain.SessionTypes {
		resp.SessionTypes = append(resp.SessionTypes, string(t))
	}
	return resp
}

func cardToResponse(card *domain.Card) CardResponse {
	return CardResponse{
		ID:             card.ID.String(),
		ReviewCount:    card.ReviewCount,
		LastReviewedAt: card.LastReviewedAt,
		NextReviewAt:   card.NextReviewAt,
		CreatedAt:      card.CreatedAt,
		UpdatedAt:      card.UpdatedAt,
	}
}

func dueCardsToResponse(due []card_review.DueCard) []DueCardResponse {
	resp := make([]DueCardResponse, 0, len(due))
	for _, d := range due {
		resp = append(resp, DueCardResponse{Card: cardToResponse(d.Card), Urgency: d.Urgency})
	}
	return resp
}

func sessionToResponse(s *domain.ReviewSession) SessionResponse {
	resp := SessionResponse{
		ID:            s.ID.String(),
		CardID:        s.CardID.String(),
		SessionType:   string(s.SessionType),
		Status:        string(s.Status),
		EaseFactor:    s.EaseFactor,
		NewEaseFactor: s.NewEaseFactor,
		ReviewedAt:    s.ReviewedAt,
		CompletedAt:   s.CompletedAt,
		Notes:         s.Notes,
	}
	if !s.IsOpen() {
		quality := int(s.Quality)
		meaning := s.Quality.Description()
		interval := s.IntervalDays
		resp.Quality = &quality
		resp.QualityDescription = &meaning
		resp.IntervalDays = &interval
	}
	if s.ReviewDuration != nil {
		secs := s.ReviewDuration.Seconds()
		resp.ReviewDurationSec = &secs
	}
	return resp
}

func sessionsToResponse(sessions []*domain.ReviewSession) []SessionResponse {
	resp := make([]SessionResponse, 0, len(sessions))
	for _, s := range sessions {
		resp = append(resp, sessionToResponse(s))
	}
	return resp
}
