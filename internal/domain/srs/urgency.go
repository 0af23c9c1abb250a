package srs

import (
	"math"
	"time"
)

// Urgency buckets
const (
	UrgencyNone     = 0.0
	UrgencyLow      = 0.3
	UrgencyMedium   = 0.6
	UrgencyHigh     = 0.8
	UrgencyCritical = 1.0
)

// Urgency maps how many days a card is overdue to a presentation bucket.
// Bucket upper bounds are inclusive.
func Urgency(daysOverdue float64) float64 {
	switch {
	case daysOverdue <= 0:
		return UrgencyNone
	case daysOverdue <= 1:
		return UrgencyLow
	case daysOverdue <= 3:
		return UrgencyMedium
	case daysOverdue <= 7:
		return UrgencyHigh
	default:
		return UrgencyCritical
	}
}

// DaysOverdue returns the whole days elapsed since nextReviewAt, rounded
// down. It is negative when the card is not yet due, and 0 for a card less
// than a day late.
func DaysOverdue(nextReviewAt, now time.Time) float64 {
	return math.Floor(now.Sub(nextReviewAt).Hours() / 24)
}

// UrgencyAt classifies a card scheduled for nextReviewAt as of now.
func UrgencyAt(nextReviewAt, now time.Time) float64 {
	return Urgency(DaysOverdue(nextReviewAt, now))
}
