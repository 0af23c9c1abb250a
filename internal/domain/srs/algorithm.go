package srs

import (
	"math"

	"github.com/phrazzld/scry-review/internal/domain"
)

// Input is everything the algorithm needs to grade one review.
type Input struct {
	// Quality is the learner's recall grade, 0-5.
	Quality domain.Quality
	// ReviewCount is the number of completed reviews before this one.
	ReviewCount int
	// EaseFactor is the ease factor captured when the session started.
	EaseFactor float64
	// DaysSinceLastReview is whole days since the previous review, 0 if none.
	// Only consulted once ReviewCount > 2.
	DaysSinceLastReview int
}

// Result is the schedule produced for one review.
type Result struct {
	IntervalDays int
	EaseFactor   float64
	// Reset is true when the review was a lapse and the schedule restarted.
	Reset bool
}

// calculateNewEaseFactor applies the SM-2 ease update for a passing grade.
//
// The adjustment is 0.1 - (5-q)*(0.08 + (5-q)*0.02): +0.10 for a 5, 0 for a 4,
// -0.14 for a 3. The result never drops below params.MinEaseFactor.
func calculateNewEaseFactor(currentEF float64, quality domain.Quality, params *Params) float64 {
	miss := float64(domain.MaxQuality - quality)
	delta := 0.1 - miss*(0.08+miss*0.02)
	return math.Max(currentEF+delta, params.MinEaseFactor)
}

// clampInterval rounds a raw interval into [1, params.MaxIntervalDays].
// The upper bound is checked on the float so very large exponents cannot
// overflow the integer conversion.
func clampInterval(raw float64, params *Params) int {
	if math.IsNaN(raw) {
		return params.InitialInterval
	}
	if raw >= float64(params.MaxIntervalDays) {
		return params.MaxIntervalDays
	}
	rounded := math.Round(raw)
	if rounded < 1 {
		return 1
	}
	return int(rounded)
}

// calculate grades a single review. It is a pure function of its inputs.
//
// Branches are evaluated in order and the first match wins:
//   - quality < 3: lapse. Interval resets to InitialInterval and the ease
//     factor drops by LapseEasePenalty, floored at MinEaseFactor.
//   - first review: InitialInterval.
//   - second review: SecondInterval.
//   - third review: SecondInterval * newEF.
//   - later reviews: daysSinceLastReview * newEF, or when the elapsed days are
//     unknown, SecondInterval * newEF^(reviewCount-1).
func calculate(in Input, params *Params) Result {
	if !in.Quality.Passed() {
		return Result{
			IntervalDays: clampInterval(float64(params.InitialInterval), params),
			EaseFactor:   math.Max(in.EaseFactor-params.LapseEasePenalty, params.MinEaseFactor),
			Reset:        true,
		}
	}

	newEF := calculateNewEaseFactor(in.EaseFactor, in.Quality, params)

	var raw float64
	switch {
	case in.ReviewCount <= 0:
		raw = float64(params.InitialInterval)
	case in.ReviewCount == 1:
		raw = float64(params.SecondInterval)
	case in.ReviewCount == 2:
		raw = float64(params.SecondInterval) * newEF
	case in.DaysSinceLastReview > 0:
		raw = float64(in.DaysSinceLastReview) * newEF
	default:
		raw = float64(params.SecondInterval) * math.Pow(newEF, float64(in.ReviewCount-1))
	}

	return Result{
		IntervalDays: clampInterval(raw, params),
		EaseFactor:   newEF,
	}
}
