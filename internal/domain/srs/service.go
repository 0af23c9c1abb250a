package srs

import (
	"errors"
)

// Common errors
var (
	ErrInvalidQuality     = errors.New("quality must be between 0 and 5")
	ErrInvalidReviewCount = errors.New("review count cannot be negative")
)

// Service defines the interface for SRS algorithm operations
type Service interface {
	// Calculate grades one review. It fails only on out-of-range input.
	Calculate(in Input) (Result, error)

	// DefaultEaseFactor is the ease factor for a card with no history.
	DefaultEaseFactor() float64

	// MinEaseFactor is the floor no ease factor may go below.
	MinEaseFactor() float64
}

// defaultService is the standard implementation of the Service interface
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new SRS service with default parameters
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new SRS service with custom parameters
func NewServiceWithParams(params *Params) Service {
	if params == nil {
		params = NewDefaultParams()
	}
	return &defaultService{
		params: params,
	}
}

// Calculate implements Service.
func (s *defaultService) Calculate(in Input) (Result, error) {
	if !in.Quality.Valid() {
		return Result{}, ErrInvalidQuality
	}
	if in.ReviewCount < 0 {
		return Result{}, ErrInvalidReviewCount
	}
	if in.DaysSinceLastReview < 0 {
		in.DaysSinceLastReview = 0
	}
	return calculate(in, s.params), nil
}

// DefaultEaseFactor implements Service.
func (s *defaultService) DefaultEaseFactor() float64 {
	return s.params.DefaultEaseFactor
}

// MinEaseFactor implements Service.
func (s *defaultService) MinEaseFactor() float64 {
	return s.params.MinEaseFactor
}
