package srs

// Default SM-2 parameters.
const (
	DefaultMinEaseFactor    = 1.3
	DefaultEaseFactor       = 2.5
	DefaultInitialInterval  = 1
	DefaultSecondInterval   = 6
	DefaultMaxIntervalDays  = 7300
	DefaultLapseEasePenalty = 0.2
)

// Params defines all configurable parameters for the SRS algorithm
type Params struct {
	// Ease factor floor and the value used for a card with no history
	MinEaseFactor     float64
	DefaultEaseFactor float64

	// Warm-up intervals for the first and second successful reviews
	InitialInterval int
	SecondInterval  int

	// Upper bound on any computed interval, in days
	MaxIntervalDays int

	// Ease factor reduction applied on a lapse (quality < 3)
	LapseEasePenalty float64
}

// ParamsConfig allows overriding the default parameters when creating a new
// Params instance. Zero values keep the defaults.
type ParamsConfig struct {
	MinEaseFactor     float64
	DefaultEaseFactor float64
	InitialInterval   int
	SecondInterval    int
	MaxIntervalDays   int
	LapseEasePenalty  float64
}

// NewDefaultParams creates a new Params instance with default values
func NewDefaultParams() *Params {
	return &Params{
		MinEaseFactor:     DefaultMinEaseFactor,
		DefaultEaseFactor: DefaultEaseFactor,
		InitialInterval:   DefaultInitialInterval,
		SecondInterval:    DefaultSecondInterval,
		MaxIntervalDays:   DefaultMaxIntervalDays,
		LapseEasePenalty:  DefaultLapseEasePenalty,
	}
}

// NewParams creates a new Params instance with custom configuration
func NewParams(config ParamsConfig) *Params {
	params := NewDefaultParams()

	// Overrides below the SM-2 floor are ignored.
	if config.MinEaseFactor > DefaultMinEaseFactor {
		params.MinEaseFactor = config.MinEaseFactor
	}
	if config.DefaultEaseFactor >= DefaultMinEaseFactor {
		params.DefaultEaseFactor = config.DefaultEaseFactor
	}
	if config.InitialInterval > 0 {
		params.InitialInterval = config.InitialInterval
	}
	if config.SecondInterval > 0 {
		params.SecondInterval = config.SecondInterval
	}
	if config.MaxIntervalDays > 0 {
		params.MaxIntervalDays = config.MaxIntervalDays
	}
	if config.LapseEasePenalty > 0 {
		params.LapseEasePenalty = config.LapseEasePenalty
	}

	// The default must never sit below the floor.
	if params.DefaultEaseFactor < params.MinEaseFactor {
		params.DefaultEaseFactor = params.MinEaseFactor
	}

	return params
}
