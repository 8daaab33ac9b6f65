package exponent

const (
	// DefaultTolerance is both the series convergence tolerance and the
	// ratio below which one component of a complex result is pruned.
	DefaultTolerance = 1e-10
	// DefaultMaxIterations caps the term index of every series.
	DefaultMaxIterations = 20000
	// DefaultInitialPrevious seeds the "previous term" of a series so that
	// the first comparison never reports convergence.
	DefaultInitialPrevious = 1000
)

// SeriesStats describes a single Taylor series summation.
type SeriesStats struct {
	// Series is one of "ln", "exp" or "cos".
	Series string
	// Terms is the number of terms that were added to the sum.
	Terms int
	// Capped is true if the summation stopped because the term index
	// exceeded the iteration cap rather than because it converged.
	Capped bool
	Value  float64
}

// Observer is called after every series summation.
type Observer func(stats SeriesStats)

type Config struct {
	Tolerance       float64
	MaxIterations   int
	InitialPrevious float64
	// Observer is optional. It must be safe for concurrent use if the
	// config is shared between goroutines.
	Observer Observer
}

func DefaultConfig() Config {
	return Config{
		Tolerance:       DefaultTolerance,
		MaxIterations:   DefaultMaxIterations,
		InitialPrevious: DefaultInitialPrevious,
	}
}

// withDefaults replaces unset (zero or negative) values with their defaults.
func (c Config) withDefaults() Config {
	if c.Tolerance <= 0 {
		c.Tolerance = DefaultTolerance
	}
	if c.MaxIterations <= 0 {
		c.MaxIterations = DefaultMaxIterations
	}
	if c.InitialPrevious == 0 {
		c.InitialPrevious = DefaultInitialPrevious
	}
	return c
}

// Resolved returns the configuration the series actually run with.
func (c Config) Resolved() Config {
	return c.withDefaults()
}

func (c Config) observe(stats SeriesStats) {
	if c.Observer != nil {
		c.Observer(stats)
	}
}
