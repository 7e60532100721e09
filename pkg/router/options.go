package router

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultFiller is placed at locations left over once the item
	// pool is exhausted.
	DefaultFiller Label = "nothing"

	DefaultLinearity       = 0.5
	DefaultIterationFactor = 5

	minRestarts = 10
)

type config struct {
	seed            int64
	linearity       float64
	maxRestarts     int
	maxPasses       int
	maxRepeats      int
	iterationFactor int
	filler          Label
	log             logrus.FieldLogger
	tracer          Tracer
}

type Option func(*config) error

func WithSeed(seed int64) Option {
	return func(c *config) error {
		c.seed = seed
		return nil
	}
}

// WithLinearity sets the randomness personality of placements: 0 always
// picks the earliest reachable candidate, 1 picks uniformly.
func WithLinearity(linearity float64) Option {
	return func(c *config) error {
		if linearity < 0 || linearity > 1 {
			return fmt.Errorf("linearity %v is outside [0, 1]", linearity)
		}
		c.linearity = linearity
		return nil
	}
}

// WithMaxRestarts bounds the number of full restarts. A value <= 0
// selects a budget proportional to the number of locations.
func WithMaxRestarts(n int) Option {
	return func(c *config) error {
		c.maxRestarts = n
		return nil
	}
}

// WithMaxPasses bounds the fixed-point passes of requirement
// simplification.
func WithMaxPasses(n int) Option {
	return func(c *config) error {
		c.maxPasses = n
		return nil
	}
}

func WithMaxRepeats(n int) Option {
	return func(c *config) error {
		if n < 0 {
			return fmt.Errorf("max repeats must not be negative, got %d", n)
		}
		c.maxRepeats = n
		return nil
	}
}

// WithIterationFactor sets the per-attempt iteration budget as a
// multiple of the number of locations.
func WithIterationFactor(n int) Option {
	return func(c *config) error {
		if n <= 0 {
			return fmt.Errorf("iteration factor must be positive, got %d", n)
		}
		c.iterationFactor = n
		return nil
	}
}

func WithFiller(filler Label) Option {
	return func(c *config) error {
		if filler == "" {
			return fmt.Errorf("filler label must not be empty")
		}
		c.filler = filler
		return nil
	}
}

func WithLogger(log logrus.FieldLogger) Option {
	return func(c *config) error {
		c.log = log
		return nil
	}
}

func WithTracer(t Tracer) Option {
	return func(c *config) error {
		c.tracer = t
		return nil
	}
}

var defaults = []Option{
	func(c *config) error {
		if c.log == nil {
			c.log = logrus.StandardLogger()
		}
		return nil
	},
	func(c *config) error {
		if c.tracer == nil {
			c.tracer = DefaultTracer{}
		}
		return nil
	},
	func(c *config) error {
		if c.filler == "" {
			c.filler = DefaultFiller
		}
		return nil
	},
	func(c *config) error {
		if c.iterationFactor == 0 {
			c.iterationFactor = DefaultIterationFactor
		}
		return nil
	},
}

func newConfig(options ...Option) (*config, error) {
	c := config{
		linearity:  DefaultLinearity,
		maxRepeats: 1,
	}
	for _, option := range append(options, defaults...) {
		if err := option(&c); err != nil {
			return nil, err
		}
	}
	return &c, nil
}

// DefaultMaxRestarts is the restart budget used for n locations.
func DefaultMaxRestarts(n int) int {
	if n > minRestarts {
		return n
	}
	return minRestarts
}
