package learner

import (
	"snake/experiments/metrics"
	"snake/game"
	"snake/meta"
)

type Option func(c *config)

type config struct {
	alpha      float64
	gamma      float64
	epsilon    float64
	decay      float64
	minEpsilon float64
	seed       uint64
	metrics    metrics.Collector
}

func newConfig(options []Option) config {
	c := config{
		alpha:      0.1,
		gamma:      0.9,
		epsilon:    1.0,
		decay:      0.995,
		minEpsilon: 0.01,
		seed:       game.SeedValue(meta.SEED),
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithLearningRate sets alpha, ignored outside (0, 1].
func WithLearningRate(alpha float64) Option {
	return func(c *config) {
		if alpha > 0 && alpha <= 1 {
			c.alpha = alpha
		}
	}
}

func WithDiscount(gamma float64) Option {
	return func(c *config) {
		if gamma >= 0 && gamma <= 1 {
			c.gamma = gamma
		}
	}
}

// WithExploration sets the starting epsilon, its per-update decay and floor.
func WithExploration(epsilon, decay, floor float64) Option {
	return func(c *config) {
		if epsilon < 0 || epsilon > 1 || decay <= 0 || decay > 1 || floor < 0 || floor > epsilon {
			return
		}
		c.epsilon = epsilon
		c.decay = decay
		c.minEpsilon = floor
	}
}

func WithSeed(seed string) Option {
	return func(c *config) {
		c.seed = game.SeedValue(seed)
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = metrics.NewCollector()
	}
}
