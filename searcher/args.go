package searcher

import (
	"time"

	"snake/experiments/metrics"
	"snake/game"
	"snake/meta"
)

type Option func(c *config)

type config struct {
	maxDepth   int
	memory     int
	weights    Weights
	evaluate   game.Evaluate
	exactCache bool
	metrics    metrics.Collector

	// MCTS only
	goroutines int
	episodes   int
	duration   time.Duration
	cutoff     int
	seed       uint64
}

func defaultConfig() config {
	return config{
		maxDepth: meta.MAX_DEPTH,
		memory:   meta.MEMORY,
		weights:  DefaultWeights(),
		metrics:  metrics.NewDummyCollector(),

		goroutines: 1,
		cutoff:     meta.ROLLOUT_CUTOFF,
		seed:       game.SeedValue(meta.SEED),
	}
}

func newConfig(options []Option) config {
	c := defaultConfig()
	for _, option := range options {
		option(&c)
	}
	return c
}

// WithMaxDepth caps the minimax lookahead.
func WithMaxDepth(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.maxDepth = depth
		}
	}
}

// WithMemory sets how many recently chosen moves the minimax agent avoids.
// Zero disables the memory.
func WithMemory(moves int) Option {
	return func(c *config) {
		if moves >= 0 {
			c.memory = moves
		}
	}
}

func WithWeights(weights Weights) Option {
	return func(c *config) {
		c.weights = weights
	}
}

// WithEvaluationFn replaces the heuristic evaluator used at search leaves.
func WithEvaluationFn(evaluate game.Evaluate) Option {
	return func(c *config) {
		if evaluate != nil {
			c.evaluate = evaluate
		}
	}
}

// WithExactPathCache keys cached paths by the full board layout instead of
// head and food only.
func WithExactPathCache() Option {
	return func(c *config) {
		c.exactCache = true
	}
}

func WithMetrics() Option {
	return func(c *config) {
		c.metrics = metrics.NewCollector()
	}
}

func WithGoroutines(goroutines int) Option {
	return func(c *config) {
		if goroutines > 0 {
			c.goroutines = goroutines
		}
	}
}

// WithEpisodes runs a fixed number of rollouts per decision.
func WithEpisodes(episodes int) Option {
	return func(c *config) {
		if episodes > 0 {
			c.episodes = episodes
		}
	}
}

// WithDuration runs rollouts for a fixed time per decision.
func WithDuration(duration time.Duration) Option {
	return func(c *config) {
		if duration > 0 {
			c.duration = duration
		}
	}
}

// WithCutoff caps the length of a rollout in ticks.
func WithCutoff(depth int) Option {
	return func(c *config) {
		if depth > 0 {
			c.cutoff = depth
		}
	}
}

// WithSeed seeds the rollout sources.
func WithSeed(seed string) Option {
	return func(c *config) {
		c.seed = game.SeedValue(seed)
	}
}
