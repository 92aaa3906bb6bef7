package engine

import (
	"context"
	"time"

	"snake/experiments/metrics"
	"snake/meta"
	"snake/render"
)

// Reasons an episode ends.
const (
	Collision = "collision" // Head hit a wall or the body
	Trapped   = "trapped"   // No legal move left
	Cleared   = "cleared"   // Snake fills the board
	MaxTicks  = "max_ticks"
	Cancelled = "cancelled"
	Illegal   = "illegal" // Agent returned a move the master rejected
)

type Engine interface {
	// Run plays one episode till it ends or ctx is cancelled
	Run(ctx context.Context) (gameMetric metrics.GameMetric, moveMetrics []metrics.MoveMetric, err error)
}

type Option func(e *Local)

// WithRenderer draws every tick. Headless by default.
func WithRenderer(r render.Renderer) Option {
	return func(e *Local) {
		if r != nil {
			e.renderer = r
		}
	}
}

// WithTickRate paces ticks with a ticker instead of running flat out.
func WithTickRate(d time.Duration) Option {
	return func(e *Local) {
		if d > 0 {
			e.tickRate = d
		}
	}
}

func WithMaxTicks(ticks int) Option {
	return func(e *Local) {
		if ticks > 0 {
			e.maxTicks = ticks
		}
	}
}

func defaults(e *Local) {
	e.renderer = render.Headless{}
	e.maxTicks = meta.MAX_TICKS
}
