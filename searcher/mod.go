package searcher

import (
	"snake/experiments/metrics"
	"snake/game"
)

// Agent picks the next cell for the head. ok is false when the head has no
// legal move, which the caller treats as game over.
type Agent interface {
	NextMove(state *game.State) (move game.Position, ok bool)
}

// Reporter is implemented by agents that collect search metrics. Metric
// describes the most recent NextMove call.
type Reporter interface {
	Metric() metrics.SearchMetric
}
