package searcher

import (
	"snake/experiments/metrics"
	"snake/game"
	"snake/grid"
	"snake/utils"

	"github.com/rs/zerolog/log"
)

// Greedy follows the A* path to the food and falls back, in order, to an
// obstacle-blind BFS path, a move that keeps at least a body length of free
// space, and finally any legal move.
//
// The planned path is kept across ticks until the food moves, so following it
// costs a cache lookup per tick. Paths are always keyed by head and food.
type Greedy struct {
	config
	cache *PathCache
	food  game.Position
	last  metrics.SearchMetric
}

func NewGreedy(options ...Option) *Greedy {
	c := newConfig(options)
	return &Greedy{
		config: c,
		cache:  NewPathCache(false, c.metrics),
		food:   game.NoFood,
	}
}

func (g *Greedy) NextMove(s *game.State) (game.Position, bool) {
	g.metrics.Start("greedy", 0)
	if s.Food != g.food {
		g.cache.Reset()
		g.food = s.Food
	}

	move, stage, ok := g.decide(s)
	g.metrics.SetStage(stage)
	g.last = g.metrics.Complete()
	log.Debug().Msgf("greedy chose %v from %v via %s", move, s.Head(), stage)
	return move, ok
}

func (g *Greedy) decide(s *game.State) (game.Position, string, bool) {
	moves := s.ValidNextPositions()
	switch len(moves) {
	case 0:
		return game.Position{}, metrics.StageNone, false
	case 1:
		return moves[0], metrics.StageSingle, true
	}

	if path := g.cache.Path(s); len(path) > 1 && utils.Contains(moves, path[1]) {
		g.plan(path, s.Food)
		return path[1], metrics.StageAStar, true
	}

	if path := grid.BFS(s.Head(), s.Food, s.Width, s.Height); len(path) > 1 && utils.Contains(moves, path[1]) {
		return path[1], metrics.StageBFS, true
	}

	for _, move := range moves {
		if grid.SafeSpace(s.Next(move)) >= len(s.Snake) {
			return move, metrics.StageSafe, true
		}
	}

	return moves[0], metrics.StageAny, true
}

// plan caches every later suffix of path. The body only trails the head, so the
// cells ahead stay free while the snake follows it.
func (g *Greedy) plan(path []game.Position, food game.Position) {
	for i := 1; i < len(path)-1; i++ {
		key := pathKey{head: path[i], food: food}
		if _, ok := g.cache.byCell[key]; !ok {
			g.cache.byCell[key] = path[i:]
		}
	}
}

func (g *Greedy) Metric() metrics.SearchMetric {
	return g.last
}
