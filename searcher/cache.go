package searcher

import (
	"snake/experiments/metrics"
	"snake/game"
	"snake/grid"
)

type pathKey struct {
	head game.Position
	food game.Position
}

// PathCache memoises A* paths. Minimax clears it every decision; Greedy keeps it
// while the food stays put.
//
// By default a path is keyed by head and food only, so two states that differ
// in body shape share a path and the cached path may cross the other state's
// body. An exact cache keys by the full board hash instead.
type PathCache struct {
	exact   bool
	byCell  map[pathKey][]game.Position
	byHash  map[game.StateHash][]game.Position
	hits    int
	metrics metrics.Collector
}

func NewPathCache(exact bool, collector metrics.Collector) *PathCache {
	if collector == nil {
		collector = metrics.NewDummyCollector()
	}
	c := &PathCache{exact: exact, metrics: collector}
	c.Reset()
	return c
}

func (c *PathCache) Reset() {
	c.byCell = make(map[pathKey][]game.Position)
	c.byHash = make(map[game.StateHash][]game.Position)
	c.hits = 0
}

// Path returns the A* path from the state's head to its food. The returned
// slice is shared and must not be modified.
func (c *PathCache) Path(s *game.State) []game.Position {
	if c.exact {
		hash := s.Hash()
		if path, ok := c.byHash[hash]; ok {
			c.hit()
			return path
		}
		path := grid.PathToFood(s)
		c.byHash[hash] = path
		return path
	}

	key := pathKey{head: s.Head(), food: s.Food}
	if path, ok := c.byCell[key]; ok {
		c.hit()
		return path
	}
	path := grid.PathToFood(s)
	c.byCell[key] = path
	return path
}

func (c *PathCache) Hits() int {
	return c.hits
}

func (c *PathCache) hit() {
	c.hits++
	c.metrics.AddCacheHit()
}
