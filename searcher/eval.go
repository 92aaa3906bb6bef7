package searcher

import (
	"math"

	"snake/game"
	"snake/grid"
)

// Weights tune the heuristic. Only their signs and relative sizes matter.
type Weights struct {
	Score      float64 // Per food eaten
	Distance   float64 // Per step to the food
	Path       float64 // Extra per step to the food
	Collision  float64
	CollisionK float64 // Risk of a body segment one step from the head
	UShape     float64
	LongSide   float64
	Split      float64 // Per board cell when the head's space splits
}

func DefaultWeights() Weights {
	return Weights{
		Score:      100,
		Distance:   100,
		Path:       10,
		Collision:  50,
		CollisionK: 5,
		UShape:     100,
		LongSide:   100,
		Split:      20,
	}
}

// Evaluator scores states for the search agents. Higher is better.
type Evaluator struct {
	weights Weights
	cache   *PathCache
}

// NewEvaluator returns an evaluator that looks paths up in cache. A nil cache
// runs A* for every evaluation.
func NewEvaluator(weights Weights, cache *PathCache) *Evaluator {
	return &Evaluator{weights: weights, cache: cache}
}

func (e *Evaluator) path(s *game.State) []game.Position {
	if e.cache == nil {
		return grid.PathToFood(s)
	}
	return e.cache.Path(s)
}

// Evaluate blends score, distance to food, closeness of the body to the head,
// body shape and space fragmentation. Game over is negative infinity and a
// cleared board positive infinity. Unreachable food counts as a board area of
// steps away.
func (e *Evaluator) Evaluate(s *game.State) float64 {
	if s.IsGameOver() {
		return math.Inf(-1)
	}
	if s.Cleared() {
		return math.Inf(1)
	}

	w := e.weights
	area := float64(s.Width * s.Height)
	length := float64(len(s.Snake))

	steps, bonus := area, 0.0
	if path := e.path(s); len(path) > 0 {
		steps = float64(len(path) - 1)
		bonus = math.Exp(-steps) * area / length
	}

	value := float64(s.Score)*w.Score - steps*(w.Distance+w.Path) + bonus
	value -= CollisionRisk(s.Snake, w.CollisionK) * w.Collision
	if HasUShape(s.Snake) {
		value -= w.UShape
	}
	if horizontal, vertical := LongestSides(s.Snake); horizontal >= s.Width-3 || vertical >= s.Height-3 {
		value -= w.LongSide
	}
	if grid.SplitsSpace(s, grid.SplitDepth(s)) {
		value -= w.Split * area
	}
	return value
}

// CollisionRisk sums k/d over body segments within Manhattan distance d <= 2
// of the head.
func CollisionRisk(snake []game.Position, k float64) float64 {
	head := snake[0]
	risk := 0.0
	for _, segment := range snake[1:] {
		d := game.Manhattan(head, segment)
		if d > 0 && d <= 2 {
			risk += k / float64(d)
		}
	}
	return risk
}

// HasUShape reports a tight fold: the head lies next to the fourth segment.
func HasUShape(snake []game.Position) bool {
	if len(snake) < 4 {
		return false
	}
	return game.Manhattan(snake[0], snake[3]) == 1
}

// LongestSides returns the longest straight runs of consecutive segments, in
// cells, along each axis.
func LongestSides(snake []game.Position) (horizontal, vertical int) {
	horizontal, vertical = 1, 1
	run := 1
	for i := 1; i < len(snake); i++ {
		step := snake[i].Sub(snake[i-1])
		if i > 1 && step == snake[i-1].Sub(snake[i-2]) {
			run++
		} else {
			run = 2
		}
		if step.Y == 0 {
			horizontal = max(horizontal, run)
		} else {
			vertical = max(vertical, run)
		}
	}
	return horizontal, vertical
}
