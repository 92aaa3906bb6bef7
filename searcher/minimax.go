package searcher

import (
	"math"

	"snake/experiments/metrics"
	"snake/game"
	"snake/utils"

	"github.com/rs/zerolog/log"
)

// Minimax runs a depth-limited alpha-beta search over the snake's own moves.
// Plies alternate between maximizing and minimizing over the same move
// generator; there is no opponent yet. The lookahead grows with the score.
type Minimax struct {
	config
	cache    *PathCache
	evaluate game.Evaluate
	recent   []game.Position
	last     metrics.SearchMetric
}

func NewMinimax(options ...Option) *Minimax {
	c := newConfig(options)
	m := &Minimax{
		config: c,
		cache:  NewPathCache(c.exactCache, c.metrics),
	}
	m.evaluate = c.evaluate
	if m.evaluate == nil {
		m.evaluate = NewEvaluator(c.weights, m.cache).Evaluate
	}
	return m
}

// Depth returns the lookahead used for a state: three plies plus one for
// every five food eaten, capped by the configured maximum.
func (m *Minimax) Depth(s *game.State) int {
	return min(m.maxDepth, s.Score/5+3)
}

func (m *Minimax) NextMove(s *game.State) (game.Position, bool) {
	moves := s.ValidNextPositions()
	if len(moves) <= 1 {
		m.metrics.Start("minimax", 0)
		if len(moves) == 0 {
			m.metrics.SetStage(metrics.StageNone)
			m.last = m.metrics.Complete()
			return game.Position{}, false
		}
		m.metrics.SetStage(metrics.StageSingle)
		m.last = m.metrics.Complete()
		return moves[0], true
	}

	depth := m.Depth(s)
	m.metrics.Start("minimax", depth)
	m.metrics.SetStage(metrics.StageSearch)
	m.cache.Reset()

	candidates := m.withoutRecent(moves)
	best := candidates[0]
	bestScore := math.Inf(-1)
	for _, move := range candidates {
		score := m.search(s.Next(move), depth-1, false, math.Inf(-1), math.Inf(1))
		log.Debug().Msgf("minimax scored %v at %.2f", move, score)
		if score > bestScore {
			best, bestScore = move, score
		}
	}

	m.remember(best)
	m.last = m.metrics.Complete()
	log.Debug().Msgf("minimax chose %v at depth %d with score %.2f", best, depth, bestScore)
	return best, true
}

func (m *Minimax) search(s *game.State, depth int, maximizing bool, alpha, beta float64) float64 {
	m.metrics.AddNode()
	if depth <= 0 || s.IsGameOver() || s.Cleared() {
		m.metrics.AddLeaf()
		return m.evaluate(s)
	}

	moves := s.ValidNextPositions()
	if len(moves) == 0 {
		m.metrics.AddLeaf()
		return math.Inf(-1)
	}

	if maximizing {
		value := math.Inf(-1)
		for _, move := range moves {
			value = max(value, m.search(s.Next(move), depth-1, false, alpha, beta))
			alpha = max(alpha, value)
			if beta <= alpha {
				m.metrics.AddCutoff()
				break
			}
		}
		return value
	}

	value := math.Inf(1)
	for _, move := range moves {
		value = min(value, m.search(s.Next(move), depth-1, true, alpha, beta))
		beta = min(beta, value)
		if beta <= alpha {
			m.metrics.AddCutoff()
			break
		}
	}
	return value
}

// withoutRecent drops recently chosen cells unless that leaves nothing.
func (m *Minimax) withoutRecent(moves []game.Position) []game.Position {
	filtered := make([]game.Position, 0, len(moves))
	for _, move := range moves {
		if !utils.Contains(m.recent, move) {
			filtered = append(filtered, move)
		}
	}
	if len(filtered) == 0 {
		return moves
	}
	return filtered
}

func (m *Minimax) remember(move game.Position) {
	if m.memory == 0 {
		return
	}
	m.recent = append(m.recent, move)
	if len(m.recent) > m.memory {
		m.recent = m.recent[len(m.recent)-m.memory:]
	}
}

// Reset forgets the recent moves, for reuse across episodes.
func (m *Minimax) Reset() {
	m.recent = nil
}

func (m *Minimax) Metric() metrics.SearchMetric {
	return m.last
}
