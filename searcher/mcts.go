package searcher

import (
	"sync"
	"time"

	"snake/experiments/metrics"
	"snake/game"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// MCTS estimates move values with random rollouts over a shared tree, built
// by several goroutines with virtual loss. The subtree under the chosen move
// is kept for the next decision when the board matches.
type MCTS struct {
	config
	root   *decision
	last   metrics.SearchMetric
	rounds uint64
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{config: newConfig(options)}
	if m.episodes <= 0 && m.duration <= 0 {
		panic("Must specify search episodes or duration")
	}
	if m.goroutines <= 0 {
		panic("Must search with at least one goroutine")
	}
	return m
}

func (m *MCTS) NextMove(s *game.State) (game.Position, bool) {
	moves := s.ValidNextPositions()
	if len(moves) <= 1 {
		m.metrics.Start("mcts", 0)
		m.root = nil
		if len(moves) == 0 {
			m.metrics.SetStage(metrics.StageNone)
			m.last = m.metrics.Complete()
			return game.Position{}, false
		}
		m.metrics.SetStage(metrics.StageSingle)
		m.last = m.metrics.Complete()
		return moves[0], true
	}

	policy := m.Simulate(s)

	best := moves[0]
	maxVisits := -1.0
	for _, move := range moves {
		if visits := policy[move]; visits > maxVisits {
			best, maxVisits = move, visits
		}
	}

	// Keep the chosen subtree for the next call
	m.root = m.root.child(best)
	if m.root != nil {
		m.root.parent = nil
	}
	log.Debug().Msgf("mcts chose %v with %.0f visits", best, maxVisits)
	return best, true
}

// Simulate runs the configured search budget from s and returns the visit
// count of each explored root move.
func (m *MCTS) Simulate(s *game.State) map[game.Position]float64 {
	m.findRoot(s)

	m.metrics.Start("mcts", m.cutoff)
	m.metrics.SetStage(metrics.StageRollout)
	if m.episodes > 0 {
		m.iterate(s)
	} else {
		m.countdown(s)
	}
	m.last = m.metrics.Complete()

	return m.root.Policy()
}

func (m *MCTS) findRoot(s *game.State) {
	if m.root != nil && m.root.hash == s.Hash() {
		log.Debug().Msgf("mcts reusing tree with %.0f visits", m.root.visits)
		return
	}
	m.root = newDecision(nil, s)
}

// workerRand gives each goroutine its own rollout source. Sources differ
// between decisions so rollouts are not replayed.
func (m *MCTS) workerRand(worker int) *rand.Rand {
	m.rounds++
	return rand.New(rand.NewSource(m.seed + m.rounds*1_000_003 + uint64(worker)))
}

func (m *MCTS) iterate(s *game.State) {
	task := make(chan any, m.episodes)
	for i := 0; i < m.episodes; i++ {
		task <- nil
	}
	close(task)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		rng := m.workerRand(i)
		go func() {
			defer wg.Done()

			for range task {
				m.simulate(s, rng)
			}
		}()
	}

	wg.Wait()
}

func (m *MCTS) countdown(s *game.State) {
	done := make(chan any)

	var wg sync.WaitGroup
	for i := 0; i < m.goroutines; i++ {
		wg.Add(1)
		rng := m.workerRand(i)
		go func() {
			defer wg.Done()

			for {
				select {
				case <-done:
					return
				default:
					m.simulate(s, rng)
				}
			}
		}()
	}

	<-time.After(m.duration)
	close(done)
	wg.Wait()
}

func (m *MCTS) simulate(s *game.State, rng *rand.Rand) {
	node, state := selectThenExpand(m.root, s, m.metrics)
	reward := rollout(state, s.Score, m.cutoff, rng)
	m.metrics.AddLeaf()
	backup(node, reward)
}

func selectThenExpand(root *decision, state *game.State, collector metrics.Collector) (*decision, *game.State) {
	node := root
	for {
		child, next, expanded := node.SelectOrExpand(state)
		if child == node { // Terminal
			return node, state
		}
		node, state = child, next
		if expanded {
			collector.AddNode()
			return node, state
		}
	}
}

// rollout plays random legal moves for up to cutoff ticks. Dying scores LOSS
// and clearing the board WIN.
func rollout(state *game.State, baseline, cutoff int, rng *rand.Rand) float64 {
	for depth := 0; ; depth++ {
		if state.Cleared() {
			return WIN
		}
		if state.IsGameOver() {
			return LOSS
		}
		moves := state.ValidNextPositions()
		if len(moves) == 0 {
			return LOSS
		}
		if depth >= cutoff {
			break
		}
		state = state.Next(moves[rng.Intn(len(moves))])
	}
	return rolloutReward(state.Score - baseline)
}

func backup(node *decision, reward float64) {
	for node != nil {
		node = node.Backup(reward)
	}
}

func (m *MCTS) Metric() metrics.SearchMetric {
	return m.last
}
