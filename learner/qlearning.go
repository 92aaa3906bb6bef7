package learner

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"snake/experiments/metrics"
	"snake/game"
	"snake/meta"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

const (
	FoodReward  = 10.0
	DeathReward = -10.0
	StepReward  = -0.1
)

// DefaultModel names the table used when none is given.
const DefaultModel = "qtable-" + meta.SEED

// QTable maps a state key to the learned value of each move key.
type QTable map[string]map[string]float64

// Learner is implemented by agents that update from observed transitions.
type Learner interface {
	Observe(prev *game.State, move game.Position, reward float64, next *game.State)
}

// QLearning is a tabular agent. States are keyed by the head cell and the
// offset to the food, moves by the absolute target cell.
type QLearning struct {
	config
	table   QTable
	epsilon float64
	rng     *rand.Rand
	last    metrics.SearchMetric
}

func NewQLearning(options ...Option) *QLearning {
	c := newConfig(options)
	return &QLearning{
		config:  c,
		table:   make(QTable),
		epsilon: c.epsilon,
		rng:     rand.New(rand.NewSource(c.seed)),
	}
}

func StateKey(s *game.State) string {
	head := s.Head()
	food := s.Food.Sub(head)
	return strconv.Itoa(head.X) + "," + strconv.Itoa(head.Y) + "," + strconv.Itoa(food.X) + "," + strconv.Itoa(food.Y)
}

func ActionKey(move game.Position) string {
	return strconv.Itoa(move.X) + "," + strconv.Itoa(move.Y)
}

// Reward scores a transition: food eaten, death, or a plain step.
func Reward(prev, next *game.State) float64 {
	switch {
	case next.IsGameOver():
		return DeathReward
	case next.Score > prev.Score:
		return FoodReward
	default:
		return StepReward
	}
}

// NextMove explores with probability epsilon and otherwise takes the move
// with the highest value. Unseen pairs are worth zero.
func (q *QLearning) NextMove(s *game.State) (game.Position, bool) {
	q.metrics.Start("qlearning", 0)
	defer func() { q.last = q.metrics.Complete() }()

	moves := s.ValidNextPositions()
	if len(moves) == 0 {
		q.metrics.SetStage(metrics.StageNone)
		return game.Position{}, false
	}
	if len(moves) == 1 {
		q.metrics.SetStage(metrics.StageSingle)
		return moves[0], true
	}

	q.metrics.SetStage(metrics.StagePolicy)
	if q.rng.Float64() < q.epsilon {
		return moves[q.rng.Intn(len(moves))], true
	}
	return q.bestMove(StateKey(s), moves), true
}

func (q *QLearning) bestMove(state string, moves []game.Position) game.Position {
	values := q.table[state]
	best := moves[0]
	bestValue := values[ActionKey(best)]
	for _, move := range moves[1:] {
		if v := values[ActionKey(move)]; v > bestValue {
			best = move
			bestValue = v
		}
	}
	return best
}

// Observe applies one Q-learning update and decays epsilon. A terminal next
// state has no future value.
func (q *QLearning) Observe(prev *game.State, move game.Position, reward float64, next *game.State) {
	state := StateKey(prev)
	action := ActionKey(move)

	future := 0.0
	if !next.IsGameOver() {
		for _, v := range q.table[StateKey(next)] {
			future = math.Max(future, v)
		}
	}

	values, ok := q.table[state]
	if !ok {
		values = make(map[string]float64)
		q.table[state] = values
	}
	current := values[action]
	values[action] = current + q.alpha*(reward+q.gamma*future-current)

	q.epsilon = math.Max(q.epsilon*q.decay, q.minEpsilon)
}

func (q *QLearning) Value(s *game.State, move game.Position) float64 {
	return q.table[StateKey(s)][ActionKey(move)]
}

func (q *QLearning) Epsilon() float64 {
	return q.epsilon
}

// States returns the number of states with at least one learned value.
func (q *QLearning) States() int {
	return len(q.table)
}

func (q *QLearning) Metric() metrics.SearchMetric {
	return q.last
}

// Save writes the table to the store under name.
func (q *QLearning) Save(store ModelStore, name string) error {
	blob, err := json.Marshal(q.table)
	if err != nil {
		return fmt.Errorf("failed to encode q-table: %w", err)
	}
	if err := store.Save(name, blob); err != nil {
		return fmt.Errorf("failed to save model %s: %w", name, err)
	}
	log.Info().Msgf("saved model %s with %d states", name, len(q.table))
	return nil
}

// Load replaces the table with the one stored under name.
func (q *QLearning) Load(store ModelStore, name string) error {
	blob, err := store.Load(name)
	if err != nil {
		return fmt.Errorf("failed to load model %s: %w", name, err)
	}
	table := make(QTable)
	if err := json.Unmarshal(blob, &table); err != nil {
		return fmt.Errorf("failed to decode model %s: %w", name, err)
	}
	q.table = table
	log.Info().Msgf("loaded model %s with %d states", name, len(q.table))
	return nil
}

// Greedy turns off exploration, for evaluation games.
func (q *QLearning) Greedy() {
	q.epsilon = 0
}

var _ Learner = (*QLearning)(nil)
