package metrics

import (
	"strconv"
	"time"

	"snake/game"
)

// Agent kinds an experiment can build.
const (
	KindGreedy    = "greedy"
	KindMinimax   = "minimax"
	KindMCTS      = "mcts"
	KindQLearning = "qlearning"
)

type AgentConfig struct {
	ID         int           `json:"id"`
	Kind       string        `json:"kind"`
	Depth      int           `json:"depth,omitempty"`  // minimax
	Memory     int           `json:"memory,omitempty"` // minimax
	ExactCache bool          `json:"exact_cache,omitempty"`
	Goroutines int           `json:"goroutines,omitempty"` // mcts
	Episodes   int           `json:"episodes,omitempty"`   // mcts
	Duration   time.Duration `json:"duration,omitempty"`   // mcts
	Cutoff     int           `json:"cutoff,omitempty"`     // mcts
	Model      string        `json:"model,omitempty"`      // qlearning
	Evaluate   game.Evaluate `json:"-"`
}

func (c AgentConfig) Name() string {
	return c.Kind + "-" + strconv.Itoa(c.ID)
}
