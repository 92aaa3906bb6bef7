package searcher

import "math"

// Hyperparameters for MCTS

const CSquared = 2.0 // Exploration constant

const WIN = 1.0      // Reward for clearing the board
const LOSS = 0.0     // Reward for dying, also the virtual loss
const SURVIVAL = 0.5 // Reward for surviving a rollout without eating

type uct struct {
	numerator float64
}

func newUCT(cSquared float64, N float64) *uct {
	if N == 0 {
		panic("N cannot be 0")
	}
	return &uct{numerator: cSquared * math.Log(N)}
}

func (u uct) evaluate(q float64, n float64) float64 {
	if n == 0 {
		panic("n cannot be 0")
	}
	// UCT = q/n + sqrt(c^2*ln(N)/n)
	return q/n + math.Sqrt(u.numerator/n)
}

// rolloutReward grows from SURVIVAL towards WIN with the food eaten since the
// search root.
func rolloutReward(eaten int) float64 {
	return SURVIVAL + (WIN-SURVIVAL)*(1-math.Exp(-float64(eaten)))
}
