package game

import "snake/utils"

// Position is a board cell. (0,0) is the top-left corner, y grows downwards.
type Position struct {
	X int
	Y int
}

// NoFood marks a board with no food left to place.
var NoFood = Position{X: -1, Y: -1}

var (
	Right = Position{X: 1, Y: 0}
	Left  = Position{X: -1, Y: 0}
	Down  = Position{X: 0, Y: 1}
	Up    = Position{X: 0, Y: -1}
)

// Directions lists the unit steps in move enumeration order. Search agents
// break ties by this order, so it must not change.
var Directions = [4]Position{Right, Left, Down, Up}

func (p Position) Add(o Position) Position {
	return Position{X: p.X + o.X, Y: p.Y + o.Y}
}

func (p Position) Sub(o Position) Position {
	return Position{X: p.X - o.X, Y: p.Y - o.Y}
}

// Manhattan returns |dx|+|dy| between two cells.
func Manhattan(a, b Position) int {
	return utils.Abs(a.X-b.X) + utils.Abs(a.Y-b.Y)
}

// DirectionName returns a short label for a unit step, used in logs and records.
func DirectionName(d Position) string {
	switch d {
	case Right:
		return "right"
	case Left:
		return "left"
	case Down:
		return "down"
	case Up:
		return "up"
	default:
		return "none"
	}
}

type StateHash uint64

// Evaluates a state to a desirability score, higher is better. Game over
// states evaluate to negative infinity.
type Evaluate func(*State) float64
