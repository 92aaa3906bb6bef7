package game

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
)

// State is a snapshot of a single-snake game. The live game mutates one State
// through Next's results; search agents branch with Next and discard the
// branches. A State is never shared between branches.
type State struct {
	Snake     []Position // Head first, one cell per segment
	Food      Position   // NoFood once the board is cleared
	Width     int
	Height    int
	Direction Position // Unit step taken by the last move
	Score     int      // Food eaten so far

	source *foodSource
}

// NewState seeds a fresh game: the snake is laid out leftwards from the board
// centre heading right, and the first food is drawn from the seed.
func NewState(cfg Config) (*State, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cx, cy := cfg.Width/2, cfg.Height/2
	snake := make([]Position, 0, cfg.InitialLength)
	for i := 0; i < cfg.InitialLength; i++ {
		snake = append(snake, Position{X: cx - i, Y: cy})
	}

	s := &State{
		Snake:     snake,
		Width:     cfg.Width,
		Height:    cfg.Height,
		Direction: Right,
		source:    newFoodSource(cfg.Seed),
	}
	food, err := s.GenerateFood()
	if err != nil {
		return nil, fmt.Errorf("failed to place initial food: %w", err)
	}
	s.Food = food
	return s, nil
}

// NewStateFrom builds a state from an explicit layout. The direction is taken
// from the neck to the head, defaulting to Right for single-cell snakes.
func NewStateFrom(snake []Position, food Position, width, height int, seed string) (*State, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: board must be positive, got %dx%d", ErrInvalidConfig, width, height)
	}
	if len(snake) == 0 {
		return nil, fmt.Errorf("%w: snake has no segments", ErrInvalidConfig)
	}

	s := &State{
		Snake:     append([]Position(nil), snake...),
		Food:      food,
		Width:     width,
		Height:    height,
		Direction: Right,
		source:    newFoodSource(seed),
	}

	seen := make(map[Position]bool, len(snake))
	for _, segment := range snake {
		if !s.InBounds(segment) {
			return nil, fmt.Errorf("%w: segment %v outside the board", ErrInvalidConfig, segment)
		}
		if seen[segment] {
			return nil, fmt.Errorf("%w: duplicate segment %v", ErrInvalidConfig, segment)
		}
		seen[segment] = true
	}
	if food != NoFood {
		if !s.InBounds(food) {
			return nil, fmt.Errorf("%w: food %v outside the board", ErrInvalidConfig, food)
		}
		if seen[food] {
			return nil, fmt.Errorf("%w: food %v on the snake", ErrInvalidConfig, food)
		}
	}

	if len(snake) > 1 {
		s.Direction = snake[0].Sub(snake[1])
	}
	return s, nil
}

// MustState panics if the layout is invalid. Intended for fixtures.
func MustState(snake []Position, food Position, width, height int) *State {
	s, err := NewStateFrom(snake, food, width, height, "test")
	if err != nil {
		panic(err)
	}
	return s
}

func (s *State) Head() Position {
	return s.Snake[0]
}

func (s *State) InBounds(p Position) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// Occupied reports whether any snake segment covers p.
func (s *State) Occupied(p Position) bool {
	for _, segment := range s.Snake {
		if segment == p {
			return true
		}
	}
	return false
}

// ValidNextPositions returns the legal moves in Right, Left, Down, Up order:
// neighbours of the head that are on the board and not covered by the snake.
func (s *State) ValidNextPositions() []Position {
	head := s.Head()
	moves := make([]Position, 0, len(Directions))
	for _, d := range Directions {
		next := head.Add(d)
		if s.InBounds(next) && !s.Occupied(next) {
			moves = append(moves, next)
		}
	}
	return moves
}

// Next returns the state after the head steps onto move. The receiver is left
// untouched.
func (s *State) Next(move Position) *State {
	next := &State{
		Food:      s.Food,
		Width:     s.Width,
		Height:    s.Height,
		Direction: move.Sub(s.Head()),
		Score:     s.Score,
		source:    s.source.copy(),
	}

	eats := move == s.Food
	length := len(s.Snake)
	if eats {
		length++
	}
	next.Snake = make([]Position, 0, length)
	next.Snake = append(next.Snake, move)
	next.Snake = append(next.Snake, s.Snake[:length-1]...)

	if eats {
		next.Score++
		food, err := next.GenerateFood()
		if err != nil {
			next.Food = NoFood
		} else {
			next.Food = food
		}
	}
	return next
}

// IsGameOver reports a wall or self collision of the head.
func (s *State) IsGameOver() bool {
	head := s.Head()
	if !s.InBounds(head) {
		return true
	}
	for _, segment := range s.Snake[1:] {
		if segment == head {
			return true
		}
	}
	return false
}

// Cleared reports that the snake filled the board and no food could be placed.
func (s *State) Cleared() bool {
	return s.Food == NoFood
}

// Copy returns a deep copy, including the position in the food sequence.
func (s *State) Copy() *State {
	return &State{
		Snake:     append(make([]Position, 0, len(s.Snake)), s.Snake...),
		Food:      s.Food,
		Width:     s.Width,
		Height:    s.Height,
		Direction: s.Direction,
		Score:     s.Score,
		source:    s.source.copy(),
	}
}

// Hash identifies the board layout: dimensions, snake cells in order and food.
func (s *State) Hash() StateHash {
	h := fnv.New64a()
	buf := make([]byte, 8)
	write := func(v int) {
		binary.LittleEndian.PutUint64(buf, uint64(int64(v)))
		h.Write(buf)
	}
	write(s.Width)
	write(s.Height)
	write(s.Food.X)
	write(s.Food.Y)
	for _, segment := range s.Snake {
		write(segment.X)
		write(segment.Y)
	}
	return StateHash(h.Sum64())
}

func (s *State) String() string {
	return fmt.Sprintf("snake=%v food=%v score=%d %dx%d", s.Snake, s.Food, s.Score, s.Width, s.Height)
}
