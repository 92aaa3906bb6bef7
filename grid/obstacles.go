package grid

import "snake/game"

// Obstacles is an occupancy bitmap over a width x height board. Cells outside
// the board are always blocked.
type Obstacles struct {
	width  int
	height int
	cells  []bool
}

func NewObstacles(width, height int) *Obstacles {
	return &Obstacles{
		width:  width,
		height: height,
		cells:  make([]bool, width*height),
	}
}

// FromSnake blocks every given segment. Segments off the board are ignored.
func FromSnake(segments []game.Position, width, height int) *Obstacles {
	o := NewObstacles(width, height)
	for _, segment := range segments {
		o.Block(segment)
	}
	return o
}

func (o *Obstacles) Area() int { return o.width * o.height }

func (o *Obstacles) InBounds(p game.Position) bool {
	return p.X >= 0 && p.X < o.width && p.Y >= 0 && p.Y < o.height
}

func (o *Obstacles) Block(p game.Position) {
	if o.InBounds(p) {
		o.cells[o.index(p)] = true
	}
}

func (o *Obstacles) Unblock(p game.Position) {
	if o.InBounds(p) {
		o.cells[o.index(p)] = false
	}
}

func (o *Obstacles) Blocked(p game.Position) bool {
	return !o.InBounds(p) || o.cells[o.index(p)]
}

func (o *Obstacles) index(p game.Position) int {
	return p.Y*o.width + p.X
}

func (o *Obstacles) position(i int) game.Position {
	return game.Position{X: i % o.width, Y: i / o.width}
}
