package grid

import (
	"container/heap"
	"math"

	"snake/game"
)

// AStar finds a shortest path from the snake's head to goal over the
// 4-connected board. Every snake segment is impassable except goal itself.
// The path runs from the head to goal inclusive and is empty when goal cannot
// be reached.
func AStar(snake []game.Position, goal game.Position, width, height int) []game.Position {
	if len(snake) == 0 {
		return nil
	}
	obstacles := FromSnake(snake, width, height)
	obstacles.Unblock(goal)
	return FindPath(snake[0], goal, obstacles)
}

// PathToFood runs AStar on a state's snake and food.
func PathToFood(s *game.State) []game.Position {
	if s.Cleared() {
		return nil
	}
	return AStar(s.Snake, s.Food, s.Width, s.Height)
}

// FindPath is A* with a Manhattan heuristic and unit step cost. The start cell
// is expanded even when blocked. Among open cells with equal f the one opened
// first is expanded first.
func FindPath(start, goal game.Position, obstacles *Obstacles) []game.Position {
	if !obstacles.InBounds(start) || !obstacles.InBounds(goal) {
		return nil
	}

	area := obstacles.Area()
	gScore := make([]int, area)
	cameFrom := make([]int, area)
	closed := make([]bool, area)
	opened := make([]*openCell, area)
	for i := range gScore {
		gScore[i] = math.MaxInt
		cameFrom[i] = -1
	}

	open := &openSet{}
	seq := 0
	push := func(p game.Position, g int) {
		cell := &openCell{pos: p, f: g + game.Manhattan(p, goal), seq: seq}
		seq++
		opened[obstacles.index(p)] = cell
		heap.Push(open, cell)
	}

	startIdx := obstacles.index(start)
	gScore[startIdx] = 0
	push(start, 0)

	for open.Len() > 0 {
		current := heap.Pop(open).(*openCell)
		currentIdx := obstacles.index(current.pos)
		if current.pos == goal {
			return reconstruct(cameFrom, currentIdx, obstacles)
		}
		closed[currentIdx] = true
		opened[currentIdx] = nil

		for _, d := range game.Directions {
			next := current.pos.Add(d)
			if obstacles.Blocked(next) {
				continue
			}
			nextIdx := obstacles.index(next)
			if closed[nextIdx] {
				continue
			}
			tentative := gScore[currentIdx] + 1
			if tentative >= gScore[nextIdx] {
				continue
			}
			cameFrom[nextIdx] = currentIdx
			gScore[nextIdx] = tentative
			if cell := opened[nextIdx]; cell != nil {
				// Keeps its original insertion order
				cell.f = tentative + game.Manhattan(next, goal)
				heap.Fix(open, cell.index)
			} else {
				push(next, tentative)
			}
		}
	}
	return nil
}

func reconstruct(cameFrom []int, end int, obstacles *Obstacles) []game.Position {
	path := []game.Position{}
	for i := end; i != -1; i = cameFrom[i] {
		path = append(path, obstacles.position(i))
	}
	for l, r := 0, len(path)-1; l < r; l, r = l+1, r-1 {
		path[l], path[r] = path[r], path[l]
	}
	return path
}

type openCell struct {
	pos   game.Position
	f     int
	seq   int
	index int
}

// openSet is a min-heap on (f, seq).
type openSet []*openCell

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	if o[i].f != o[j].f {
		return o[i].f < o[j].f
	}
	return o[i].seq < o[j].seq
}

func (o openSet) Swap(i, j int) {
	o[i], o[j] = o[j], o[i]
	o[i].index = i
	o[j].index = j
}

func (o *openSet) Push(x any) {
	cell := x.(*openCell)
	cell.index = len(*o)
	*o = append(*o, cell)
}

func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	cell := old[n-1]
	old[n-1] = nil
	cell.index = -1
	*o = old[:n-1]
	return cell
}
