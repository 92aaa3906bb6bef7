package grid

import "snake/game"

// SplitRatio is the reachable share of the board below which a position is
// considered to split the space.
const SplitRatio = 0.5

// FloodFill counts the free cells reachable from start, start included, using
// 4-connectivity. Cells further than maxDepth steps are not visited; a negative
// maxDepth means unbounded. A blocked start still counts as visited.
func FloodFill(start game.Position, obstacles *Obstacles, maxDepth int) int {
	if !obstacles.InBounds(start) {
		return 0
	}

	type frontier struct {
		pos   game.Position
		depth int
	}

	visited := make([]bool, obstacles.Area())
	visited[obstacles.index(start)] = true
	queue := []frontier{{pos: start}}
	count := 0
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		count++
		if maxDepth >= 0 && current.depth >= maxDepth {
			continue
		}
		for _, d := range game.Directions {
			next := current.pos.Add(d)
			if obstacles.Blocked(next) {
				continue
			}
			idx := obstacles.index(next)
			if visited[idx] {
				continue
			}
			visited[idx] = true
			queue = append(queue, frontier{pos: next, depth: current.depth + 1})
		}
	}
	return count
}

// bodyObstacles blocks every segment but the head.
func bodyObstacles(s *game.State) *Obstacles {
	return FromSnake(s.Snake[1:], s.Width, s.Height)
}

// SafeSpace counts the free cells the head can reach, the head itself
// excluded.
func SafeSpace(s *game.State) int {
	if !s.InBounds(s.Head()) {
		return 0
	}
	return FloodFill(s.Head(), bodyObstacles(s), -1) - 1
}

// SplitDepth bounds the split check: one extra step for every five body
// segments behind the head.
func SplitDepth(s *game.State) int {
	return (len(s.Snake)-1)/5 + 1
}

// SplitsSpace reports whether the cells reachable from the head within
// maxDepth steps cover less than SplitRatio of the board.
func SplitsSpace(s *game.State, maxDepth int) bool {
	visited := FloodFill(s.Head(), bodyObstacles(s), maxDepth)
	return float64(visited)/float64(s.Width*s.Height) < SplitRatio
}
