package grid

import "snake/game"

// BFS finds a shortest path between two cells of an empty board. It ignores
// the snake entirely, so callers must check that the first step is legal.
func BFS(start, goal game.Position, width, height int) []game.Position {
	return bfs(start, goal, NewObstacles(width, height))
}

func bfs(start, goal game.Position, obstacles *Obstacles) []game.Position {
	if !obstacles.InBounds(start) || !obstacles.InBounds(goal) {
		return nil
	}

	cameFrom := make([]int, obstacles.Area())
	visited := make([]bool, obstacles.Area())
	for i := range cameFrom {
		cameFrom[i] = -1
	}

	queue := []game.Position{start}
	visited[obstacles.index(start)] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == goal {
			return reconstruct(cameFrom, obstacles.index(current), obstacles)
		}
		for _, d := range game.Directions {
			next := current.Add(d)
			if obstacles.Blocked(next) {
				continue
			}
			idx := obstacles.index(next)
			if visited[idx] {
				continue
			}
			visited[idx] = true
			cameFrom[idx] = obstacles.index(current)
			queue = append(queue, next)
		}
	}
	return nil
}
