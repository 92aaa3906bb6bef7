package grid

import (
	"testing"

	"snake/game"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// shortestSteps is a brute-force breadth-first distance with the same
// passability rules as AStar, or -1 when goal is unreachable.
func shortestSteps(snake []game.Position, goal game.Position, width, height int) int {
	blocked := map[game.Position]bool{}
	for _, s := range snake {
		blocked[s] = true
	}
	delete(blocked, goal)

	dist := map[game.Position]int{snake[0]: 0}
	queue := []game.Position{snake[0]}
	for len(queue) > 0 {
		p := queue[0]
		queue = queue[1:]
		if p == goal {
			return dist[p]
		}
		for _, d := range game.Directions {
			n := p.Add(d)
			if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height || blocked[n] {
				continue
			}
			if _, seen := dist[n]; seen {
				continue
			}
			dist[n] = dist[p] + 1
			queue = append(queue, n)
		}
	}
	return -1
}

func requireContiguous(t *testing.T, path []game.Position) {
	t.Helper()
	for i := 1; i < len(path); i++ {
		require.Equal(t, 1, game.Manhattan(path[i-1], path[i]), "Path should step one cell at a time: %v", path)
	}
}

func TestAStar(t *testing.T) {
	t.Run("straight line on an open board", func(t *testing.T) {
		snake := []game.Position{{X: 2, Y: 7}, {X: 1, Y: 7}, {X: 0, Y: 7}}
		path := AStar(snake, game.Position{X: 6, Y: 7}, 15, 15)
		require.Equal(t, []game.Position{{X: 2, Y: 7}, {X: 3, Y: 7}, {X: 4, Y: 7}, {X: 5, Y: 7}, {X: 6, Y: 7}}, path)
	})

	t.Run("start equals goal", func(t *testing.T) {
		path := AStar([]game.Position{{X: 1, Y: 1}}, game.Position{X: 1, Y: 1}, 3, 3)
		require.Equal(t, []game.Position{{X: 1, Y: 1}}, path)
	})

	t.Run("routes around the body", func(t *testing.T) {
		// Wall of body segments between head and food with a gap at the bottom
		snake := []game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}}
		goal := game.Position{X: 2, Y: 0}
		path := AStar(snake, goal, 5, 5)
		require.NotEmpty(t, path)
		require.Equal(t, snake[0], path[0])
		require.Equal(t, goal, path[len(path)-1])
		require.Len(t, path, 11)
		requireContiguous(t, path)
		for _, p := range path[1:] {
			require.NotContains(t, snake, p)
		}
	})

	t.Run("unreachable goal yields an empty path", func(t *testing.T) {
		snake := []game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}
		require.Empty(t, AStar(snake, game.Position{X: 3, Y: 3}, 4, 4))
	})

	t.Run("goal on the body is still enterable", func(t *testing.T) {
		snake := []game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}
		path := AStar(snake, game.Position{X: 2, Y: 0}, 3, 3)
		require.NotEmpty(t, path)
		require.Equal(t, game.Position{X: 2, Y: 0}, path[len(path)-1])
	})

	t.Run("matches brute-force distance on random 5x5 boards", func(t *testing.T) {
		rng := rand.New(rand.NewSource(7))
		for trial := 0; trial < 300; trial++ {
			cells := rng.Perm(25)
			length := 1 + rng.Intn(10)
			snake := make([]game.Position, 0, length)
			for _, c := range cells[:length] {
				snake = append(snake, game.Position{X: c % 5, Y: c / 5})
			}
			goalCell := cells[length]
			goal := game.Position{X: goalCell % 5, Y: goalCell / 5}

			want := shortestSteps(snake, goal, 5, 5)
			path := AStar(snake, goal, 5, 5)
			if want < 0 {
				require.Empty(t, path, "trial %d: snake=%v goal=%v", trial, snake, goal)
				continue
			}
			require.Len(t, path, want+1, "trial %d: snake=%v goal=%v", trial, snake, goal)
			require.Equal(t, snake[0], path[0])
			require.Equal(t, goal, path[len(path)-1])
			requireContiguous(t, path)
		}
	})
}

func TestPathToFood(t *testing.T) {
	s := game.MustState([]game.Position{{X: 1, Y: 1}, {X: 0, Y: 1}}, game.Position{X: 3, Y: 1}, 5, 5)
	require.Equal(t, []game.Position{{X: 1, Y: 1}, {X: 2, Y: 1}, {X: 3, Y: 1}}, PathToFood(s))

	cleared := game.MustState([]game.Position{{X: 1, Y: 1}}, game.NoFood, 2, 2)
	require.Empty(t, PathToFood(cleared))
}

func TestBFS(t *testing.T) {
	t.Run("ignores obstacles entirely", func(t *testing.T) {
		path := BFS(game.Position{X: 0, Y: 0}, game.Position{X: 2, Y: 0}, 3, 3)
		require.Equal(t, []game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}}, path)
	})

	t.Run("goal off the board", func(t *testing.T) {
		require.Empty(t, BFS(game.Position{X: 0, Y: 0}, game.NoFood, 3, 3))
	})

	t.Run("shortest on an open board", func(t *testing.T) {
		path := BFS(game.Position{X: 0, Y: 0}, game.Position{X: 3, Y: 4}, 6, 6)
		require.Len(t, path, 8)
		requireContiguous(t, path)
	})
}
