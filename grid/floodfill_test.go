package grid

import (
	"testing"

	"snake/game"

	"github.com/stretchr/testify/require"
)

// bisected returns a 10x10 state whose body is a vertical wall at x=3 with the
// head on the given side of it.
func bisected(head game.Position) *game.State {
	snake := []game.Position{head}
	for y := 0; y < 10; y++ {
		snake = append(snake, game.Position{X: 3, Y: y})
	}
	return game.MustState(snake, game.NoFood, 10, 10)
}

func TestFloodFill(t *testing.T) {
	t.Run("open 10x10 board visits every cell", func(t *testing.T) {
		open := NewObstacles(10, 10)
		for _, start := range []game.Position{{X: 1, Y: 1}, {X: 4, Y: 5}, {X: 8, Y: 2}, {X: 0, Y: 9}} {
			require.Equal(t, 100, FloodFill(start, open, -1), "start %v", start)
		}
	})

	t.Run("depth bound limits the diamond", func(t *testing.T) {
		open := NewObstacles(10, 10)
		require.Equal(t, 1, FloodFill(game.Position{X: 5, Y: 5}, open, 0))
		require.Equal(t, 5, FloodFill(game.Position{X: 5, Y: 5}, open, 1))
		require.Equal(t, 13, FloodFill(game.Position{X: 5, Y: 5}, open, 2))
		require.Equal(t, 3, FloodFill(game.Position{X: 0, Y: 0}, open, 1))
	})

	t.Run("blocked cells are walls", func(t *testing.T) {
		s := bisected(game.Position{X: 2, Y: 0})
		require.Equal(t, 30, FloodFill(game.Position{X: 0, Y: 0}, bodyObstacles(s), -1))
		require.Equal(t, 60, FloodFill(game.Position{X: 9, Y: 9}, bodyObstacles(s), -1))
	})

	t.Run("start off the board", func(t *testing.T) {
		require.Equal(t, 0, FloodFill(game.Position{X: -1, Y: 0}, NewObstacles(3, 3), -1))
	})
}

func TestSafeSpace(t *testing.T) {
	t.Run("counts reachable cells without the head", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, game.Position{X: 0, Y: 0}, 10, 10)
		require.Equal(t, 97, SafeSpace(s))
	})

	t.Run("enclosed pocket", func(t *testing.T) {
		require.Equal(t, 29, SafeSpace(bisected(game.Position{X: 2, Y: 0})))
	})

	t.Run("boxed in head", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, game.NoFood, 4, 4)
		require.Equal(t, 0, SafeSpace(s))
	})
}

func TestSplitsSpace(t *testing.T) {
	t.Run("smaller partition splits", func(t *testing.T) {
		require.True(t, SplitsSpace(bisected(game.Position{X: 2, Y: 0}), -1))
	})

	t.Run("larger partition does not split", func(t *testing.T) {
		require.False(t, SplitsSpace(bisected(game.Position{X: 4, Y: 0}), -1))
	})

	t.Run("shallow bound on a large board", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, game.NoFood, 10, 10)
		require.Equal(t, 1, SplitDepth(s))
		require.True(t, SplitsSpace(s, SplitDepth(s)))

		tiny := game.MustState([]game.Position{{X: 1, Y: 1}, {X: 0, Y: 1}}, game.NoFood, 3, 2)
		require.False(t, SplitsSpace(tiny, SplitDepth(tiny)))
	})

	t.Run("depth grows with the body", func(t *testing.T) {
		snake := make([]game.Position, 0, 11)
		for x := 10; x >= 0; x-- {
			snake = append(snake, game.Position{X: x, Y: 0})
		}
		s := game.MustState(snake, game.NoFood, 12, 12)
		require.Equal(t, 3, SplitDepth(s))
	})
}
