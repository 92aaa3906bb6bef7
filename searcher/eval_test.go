package searcher

import (
	"math"
	"testing"

	"snake/game"

	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	e := NewEvaluator(DefaultWeights(), nil)

	t.Run("game over is the worst value", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}}, game.Position{X: 4, Y: 4}, 5, 5).Next(game.Position{X: -1, Y: 0})
		require.Equal(t, math.Inf(-1), e.Evaluate(s))
	})

	t.Run("cleared board is the best value", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, game.Position{X: 0, Y: 0}, 2, 2).Next(game.Position{X: 0, Y: 0})
		require.Equal(t, math.Inf(1), e.Evaluate(s))
	})

	t.Run("closer food scores higher", func(t *testing.T) {
		snake := []game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}
		near := game.MustState(snake, game.Position{X: 7, Y: 5}, 20, 20)
		far := game.MustState(snake, game.Position{X: 9, Y: 5}, 20, 20)
		require.Greater(t, e.Evaluate(near), e.Evaluate(far))
	})

	t.Run("higher score dominates equal layouts", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, game.Position{X: 9, Y: 5}, 20, 20)
		better := s.Copy()
		better.Score = 3
		require.Greater(t, e.Evaluate(better), e.Evaluate(s))
	})

	t.Run("distance counts steps after the head", func(t *testing.T) {
		distanceOnly := NewEvaluator(Weights{Distance: 1}, nil)
		s := game.MustState([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, game.Position{X: 9, Y: 5}, 20, 20)
		want := -4 + math.Exp(-4)*400/3
		require.InDelta(t, want, distanceOnly.Evaluate(s), 1e-9)
	})

	t.Run("unreachable food counts as the board area", func(t *testing.T) {
		distanceOnly := NewEvaluator(Weights{Distance: 1}, nil)
		s := game.MustState([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, game.Position{X: 2, Y: 1}, 3, 2)
		require.Equal(t, -6.0, distanceOnly.Evaluate(s))
	})

	t.Run("split space is penalised per board cell", func(t *testing.T) {
		splitOnly := NewEvaluator(Weights{Split: 1}, nil)
		split := game.MustState([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, game.Position{X: 2, Y: 1}, 3, 2)
		require.Equal(t, -6.0, splitOnly.Evaluate(split))
	})

	t.Run("body close to the head is risky", func(t *testing.T) {
		collisionOnly := NewEvaluator(Weights{Collision: 1, CollisionK: 5}, nil)
		food := game.Position{X: 0, Y: 0}
		straight := game.MustState([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}}, food, 10, 10)
		folded := game.MustState([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 4, Y: 4}, {X: 5, Y: 4}}, food, 10, 10)
		require.Greater(t, collisionOnly.Evaluate(straight), collisionOnly.Evaluate(folded))
	})
}

func TestCollisionRisk(t *testing.T) {
	t.Run("neck and second segment", func(t *testing.T) {
		require.InDelta(t, 7.5, CollisionRisk([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}}, 5), 1e-9)
	})

	t.Run("segments beyond two steps are ignored", func(t *testing.T) {
		require.InDelta(t, 7.5, CollisionRisk([]game.Position{{X: 5, Y: 5}, {X: 4, Y: 5}, {X: 3, Y: 5}, {X: 2, Y: 5}, {X: 1, Y: 5}}, 5), 1e-9)
	})

	t.Run("single cell has no risk", func(t *testing.T) {
		require.Zero(t, CollisionRisk([]game.Position{{X: 5, Y: 5}}, 5))
	})
}

func TestHasUShape(t *testing.T) {
	require.True(t, HasUShape([]game.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}, {X: 0, Y: 0}}))
	require.False(t, HasUShape([]game.Position{{X: 3, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}}))
	require.False(t, HasUShape([]game.Position{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}))
}

func TestLongestSides(t *testing.T) {
	t.Run("straight horizontal body", func(t *testing.T) {
		h, v := LongestSides([]game.Position{{X: 4, Y: 0}, {X: 3, Y: 0}, {X: 2, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 0}})
		require.Equal(t, 5, h)
		require.Equal(t, 1, v)
	})

	t.Run("bent body measures each side", func(t *testing.T) {
		h, v := LongestSides([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 2, Y: 1}, {X: 2, Y: 2}, {X: 2, Y: 3}})
		require.Equal(t, 3, h)
		require.Equal(t, 4, v)
	})

	t.Run("single cell", func(t *testing.T) {
		h, v := LongestSides([]game.Position{{X: 2, Y: 2}})
		require.Equal(t, 1, h)
		require.Equal(t, 1, v)
	})
}
