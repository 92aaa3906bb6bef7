package engine

import (
	"context"
	"testing"
	"time"

	"snake/game"
	"snake/gamemaster"
	"snake/learner"
	"snake/searcher"

	"github.com/stretchr/testify/require"
)

type fixedAgent struct {
	move game.Position
}

func (a fixedAgent) NextMove(*game.State) (game.Position, bool) {
	return a.move, true
}

// straightAgent keeps heading in the current direction.
type straightAgent struct{}

func (straightAgent) NextMove(s *game.State) (game.Position, bool) {
	return s.Head().Add(s.Direction), true
}

type recorder struct {
	frames int
	clears int
}

func (r *recorder) Render(*game.State) { r.frames++ }
func (r *recorder) Clear()             { r.clears++ }

func TestLocalEngineRun(t *testing.T) {
	t.Run("greedy plays until the episode ends", func(t *testing.T) {
		cfg := game.Config{Width: 8, Height: 8, Seed: "42", InitialLength: 3}
		e, err := LocalEngine("greedy", searcher.NewGreedy(searcher.WithMetrics()), cfg, WithMaxTicks(300))
		require.NoError(t, err)

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.NotEmpty(t, gameMetric.ID)
		require.Equal(t, "greedy", gameMetric.Agent)
		require.Equal(t, "42", gameMetric.Seed)
		require.Contains(t, []string{Collision, Trapped, Cleared, MaxTicks}, gameMetric.Termination)
		require.Len(t, moveMetrics, gameMetric.Ticks)
		require.Positive(t, gameMetric.Score, "greedy eats at least the first food")
		require.Equal(t, gameMetric.Score+3, gameMetric.Length)
		for i, mm := range moveMetrics {
			require.Equal(t, i+1, mm.Step)
			require.Equal(t, "greedy", mm.Agent)
		}
	})

	t.Run("eats food four cells to the right in four ticks", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}, game.Position{X: 11, Y: 7}, 15, 15)
		e := LocalEngineFrom("greedy", searcher.NewGreedy(), s, WithMaxTicks(4))

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, MaxTicks, gameMetric.Termination)
		require.Equal(t, 1, gameMetric.Score)
		require.Equal(t, 4, gameMetric.Length)
		for _, mm := range moveMetrics {
			require.Equal(t, "right", mm.Move)
		}
	})

	t.Run("running into the wall is rejected", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 3, Y: 1}, {X: 2, Y: 1}}, game.Position{X: 0, Y: 3}, 5, 5)
		e := LocalEngineFrom("straight", straightAgent{}, s)

		gameMetric, _, err := e.Run(context.Background())

		require.ErrorIs(t, err, gamemaster.ErrIllegalMove)
		require.Equal(t, Illegal, gameMetric.Termination)
		require.Equal(t, 1, gameMetric.Ticks)
	})

	t.Run("boxed in head ends as trapped", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}, game.Position{X: 3, Y: 3}, 4, 4)
		e := LocalEngineFrom("greedy", searcher.NewGreedy(), s)

		gameMetric, moveMetrics, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, Trapped, gameMetric.Termination)
		require.Zero(t, gameMetric.Ticks)
		require.Empty(t, moveMetrics)
	})

	t.Run("illegal move is reported", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 2, Y: 2}, {X: 1, Y: 2}}, game.Position{X: 4, Y: 4}, 5, 5)
		e := LocalEngineFrom("neck", fixedAgent{move: game.Position{X: 1, Y: 2}}, s)

		gameMetric, _, err := e.Run(context.Background())

		require.ErrorIs(t, err, gamemaster.ErrIllegalMove)
		require.Equal(t, Illegal, gameMetric.Termination)
	})

	t.Run("cancelled context stops between ticks", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e, err := LocalEngine("greedy", searcher.NewGreedy(), game.DefaultConfig())
		require.NoError(t, err)

		gameMetric, moveMetrics, err := e.Run(ctx)

		require.NoError(t, err)
		require.Equal(t, Cancelled, gameMetric.Termination)
		require.Empty(t, moveMetrics)
	})

	t.Run("ticker paces the loop", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}, game.Position{X: 11, Y: 7}, 15, 15)
		e := LocalEngineFrom("greedy", searcher.NewGreedy(), s, WithMaxTicks(3), WithTickRate(5*time.Millisecond))

		start := time.Now()
		gameMetric, _, err := e.Run(context.Background())

		require.NoError(t, err)
		require.Equal(t, 3, gameMetric.Ticks)
		require.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
	})
}

func TestLocalEngineStep(t *testing.T) {
	t.Run("renders every tick", func(t *testing.T) {
		r := &recorder{}
		s := game.MustState([]game.Position{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}, game.Position{X: 11, Y: 7}, 15, 15)
		e := LocalEngineFrom("greedy", searcher.NewGreedy(), s, WithRenderer(r), WithMaxTicks(2))

		require.True(t, e.Step())
		require.True(t, e.Step())
		require.False(t, e.Step())
		require.False(t, e.Step())

		require.Equal(t, 1, r.clears)
		require.Equal(t, 3, r.frames)
		require.Equal(t, MaxTicks, e.Termination())
		require.Equal(t, game.Position{X: 9, Y: 7}, e.State().Head())
	})

	t.Run("reset starts a new episode", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 7, Y: 7}, {X: 6, Y: 7}, {X: 5, Y: 7}}, game.Position{X: 11, Y: 7}, 15, 15)
		e := LocalEngineFrom("greedy", searcher.NewGreedy(), s, WithMaxTicks(1))
		for e.Step() {
		}
		first, _, _ := e.Result()

		state := e.Reset()
		require.Equal(t, game.Position{X: 7, Y: 7}, state.Head())
		require.Empty(t, e.Termination())

		for e.Step() {
		}
		second, _, _ := e.Result()
		require.NotEqual(t, first.ID, second.ID)
	})

	t.Run("learners observe every transition", func(t *testing.T) {
		s := game.MustState([]game.Position{{X: 2, Y: 2}, {X: 1, Y: 2}}, game.Position{X: 3, Y: 2}, 5, 5)
		q := learner.NewQLearning(learner.WithExploration(0, 1, 0))
		e := LocalEngineFrom("qlearning", q, s, WithMaxTicks(1))

		require.True(t, e.Step())

		require.InDelta(t, 0.1*learner.FoodReward, q.Value(s, game.Position{X: 3, Y: 2}), 1e-9)
	})
}
