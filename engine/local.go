package engine

import (
	"context"
	"fmt"
	"time"

	"snake/experiments/metrics"
	"snake/game"
	"snake/gamemaster"
	"snake/learner"
	"snake/render"
	"snake/searcher"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Local runs one agent against a local game master, one tick at a time.
type Local struct {
	name     string
	seed     string
	agent    searcher.Agent
	master   *gamemaster.LocalMaster
	renderer render.Renderer
	tickRate time.Duration
	maxTicks int

	state       *game.State
	getUpdate   gamemaster.UpdateGetter
	gameMetric  metrics.GameMetric
	moveMetrics []metrics.MoveMetric
	err         error
}

// LocalEngine starts a fresh game from cfg for the named agent.
func LocalEngine(name string, agent searcher.Agent, cfg game.Config, options ...Option) (*Local, error) {
	master, err := gamemaster.NewLocalMaster(cfg)
	if err != nil {
		return nil, err
	}
	return newLocal(name, cfg.Seed, agent, master, options), nil
}

// LocalEngineFrom plays from an existing position.
func LocalEngineFrom(name string, agent searcher.Agent, state *game.State, options ...Option) *Local {
	return newLocal(name, "", agent, gamemaster.NewLocalMasterFrom(state), options)
}

func newLocal(name, seed string, agent searcher.Agent, master *gamemaster.LocalMaster, options []Option) *Local {
	if agent == nil {
		panic("engine needs an agent")
	}
	e := &Local{name: name, seed: seed, agent: agent, master: master}
	defaults(e)
	for _, option := range options {
		option(e)
	}
	e.Reset()
	return e
}

// Reset starts a new episode from the initial position.
func (e *Local) Reset() *game.State {
	e.state, e.getUpdate = e.master.Init()
	e.moveMetrics = nil
	e.err = nil
	e.gameMetric = metrics.GameMetric{
		ID:        uuid.NewString(),
		Agent:     e.name,
		Seed:      e.seed,
		Width:     e.state.Width,
		Height:    e.state.Height,
		Length:    len(e.state.Snake),
		StartTime: time.Now(),
	}
	e.renderer.Clear()
	e.renderer.Render(e.state)
	return e.state.Copy()
}

// Step plays a single tick. It returns false once the episode has ended,
// leaving the reason in Termination.
func (e *Local) Step() bool {
	if e.gameMetric.Termination != "" {
		return false
	}
	if e.gameMetric.Ticks >= e.maxTicks {
		return e.finish(MaxTicks)
	}
	if e.state.IsGameOver() {
		return e.finish(Collision)
	}
	if e.state.Cleared() {
		return e.finish(Cleared)
	}

	prev := e.state
	move, ok := e.agent.NextMove(prev.Copy())
	if !ok {
		return e.finish(Trapped)
	}
	if err := e.master.Play(move); err != nil {
		log.Error().Err(err).Msgf("%s played an illegal move", e.name)
		e.err = fmt.Errorf("tick %d: %w", e.gameMetric.Ticks+1, err)
		return e.finish(Illegal)
	}

	_, next := e.getUpdate()
	if next == nil {
		next = e.master.State()
	}
	e.state = next
	e.gameMetric.Ticks++

	if l, ok := e.agent.(learner.Learner); ok {
		l.Observe(prev, move, learner.Reward(prev, next), next)
	}

	moveMetric := metrics.MoveMetric{
		Step:   e.gameMetric.Ticks,
		Move:   game.DirectionName(next.Direction),
		Score:  next.Score,
		Length: len(next.Snake),
	}
	if r, ok := e.agent.(searcher.Reporter); ok {
		moveMetric.SearchMetric = r.Metric()
	}
	e.moveMetrics = append(e.moveMetrics, moveMetric)

	e.renderer.Render(e.state)

	switch {
	case next.IsGameOver():
		return e.finish(Collision)
	case next.Cleared():
		return e.finish(Cleared)
	}
	return true
}

func (e *Local) finish(termination string) bool {
	e.gameMetric.Termination = termination
	e.gameMetric.Score = e.state.Score
	e.gameMetric.Length = len(e.state.Snake)
	e.gameMetric.EndTime = time.Now()
	e.gameMetric.Duration = e.gameMetric.EndTime.Sub(e.gameMetric.StartTime)
	log.Info().Msgf("%s finished after %d ticks with score %d: %s", e.name, e.gameMetric.Ticks, e.gameMetric.Score, termination)
	return false
}

// Run steps until the episode ends. Cancellation is observed between ticks.
func (e *Local) Run(ctx context.Context) (metrics.GameMetric, []metrics.MoveMetric, error) {
	var tick <-chan time.Time
	if e.tickRate > 0 {
		ticker := time.NewTicker(e.tickRate)
		defer ticker.Stop()
		tick = ticker.C
	}

	for e.gameMetric.Termination == "" {
		if tick != nil {
			select {
			case <-ctx.Done():
				e.finish(Cancelled)
				continue
			case <-tick:
			}
		} else if ctx.Err() != nil {
			e.finish(Cancelled)
			continue
		}
		e.Step()
	}
	return e.Result()
}

// State returns a copy of the live state.
func (e *Local) State() *game.State {
	return e.state.Copy()
}

func (e *Local) Termination() string {
	return e.gameMetric.Termination
}

func (e *Local) Result() (metrics.GameMetric, []metrics.MoveMetric, error) {
	return e.gameMetric, e.moveMetrics, e.err
}

var _ Engine = (*Local)(nil)
