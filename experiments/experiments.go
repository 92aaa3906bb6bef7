package experiments

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"snake/engine"
	"snake/experiments/metrics"
	"snake/game"
	"snake/learner"
	"snake/meta"
	"snake/searcher"
	"snake/store"

	"github.com/rs/zerolog/log"
)

const (
	NumGames   = 10 // Seeds per experiment
	TimeBudget = 10 * time.Millisecond
)

// Experiment plays every agent config on the same list of seeded boards.
type Experiment struct {
	Name     string
	Width    int
	Height   int
	Seeds    []string
	Configs  []metrics.AgentConfig
	MaxTicks int

	OutDir string       // Results are written under OutDir/Name when set
	Store  *store.Store // Optional, receives every game result and learned model
}

// Summary aggregates the games one config played.
type Summary struct {
	Config        metrics.AgentConfig
	Games         int
	MeanScore     float64
	MaxScore      int
	MeanTicks     float64
	MeanDecision  time.Duration
	Terminations  map[string]int
	LeavesPerSec  float64
	CacheHitRatio float64
}

// Seeds returns n seeds "1".."n".
func Seeds(n int) []string {
	seeds := make([]string, n)
	for i := range seeds {
		seeds[i] = strconv.Itoa(i + 1)
	}
	return seeds
}

// CompareAgents pits the greedy, minimax, MCTS and Q-learning agents against
// each other on identical boards.
func CompareAgents() Experiment {
	return Experiment{
		Name:   "compare",
		Width:  meta.BOARD_SIZE,
		Height: meta.BOARD_SIZE,
		Seeds:  Seeds(NumGames),
		Configs: []metrics.AgentConfig{
			{ID: 1, Kind: metrics.KindGreedy},
			{ID: 2, Kind: metrics.KindMinimax, Depth: 4, Memory: meta.MEMORY},
			{ID: 3, Kind: metrics.KindMCTS, Goroutines: 4, Duration: TimeBudget, Cutoff: meta.ROLLOUT_CUTOFF},
			{ID: 4, Kind: metrics.KindQLearning, Model: learner.DefaultModel},
		},
		MaxTicks: meta.MAX_TICKS,
	}
}

// DepthSweep measures how lookahead depth trades decision time for score.
func DepthSweep() Experiment {
	configs := []metrics.AgentConfig{}
	for depth := 1; depth <= 6; depth++ {
		configs = append(configs, metrics.AgentConfig{ID: depth, Kind: metrics.KindMinimax, Depth: depth, Memory: meta.MEMORY})
	}
	return Experiment{
		Name:     "depth",
		Width:    meta.BOARD_SIZE,
		Height:   meta.BOARD_SIZE,
		Seeds:    Seeds(NumGames),
		Configs:  configs,
		MaxTicks: meta.MAX_TICKS,
	}
}

// PathCacheExperiment compares the head and food keyed path cache with the
// exact one.
func PathCacheExperiment() Experiment {
	return Experiment{
		Name:   "path_cache",
		Width:  meta.BOARD_SIZE,
		Height: meta.BOARD_SIZE,
		Seeds:  Seeds(NumGames),
		Configs: []metrics.AgentConfig{
			{ID: 1, Kind: metrics.KindMinimax, Depth: 4, Memory: meta.MEMORY},
			{ID: 2, Kind: metrics.KindMinimax, Depth: 4, Memory: meta.MEMORY, ExactCache: true},
		},
		MaxTicks: meta.MAX_TICKS,
	}
}

func (x Experiment) validate() error {
	if x.Name == "" {
		return errors.New("experiment needs a name")
	}
	if len(x.Seeds) == 0 || len(x.Configs) == 0 {
		return fmt.Errorf("experiment %s needs seeds and configs", x.Name)
	}
	seen := map[int]bool{}
	for _, config := range x.Configs {
		if seen[config.ID] {
			return fmt.Errorf("experiment %s has duplicate config id %d", x.Name, config.ID)
		}
		seen[config.ID] = true
	}
	return nil
}

// Run plays the experiment and writes its records. It stops between games
// when ctx is cancelled.
func Run(ctx context.Context, x Experiment) ([]Summary, error) {
	if err := x.validate(); err != nil {
		return nil, err
	}
	started := time.Now()
	gameRecords := []metrics.GameRecord{}
	moveRecords := []metrics.MoveRecord{}

	log.Info().Msgf("starting %s experiment...", x.Name)

	for ci, config := range x.Configs {
		agent, err := NewAgent(config, x.Store)
		if err != nil {
			return nil, err
		}

		log.Info().Msgf("starting config %d of %d: %+v", ci+1, len(x.Configs), config)

		for round, seed := range x.Seeds {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			if m, ok := agent.(*searcher.Minimax); ok {
				m.Reset()
			}

			cfg := game.Config{Width: x.Width, Height: x.Height, Seed: seed, InitialLength: 3}
			options := []engine.Option{}
			if x.MaxTicks > 0 {
				options = append(options, engine.WithMaxTicks(x.MaxTicks))
			}
			e, err := engine.LocalEngine(config.Name(), agent, cfg, options...)
			if err != nil {
				return nil, fmt.Errorf("failed to start game: %w", err)
			}

			gameMetric, moveMetrics, err := e.Run(ctx)
			if err != nil {
				return nil, fmt.Errorf("config %d seed %s: %w", config.ID, seed, err)
			}

			gameRecords = append(gameRecords, metrics.GameRecord{
				Config:     config.ID,
				Round:      round,
				GameMetric: gameMetric,
			})
			for _, mm := range moveMetrics {
				moveRecords = append(moveRecords, metrics.MoveRecord{
					Game:       gameMetric.ID,
					MoveMetric: mm,
				})
			}

			if x.Store != nil {
				if err := x.Store.SaveResult(gameMetric); err != nil {
					return nil, err
				}
			}
			log.Info().Msgf("completed config %d game %d of %d with score %d", config.ID, round+1, len(x.Seeds), gameMetric.Score)
		}

		if q, ok := agent.(*learner.QLearning); ok && x.Store != nil {
			if err := q.Save(x.Store, config.Model); err != nil {
				return nil, err
			}
		}
		log.Info().Msgf("completed config %d of %d", ci+1, len(x.Configs))
	}

	log.Info().Msgf("completed %s experiment", x.Name)

	summaries := Summarize(x.Configs, gameRecords, moveRecords)
	for _, s := range summaries {
		log.Info().Msgf("%s: mean score %.2f, max %d, mean ticks %.1f, mean decision %s",
			s.Config.Name(), s.MeanScore, s.MaxScore, s.MeanTicks, s.MeanDecision)
	}

	if x.OutDir != "" {
		setup := metrics.Setup{Name: x.Name, Width: x.Width, Height: x.Height, Seeds: x.Seeds, Configs: x.Configs, Started: started}
		if err := write(x.OutDir, setup, gameRecords, moveRecords); err != nil {
			return summaries, err
		}
	}
	return summaries, nil
}

func write(dir string, setup metrics.Setup, gameRecords []metrics.GameRecord, moveRecords []metrics.MoveRecord) error {
	writer, err := metrics.NewWriter(dir, setup.Name)
	if err != nil {
		return fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteSetup(setup); err != nil {
		return err
	}
	if err := writer.WriteAgentConfigs(setup.Configs); err != nil {
		return fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(gameRecords); err != nil {
		return fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(moveRecords); err != nil {
		return err
	}
	log.Info().Msgf("stored move records in %s", writer.Dir())
	return nil
}

// NewAgent builds the agent a config describes. A Q-learning model is loaded
// from st when one is stored under its name.
func NewAgent(config metrics.AgentConfig, st *store.Store) (searcher.Agent, error) {
	switch config.Kind {
	case metrics.KindGreedy:
		return searcher.NewGreedy(searchOptions(config)...), nil
	case metrics.KindMinimax:
		return searcher.NewMinimax(searchOptions(config)...), nil
	case metrics.KindMCTS:
		if config.Episodes <= 0 && config.Duration <= 0 {
			return nil, fmt.Errorf("mcts config %d needs episodes or a duration", config.ID)
		}
		return searcher.NewMCTS(searchOptions(config)...), nil
	case metrics.KindQLearning:
		q := learner.NewQLearning(learner.WithMetrics())
		if st != nil && config.Model != "" {
			err := q.Load(st, config.Model)
			if err != nil && !errors.Is(err, learner.ErrModelNotFound) {
				return nil, err
			}
		}
		return q, nil
	default:
		return nil, fmt.Errorf("unknown agent kind %q", config.Kind)
	}
}

func searchOptions(config metrics.AgentConfig) []searcher.Option {
	options := []searcher.Option{}

	if config.Depth > 0 {
		options = append(options, searcher.WithMaxDepth(config.Depth))
	}
	if config.Kind == metrics.KindMinimax {
		options = append(options, searcher.WithMemory(config.Memory))
	}
	if config.ExactCache {
		options = append(options, searcher.WithExactPathCache())
	}
	if config.Goroutines > 0 {
		options = append(options, searcher.WithGoroutines(config.Goroutines))
	}
	if config.Episodes > 0 {
		options = append(options, searcher.WithEpisodes(config.Episodes))
	}
	if config.Duration > 0 {
		options = append(options, searcher.WithDuration(config.Duration))
	}
	if config.Cutoff > 0 {
		options = append(options, searcher.WithCutoff(config.Cutoff))
	}
	if config.Evaluate != nil {
		options = append(options, searcher.WithEvaluationFn(config.Evaluate))
	}

	options = append(options, searcher.WithMetrics())
	return options
}

// Summarize aggregates records per config, in config order.
func Summarize(configs []metrics.AgentConfig, games []metrics.GameRecord, moves []metrics.MoveRecord) []Summary {
	byGame := map[string]int{}
	summaries := make([]Summary, len(configs))
	index := map[int]int{}
	for i, config := range configs {
		summaries[i] = Summary{Config: config, Terminations: map[string]int{}}
		index[config.ID] = i
	}

	for _, g := range games {
		i, ok := index[g.Config]
		if !ok {
			continue
		}
		byGame[g.ID] = i
		s := &summaries[i]
		s.Games++
		s.MeanScore += float64(g.Score)
		s.MeanTicks += float64(g.Ticks)
		s.MaxScore = max(s.MaxScore, g.Score)
		s.Terminations[g.Termination]++
	}

	decisions := make([]int, len(configs))
	searchTime := make([]time.Duration, len(configs))
	leaves := make([]int, len(configs))
	hits := make([]int, len(configs))
	for _, m := range moves {
		i, ok := byGame[m.Game]
		if !ok {
			continue
		}
		decisions[i]++
		searchTime[i] += m.Duration
		leaves[i] += m.Leaves
		hits[i] += m.CacheHits
	}

	for i := range summaries {
		s := &summaries[i]
		if s.Games > 0 {
			s.MeanScore /= float64(s.Games)
			s.MeanTicks /= float64(s.Games)
		}
		if decisions[i] > 0 {
			s.MeanDecision = searchTime[i] / time.Duration(decisions[i])
		}
		if searchTime[i] > 0 {
			s.LeavesPerSec = float64(leaves[i]) / searchTime[i].Seconds()
		}
		// Every leaf evaluation looks up one path
		if leaves[i] > 0 {
			s.CacheHitRatio = float64(hits[i]) / float64(leaves[i])
		}
	}
	return summaries
}
