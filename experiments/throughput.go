package experiments

import (
	"time"

	"snake/experiments/metrics"
	"snake/meta"
)

var parallelGoroutines = []int{1, 2, 4, 8, 16, 32}

// Throughput runs MCTS with a fixed time budget per decision and an
// increasing number of goroutines. Rollouts per second come out as
// Summary.LeavesPerSec.
func Throughput() Experiment {
	const duration = 10 * time.Millisecond
	configs := []metrics.AgentConfig{}
	for i, goroutines := range parallelGoroutines {
		configs = append(configs, metrics.AgentConfig{
			ID:         i + 1,
			Kind:       metrics.KindMCTS,
			Goroutines: goroutines,
			Duration:   duration,
			Cutoff:     meta.ROLLOUT_CUTOFF,
		})
	}
	return Experiment{
		Name:     "throughput",
		Width:    meta.BOARD_SIZE,
		Height:   meta.BOARD_SIZE,
		Seeds:    Seeds(1),
		Configs:  configs,
		MaxTicks: 200,
	}
}

// CutoffSweep compares rollout lengths at a fixed episode budget.
func CutoffSweep() Experiment {
	configs := []metrics.AgentConfig{}
	for i, cutoff := range []int{5, 10, 20, 50, 100} {
		configs = append(configs, metrics.AgentConfig{
			ID:         i + 1,
			Kind:       metrics.KindMCTS,
			Goroutines: 8,
			Episodes:   meta.EPISODES,
			Cutoff:     cutoff,
		})
	}
	return Experiment{
		Name:     "cutoff",
		Width:    meta.BOARD_SIZE,
		Height:   meta.BOARD_SIZE,
		Seeds:    Seeds(NumGames),
		Configs:  configs,
		MaxTicks: meta.MAX_TICKS,
	}
}

// Presets lists the named experiments the command line can run.
func Presets() map[string]func() Experiment {
	return map[string]func() Experiment{
		"compare":    CompareAgents,
		"depth":      DepthSweep,
		"path_cache": PathCacheExperiment,
		"throughput": Throughput,
		"cutoff":     CutoffSweep,
	}
}
