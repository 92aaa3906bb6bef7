package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"snake/engine"
	"snake/experiments"
	"snake/experiments/metrics"
	"snake/game"
	"snake/learner"
	"snake/meta"
	"snake/render"
	"snake/store"
	"snake/ui"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const usage = `usage: snake <command> [flags]

commands:
  play        play games with one agent and print the results
  watch       watch one agent play in the terminal
  experiment  compare agent configurations on identical boards
  top         list the best stored results
`

type agentFlags struct {
	kind       string
	depth      int
	memory     int
	exactCache bool
	goroutines int
	episodes   int
	duration   time.Duration
	cutoff     int
	model      string
}

func (a *agentFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&a.kind, "agent", metrics.KindMinimax, "agent kind: greedy, minimax, mcts or qlearning")
	fs.IntVar(&a.depth, "depth", meta.MAX_DEPTH, "minimax depth cap")
	fs.IntVar(&a.memory, "memory", meta.MEMORY, "recent moves the minimax agent avoids")
	fs.BoolVar(&a.exactCache, "exact-cache", false, "minimax: key cached paths by the whole board")
	fs.IntVar(&a.goroutines, "goroutines", 4, "mcts worker goroutines")
	fs.IntVar(&a.episodes, "episodes", meta.EPISODES, "mcts rollouts per move, ignored when -budget is set")
	fs.DurationVar(&a.duration, "budget", 0, "mcts time per move")
	fs.IntVar(&a.cutoff, "cutoff", meta.ROLLOUT_CUTOFF, "mcts rollout length")
	fs.StringVar(&a.model, "model", learner.DefaultModel, "q-table name in the database")
}

func (a *agentFlags) config() metrics.AgentConfig {
	c := metrics.AgentConfig{ID: 1, Kind: a.kind}
	switch a.kind {
	case metrics.KindMinimax:
		c.Depth, c.Memory, c.ExactCache = a.depth, a.memory, a.exactCache
	case metrics.KindMCTS:
		c.Goroutines, c.Cutoff = a.goroutines, a.cutoff
		if a.duration > 0 {
			c.Duration = a.duration
		} else {
			c.Episodes = a.episodes
		}
	case metrics.KindQLearning:
		c.Model = a.model
	}
	return c
}

type boardFlags struct {
	size int
	seed string
}

func (b *boardFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&b.size, "size", meta.BOARD_SIZE, "board width and height")
	fs.StringVar(&b.seed, "seed", meta.SEED, "food placement seed")
}

func (b *boardFlags) config() game.Config {
	return game.Config{Width: b.size, Height: b.size, Seed: b.seed, InitialLength: 3}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "play":
		err = play(ctx, args)
	case "watch":
		err = watch(args)
	case "experiment":
		err = experiment(ctx, args)
	case "top":
		err = top(args)
	case "-h", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", cmd, usage)
		os.Exit(2)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("snake failed")
	}
}

func newFlagSet(name string, verbose *bool) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	fs.BoolVar(verbose, "v", false, "debug logging")
	return fs
}

func setVerbose(verbose bool) {
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
}

func openStore(path string) (*store.Store, error) {
	if path == "" {
		return nil, nil
	}
	return store.Open(path)
}

func play(ctx context.Context, args []string) error {
	var verbose, show bool
	var games, maxTicks int
	var tickRate time.Duration
	var dbPath string
	agent, board := agentFlags{}, boardFlags{}

	fs := newFlagSet("play", &verbose)
	agent.register(fs)
	board.register(fs)
	fs.IntVar(&games, "games", 1, "games to play, the seed of game i is <seed>-i after the first")
	fs.IntVar(&maxTicks, "max-ticks", meta.MAX_TICKS, "stop a game after this many ticks")
	fs.BoolVar(&show, "render", false, "draw every tick to stdout")
	fs.DurationVar(&tickRate, "tick", 0, "minimum time per tick")
	fs.StringVar(&dbPath, "db", "", "sqlite database for results and models")
	fs.Parse(args)
	setVerbose(verbose)

	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	config := agent.config()
	a, err := experiments.NewAgent(config, st)
	if err != nil {
		return err
	}

	options := []engine.Option{engine.WithMaxTicks(maxTicks), engine.WithTickRate(tickRate)}
	if show {
		options = append(options, engine.WithRenderer(render.NewTerminal(os.Stdout)))
	}

	for i := 0; i < games; i++ {
		cfg := board.config()
		if i > 0 {
			cfg.Seed = fmt.Sprintf("%s-%d", board.seed, i)
		}
		e, err := engine.LocalEngine(config.Kind, a, cfg, options...)
		if err != nil {
			return err
		}
		gameMetric, _, err := e.Run(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("game %s seed %s: score %d, length %d, %d ticks, %s\n",
			gameMetric.ID, gameMetric.Seed, gameMetric.Score, gameMetric.Length, gameMetric.Ticks, gameMetric.Termination)

		if st != nil {
			if err := st.SaveResult(gameMetric); err != nil {
				return err
			}
		}
		if gameMetric.Termination == engine.Cancelled {
			break
		}
	}

	if q, ok := a.(*learner.QLearning); ok && st != nil {
		return q.Save(st, config.Model)
	}
	return nil
}

func watch(args []string) error {
	var verbose bool
	var interval time.Duration
	var maxTicks int
	var dbPath string
	agent, board := agentFlags{}, boardFlags{}

	fs := newFlagSet("watch", &verbose)
	agent.register(fs)
	board.register(fs)
	fs.DurationVar(&interval, "tick", 100*time.Millisecond, "time per tick")
	fs.IntVar(&maxTicks, "max-ticks", meta.MAX_TICKS, "stop the game after this many ticks")
	fs.StringVar(&dbPath, "db", "", "sqlite database to load a q-table from")
	fs.Parse(args)

	// Logs would tear the full screen view
	zerolog.SetGlobalLevel(zerolog.Disabled)

	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	config := agent.config()
	a, err := experiments.NewAgent(config, st)
	if err != nil {
		return err
	}
	if q, ok := a.(*learner.QLearning); ok {
		q.Greedy()
	}

	e, err := engine.LocalEngine(config.Kind, a, board.config(), engine.WithMaxTicks(maxTicks))
	if err != nil {
		return err
	}
	return ui.Watch(e, fmt.Sprintf("%s on %dx%d, seed %s", config.Kind, board.size, board.size, board.seed), interval)
}

func experiment(ctx context.Context, args []string) error {
	var verbose bool
	var name, outDir, dbPath string
	var games int

	presets := experiments.Presets()
	names := make([]string, 0, len(presets))
	for n := range presets {
		names = append(names, n)
	}
	sort.Strings(names)

	fs := newFlagSet("experiment", &verbose)
	fs.StringVar(&name, "name", "compare", "experiment: "+strings.Join(names, ", "))
	fs.StringVar(&outDir, "out", "results", "directory for experiment records")
	fs.StringVar(&dbPath, "db", "", "sqlite database for results and models")
	fs.IntVar(&games, "games", 0, "override the number of seeds")
	fs.Parse(args)
	setVerbose(verbose)

	preset, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown experiment %q", name)
	}
	x := preset()
	x.OutDir = outDir
	if games > 0 {
		x.Seeds = experiments.Seeds(games)
	}

	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
		x.Store = st
	}

	summaries, err := experiments.Run(ctx, x)
	if errors.Is(err, context.Canceled) {
		log.Warn().Msg("experiment interrupted")
		return nil
	}
	if err != nil {
		return err
	}
	for _, s := range summaries {
		fmt.Printf("%-14s games %3d  mean score %6.2f  max %3d  mean ticks %7.1f  decision %s\n",
			s.Config.Name(), s.Games, s.MeanScore, s.MaxScore, s.MeanTicks, s.MeanDecision)
	}
	return nil
}

func top(args []string) error {
	var verbose bool
	var dbPath string
	var limit int

	fs := newFlagSet("top", &verbose)
	fs.StringVar(&dbPath, "db", "snake.db", "sqlite database")
	fs.IntVar(&limit, "n", 10, "number of results")
	fs.Parse(args)
	setVerbose(verbose)

	st, err := store.Open(dbPath)
	if err != nil {
		return err
	}
	defer st.Close()

	results, err := st.TopResults(limit)
	if err != nil {
		return err
	}
	for i, r := range results {
		fmt.Printf("%2d. %-10s score %3d  ticks %5d  seed %-6s %dx%d  %s\n",
			i+1, r.Agent, r.Score, r.Ticks, r.Seed, r.Width, r.Height, r.Termination)
	}
	return nil
}
