// meta/meta.go
package meta

// BOARD_SIZE defines the default board width and height in cells.
const BOARD_SIZE = 20

// SEED defines the default food placement seed.
const SEED = "42"

// MAX_DEPTH caps the minimax lookahead depth.
const MAX_DEPTH = 10

// MAX_TICKS stops an episode that never ends on its own.
const MAX_TICKS = 5000

// MEMORY defines how many recently chosen moves the minimax agent remembers.
const MEMORY = 5

// ROLLOUT_CUTOFF caps the length of an MCTS rollout in ticks.
const ROLLOUT_CUTOFF = 20

// EPISODES defines the default MCTS rollouts per decision.
const EPISODES = 300
