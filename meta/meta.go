// meta/meta.go
package meta

// WORK_DIR is the default root holding datasets/ and learnt/.
const WORK_DIR = "../data"

// SESSION is the default session name; leaf refinement appends LEAF_SUFFIX.
const SESSION = "RL"

const LEAF_SUFFIX = "_TD_LEAF"

// LAMBDA is the default TD(λ) decay.
const LAMBDA = 0.7

// SEARCH_DEPTH is the default ply depth of leaf refinement.
const SEARCH_DEPTH = 4

// LEARNING_RATE is the default Adam step size.
const LEARNING_RATE = 0.001

// CHECKPOINT_EVERY defines how many iterations pass between checkpoints and benchmarks.
const CHECKPOINT_EVERY = 1000

// BENCHMARK_GAMES defines the number of seeds sampled for each benchmark.
const BENCHMARK_GAMES = 100

// DRAW_MARGIN defines the band around zero classified as a draw.
const DRAW_MARGIN = 0.0

// RANDOM_SEED seeds every RNG that is not given an explicit seed.
const RANDOM_SEED = 1

// MAX_PLIES caps benchmark games, which the seventy-five-move rule and fivefold
// repetition already bound.
const MAX_PLIES = 2000
