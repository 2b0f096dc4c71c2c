// Package experiments measures a trained evaluator against baseline opponents.
package experiments

import (
	"context"
	"runtime"

	"tdchess/engine"
	"tdchess/experiments/metrics"
	"tdchess/game"
	"tdchess/meta"
	"tdchess/searcher/agent"
	"tdchess/utils"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Tally counts game outcomes from the trained agent's side.
type Tally struct {
	Wins   int
	Draws  int
	Losses int
}

func (t Tally) Total() int {
	return t.Wins + t.Draws + t.Losses
}

// AgentFactory builds a fresh agent for one game. Each game gets its own RNG, so agents
// never share mutable state across goroutines.
type AgentFactory func(rnd *rand.Rand) agent.Agent

type Benchmark struct {
	trained  AgentFactory
	baseline AgentFactory
	games    int
	workers  int
	seed     uint64
}

type Option func(b *Benchmark)

func WithGames(games int) Option {
	return func(b *Benchmark) {
		if games > 0 {
			b.games = games
		}
	}
}

func WithWorkers(workers int) Option {
	return func(b *Benchmark) {
		if workers > 0 {
			b.workers = workers
		}
	}
}

func WithSeed(seed uint64) Option {
	return func(b *Benchmark) {
		b.seed = seed
	}
}

func NewBenchmark(trained, baseline AgentFactory, options ...Option) *Benchmark {
	b := &Benchmark{ // Default values
		trained:  trained,
		baseline: baseline,
		games:    meta.BENCHMARK_GAMES,
		workers:  runtime.GOMAXPROCS(0),
		seed:     meta.RANDOM_SEED,
	}
	for _, option := range options {
		option(b)
	}
	return b
}

// Run plays the trained agent against the baseline from a random sample of seeds,
// alternating colours. Terminal seeds are skipped.
func (b *Benchmark) Run(ctx context.Context, iteration int, seeds []game.Position) (Tally, []metrics.GameMetric, error) {
	rnd := rand.New(rand.NewSource(b.seed + uint64(iteration)))
	sampled := utils.Sample(rnd, seeds, b.games)
	records := make([]*metrics.GameMetric, len(sampled))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.workers)
	for i, seed := range sampled {
		i, seed := i, seed
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if game.NewBoard(seed).IsGameOver() {
				return nil
			}
			gameRnd := rand.New(rand.NewSource(b.seed ^ uint64(iteration)<<20 ^ uint64(i)))
			trained, baseline := b.trained(gameRnd), b.baseline(gameRnd)
			trainedSide := game.White
			white, black := trained, baseline
			if i%2 == 1 {
				trainedSide = game.Black
				white, black = baseline, trained
			}

			result := engine.Play(white, black, seed)
			records[i] = &metrics.GameMetric{
				Iteration:   iteration,
				Seed:        seed.FEN(),
				TrainedSide: trainedSide.String(),
				Outcome:     outcome(result.Winner, trainedSide),
				Termination: result.Termination.String(),
				Plies:       result.Plies,
				Duration:    result.Duration,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Tally{}, nil, errors.Wrap(err, "benchmark interrupted")
	}

	var tally Tally
	var games []metrics.GameMetric
	for _, record := range records {
		if record == nil {
			continue
		}
		switch record.Outcome {
		case "win":
			tally.Wins++
		case "draw":
			tally.Draws++
		default:
			tally.Losses++
		}
		games = append(games, *record)
	}
	log.Info().Msgf("benchmark at iteration %d: %d wins, %d draws, %d losses", iteration, tally.Wins, tally.Draws, tally.Losses)
	return tally, games, nil
}

func outcome(winner, side game.Color) string {
	switch winner {
	case side:
		return "win"
	case game.NoColor:
		return "draw"
	}
	return "loss"
}
