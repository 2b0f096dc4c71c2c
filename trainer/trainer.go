package trainer

import (
	"context"
	"time"

	"tdchess/checkpoint"
	"tdchess/evaluator"
	"tdchess/experiments"
	"tdchess/experiments/metrics"
	"tdchess/game"
	"tdchess/meta"
	"tdchess/searcher"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// Checkpointer persists the parameters and optimizer state at an iteration.
type Checkpointer interface {
	Save(iteration int, params evaluator.Parameters, moments *checkpoint.Moments) (string, error)
}

// Benchmarker plays the current evaluator against a baseline.
type Benchmarker interface {
	Run(ctx context.Context, iteration int, seeds []game.Position) (experiments.Tally, []metrics.GameMetric, error)
}

// Sink receives training observations.
type Sink interface {
	WriteScalar(iteration int, name string, value float64) error
	WriteRollout(record metrics.RolloutMetric) error
	WriteGames(records []metrics.GameMetric) error
}

type nopSink struct{}

func (nopSink) WriteScalar(int, string, float64) error   { return nil }
func (nopSink) WriteRollout(metrics.RolloutMetric) error { return nil }
func (nopSink) WriteGames([]metrics.GameMetric) error    { return nil }

// Result describes one completed training iteration.
type Result struct {
	Iteration  int
	Trajectory Trajectory
	Credits    []Credit
	// Gradient is the accumulated gradient before negation.
	Gradient evaluator.Gradients
	Duration time.Duration
}

// Trainer owns the evaluator's parameters for the duration of a run: it is the only
// writer, once per completed rollout.
type Trainer struct {
	eval      evaluator.Evaluator
	selector  *searcher.Selector
	refiner   Refiner
	optimizer *Adam

	lambda          float64
	weighting       Weighting
	leafDepth       int
	learningRate    float64
	drawMargin      float64
	rnd             *rand.Rand
	checkpointEvery int
	checkpoints     Checkpointer
	benchmark       Benchmarker
	sink            Sink
	iteration       int
	moments         *checkpoint.Moments
}

type Option func(t *Trainer)

func WithLambda(lambda float64) Option {
	return func(t *Trainer) {
		if lambda >= 0 && lambda <= 1 {
			t.lambda = lambda
		}
	}
}

// WithLeafRefinement replaces each step's reference position by the leaf of an
// alpha-beta search of the given depth.
func WithLeafRefinement(depth int) Option {
	return func(t *Trainer) {
		if depth > 0 {
			t.leafDepth = depth
		}
	}
}

func WithWeighting(weighting Weighting) Option {
	return func(t *Trainer) {
		t.weighting = weighting
	}
}

func WithLearningRate(lr float64) Option {
	return func(t *Trainer) {
		if lr > 0 {
			t.learningRate = lr
		}
	}
}

func WithDrawMargin(margin float64) Option {
	return func(t *Trainer) {
		if margin >= 0 {
			t.drawMargin = margin
		}
	}
}

func WithRand(rnd *rand.Rand) Option {
	return func(t *Trainer) {
		if rnd != nil {
			t.rnd = rnd
		}
	}
}

// WithCheckpoints saves the parameters every n iterations.
func WithCheckpoints(n int, checkpoints Checkpointer) Option {
	return func(t *Trainer) {
		if n > 0 {
			t.checkpointEvery = n
		}
		t.checkpoints = checkpoints
	}
}

// WithBenchmark runs the benchmark at every checkpoint.
func WithBenchmark(benchmark Benchmarker) Option {
	return func(t *Trainer) {
		t.benchmark = benchmark
	}
}

func WithSink(sink Sink) Option {
	return func(t *Trainer) {
		if sink != nil {
			t.sink = sink
		}
	}
}

// WithStartIteration resumes iteration counting, e.g. after restoring a checkpoint.
func WithStartIteration(iteration int) Option {
	return func(t *Trainer) {
		if iteration >= 0 {
			t.iteration = iteration
		}
	}
}

// WithMoments resumes the optimizer from a checkpoint taken for the same parameters.
func WithMoments(moments *checkpoint.Moments) Option {
	return func(t *Trainer) {
		t.moments = moments
	}
}

func New(eval evaluator.Evaluator, options ...Option) *Trainer {
	t := &Trainer{ // Default values
		eval:            eval,
		lambda:          meta.LAMBDA,
		weighting:       Unweighted,
		learningRate:    meta.LEARNING_RATE,
		drawMargin:      meta.DRAW_MARGIN,
		checkpointEvery: meta.CHECKPOINT_EVERY,
		sink:            nopSink{},
	}
	for _, option := range options {
		option(t)
	}
	if t.rnd == nil {
		t.rnd = rand.New(rand.NewSource(meta.RANDOM_SEED))
	}

	t.selector = searcher.NewSelector(eval,
		searcher.WithRand(t.rnd),
		searcher.WithDrawMargin(t.drawMargin),
		searcher.WithMetrics(metrics.NewCollector()),
	)
	if t.leafDepth > 0 {
		t.refiner = searcher.NewAlphaBeta(eval, searcher.WithDepth(t.leafDepth))
	}
	t.optimizer = NewAdam(eval.Parameters(), t.learningRate)
	if t.moments != nil {
		t.optimizer.Restore(t.moments)
	}
	return t
}

// Iteration is the number of completed training iterations.
func (t *Trainer) Iteration() int {
	return t.iteration
}

// Iterate runs one rollout from seed and applies a single optimizer step.
func (t *Trainer) Iterate(seed game.Position) (Result, error) {
	start := time.Now()
	traj, err := Rollout(seed, t.selector)
	if err != nil {
		return Result{}, err
	}
	credits := AssignCredit(traj, t.lambda, t.refiner)
	grad := AccumulateGradients(t.eval, credits, t.weighting)

	// The accumulated sum is an ascent direction; the optimizer descends, so it gets the negation.
	t.optimizer.Step(t.eval.Parameters(), grad.Negate())
	t.iteration++

	return Result{
		Iteration:  t.iteration,
		Trajectory: traj,
		Credits:    credits,
		Gradient:   grad,
		Duration:   time.Since(start),
	}, nil
}

// Run trains on every seed once, in order. Terminal seeds are skipped. Cancellation is
// honoured between iterations, never inside one.
func (t *Trainer) Run(ctx context.Context, seeds []game.Position) error {
	log.Info().Msgf("training %s on %d seeds from iteration %d", t.eval.Name(), len(seeds), t.iteration)
	for _, seed := range seeds {
		if err := ctx.Err(); err != nil {
			return errors.Wrapf(err, "stopped after iteration %d", t.iteration)
		}

		res, err := t.Iterate(seed)
		if errors.Is(err, ErrTerminalSeed) {
			log.Warn().Err(err).Msg("skipping seed")
			continue
		}
		if err != nil {
			return errors.Wrapf(err, "iteration %d failed", t.iteration+1)
		}

		if err := t.record(res); err != nil {
			return err
		}
		if t.iteration%t.checkpointEvery == 0 {
			if err := t.checkpoint(ctx, seeds); err != nil {
				return err
			}
		}
	}
	log.Info().Msgf("training finished after iteration %d", t.iteration)
	return nil
}

func (t *Trainer) record(res Result) error {
	traj := res.Trajectory
	scores := traj.Scores()
	record := metrics.RolloutMetric{
		Iteration:    res.Iteration,
		Seed:         traj.Seed.FEN(),
		Plies:        traj.Len(),
		Termination:  traj.Termination.String(),
		FinalScore:   scores[len(scores)-1],
		GradientNorm: res.Gradient.Norm(),
		Duration:     res.Duration,
		Evaluations:  traj.Evaluations,
	}
	log.Debug().
		Int("iteration", record.Iteration).
		Int("plies", record.Plies).
		Str("termination", record.Termination).
		Float64("gradient_norm", record.GradientNorm).
		Dur("duration", record.Duration).
		Msg("iteration complete")
	return errors.Wrap(t.sink.WriteRollout(record), "failed to record rollout")
}

func (t *Trainer) checkpoint(ctx context.Context, seeds []game.Position) error {
	if t.checkpoints != nil {
		path, err := t.checkpoints.Save(t.iteration, t.eval.Parameters(), t.optimizer.Moments())
		if err != nil {
			return errors.Wrapf(err, "checkpoint at iteration %d failed", t.iteration)
		}
		log.Info().Msgf("saved checkpoint %s", path)
	}
	if t.benchmark == nil {
		return nil
	}

	tally, games, err := t.benchmark.Run(ctx, t.iteration, seeds)
	if err != nil {
		return errors.Wrapf(err, "benchmark at iteration %d failed", t.iteration)
	}
	for _, scalar := range []struct {
		name  string
		value int
	}{{"wins", tally.Wins}, {"draws", tally.Draws}, {"losses", tally.Losses}} {
		if err := t.sink.WriteScalar(t.iteration, scalar.name, float64(scalar.value)); err != nil {
			return errors.Wrap(err, "failed to record benchmark")
		}
	}
	return errors.Wrap(t.sink.WriteGames(games), "failed to record benchmark games")
}
