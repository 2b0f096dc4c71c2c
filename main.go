package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"tdchess/checkpoint"
	"tdchess/config"
	"tdchess/dataset"
	"tdchess/evaluator"
	"tdchess/experiments"
	"tdchess/experiments/metrics"
	"tdchess/meta"
	"tdchess/searcher"
	"tdchess/searcher/agent"
	"tdchess/trainer"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// restoreLatest asks for the session's latest checkpoint.
const restoreLatest = "latest"

func main() {
	cfg := config.Default()
	var (
		configPath = flag.String("config", "", "YAML file overlaid on the defaults")
		logLevel   = flag.String("log-level", "info", "trace, debug, info, warn or error")
		workDir    = flag.String("d", cfg.WorkDir, "working directory holding datasets/ and learnt/")
		session    = flag.String("n", meta.SESSION, "session name")
		model      = flag.String("m", cfg.Model, "evaluator architecture: mlp or cnn")
		leaf       = flag.Bool("l", cfg.Leaf, "refine credit targets with an alpha-beta search")
		lambda     = flag.Float64("lambda", cfg.Lambda, "TD(λ) decay in [0, 1]")
		depth      = flag.Int("depth", cfg.Depth, "leaf refinement depth in plies")
		lr         = flag.Float64("lr", cfg.LearningRate, "Adam learning rate")
		every      = flag.Int("checkpoint-every", cfg.CheckpointEvery, "iterations between checkpoints and benchmarks")
		games      = flag.Int("games", cfg.BenchmarkGames, "benchmark games per checkpoint")
		workers    = flag.Int("workers", cfg.BenchmarkWorkers, "concurrent benchmark games")
		baseline   = flag.String("baseline", cfg.Baseline, "benchmark opponent: random or material")
		weighting  = flag.String("weighting", cfg.Weighting, "gradient weighting: unweighted or td-lambda")
		margin     = flag.Float64("draw-margin", cfg.DrawMargin, "scores within this band count as draws")
		seed       = flag.Uint64("seed", cfg.Seed, "random seed")
		restore    = flag.String("restore", cfg.Restore, "checkpoint to resume from, or \"latest\"")
	)
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid log level")
	}
	zerolog.SetGlobalLevel(level)

	if *configPath != "" {
		cfg, err = cfg.Load(*configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load configuration")
		}
	}

	// Explicit flags win over the configuration file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "d":
			cfg.WorkDir = *workDir
		case "n":
			cfg.Session = *session
		case "m":
			cfg.Model = *model
		case "l":
			cfg.Leaf = *leaf
		case "lambda":
			cfg.Lambda = *lambda
		case "depth":
			cfg.Depth = *depth
		case "lr":
			cfg.LearningRate = *lr
		case "checkpoint-every":
			cfg.CheckpointEvery = *every
		case "games":
			cfg.BenchmarkGames = *games
		case "workers":
			cfg.BenchmarkWorkers = *workers
		case "baseline":
			cfg.Baseline = *baseline
		case "weighting":
			cfg.Weighting = *weighting
		case "draw-margin":
			cfg.DrawMargin = *margin
		case "seed":
			cfg.Seed = *seed
		case "restore":
			cfg.Restore = *restore
		}
	})

	// The command line always names its session, leaf mode included.
	if cfg.Session == "" {
		cfg.Session = *session
	}

	if err := cfg.Validate(); err != nil {
		if errors.Is(err, config.ErrUnknownModel) {
			fmt.Fprintln(os.Stderr, "Model not found")
			os.Exit(2)
		}
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		if errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("training interrupted")
			return
		}
		log.Fatal().Err(err).Msg("training failed")
	}
}

func run(ctx context.Context, cfg config.Config) error {
	paths, err := cfg.EnsureDirs()
	if err != nil {
		return err
	}
	log.Info().
		Str("model", cfg.Model).
		Bool("leaf", cfg.Leaf).
		Float64("lambda", cfg.Lambda).
		Str("weighting", cfg.Weighting).
		Str("session", paths.Session).
		Msg("starting training")

	seeds, _, err := dataset.Load(paths.Seeds)
	if err != nil {
		return err
	}

	rnd := rand.New(rand.NewSource(cfg.Seed))
	eval, err := evaluator.New(cfg.Model, rnd)
	if err != nil {
		return err
	}
	log.Info().Msgf("%s evaluator with %d parameters", eval.Name(), eval.Parameters().Count())

	store := checkpoint.NewStore(paths.Session)
	start := 0
	var moments *checkpoint.Moments
	if cfg.Restore != "" {
		path := cfg.Restore
		if path == restoreLatest {
			path = store.Latest()
		}
		moments = &checkpoint.Moments{}
		start, err = checkpoint.Restore(path, eval.Parameters(), moments)
		if err != nil {
			return err
		}
		log.Info().Msgf("restored %s at iteration %d (optimizer step %d)", filepath.Base(path), start, moments.Step)
	}

	writer, err := metrics.NewWriter(paths.Session)
	if err != nil {
		return err
	}
	if err := writer.WriteSetup(cfg); err != nil {
		return err
	}

	weighting, err := trainer.ParseWeighting(cfg.Weighting)
	if err != nil {
		return err
	}

	trained := func(rnd *rand.Rand) agent.Agent {
		selector := searcher.NewSelector(eval, searcher.WithRand(rnd), searcher.WithDrawMargin(cfg.DrawMargin))
		return agent.NewEvaluationAgent(cfg.Model, selector)
	}
	opponent := func(rnd *rand.Rand) agent.Agent {
		a, err := agent.NewBaseline(cfg.Baseline, rnd)
		if err != nil {
			panic(err) // validated above
		}
		return a
	}
	benchmark := experiments.NewBenchmark(trained, opponent,
		experiments.WithGames(cfg.BenchmarkGames),
		experiments.WithWorkers(cfg.BenchmarkWorkers),
		experiments.WithSeed(cfg.Seed),
	)

	options := []trainer.Option{
		trainer.WithLambda(cfg.Lambda),
		trainer.WithWeighting(weighting),
		trainer.WithLearningRate(cfg.LearningRate),
		trainer.WithDrawMargin(cfg.DrawMargin),
		trainer.WithRand(rnd),
		trainer.WithCheckpoints(cfg.CheckpointEvery, store),
		trainer.WithBenchmark(benchmark),
		trainer.WithSink(writer),
		trainer.WithStartIteration(start),
	}
	if moments != nil {
		options = append(options, trainer.WithMoments(moments))
	}
	if cfg.Leaf {
		options = append(options, trainer.WithLeafRefinement(cfg.Depth))
	}

	return trainer.New(eval, options...).Run(ctx, seeds)
}
