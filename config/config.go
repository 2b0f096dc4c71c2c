// Package config holds the explicit configuration of a training run.
package config

import (
	"math"
	"os"
	"path/filepath"
	"runtime"

	"tdchess/evaluator"
	"tdchess/meta"
	"tdchess/searcher/agent"
	"tdchess/trainer"
	"tdchess/utils"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

var ErrUnknownModel = evaluator.ErrUnknownModel

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	WorkDir          string  `yaml:"work_dir" json:"work_dir"`
	Session          string  `yaml:"session" json:"session"`
	Model            string  `yaml:"model" json:"model"`
	Leaf             bool    `yaml:"leaf" json:"leaf"`
	Lambda           float64 `yaml:"lambda" json:"lambda"`
	Depth            int     `yaml:"depth" json:"depth"`
	LearningRate     float64 `yaml:"learning_rate" json:"learning_rate"`
	CheckpointEvery  int     `yaml:"checkpoint_every" json:"checkpoint_every"`
	BenchmarkGames   int     `yaml:"benchmark_games" json:"benchmark_games"`
	BenchmarkWorkers int     `yaml:"benchmark_workers" json:"benchmark_workers"`
	Baseline         string  `yaml:"baseline" json:"baseline"`
	Weighting        string  `yaml:"weighting" json:"weighting"`
	DrawMargin       float64 `yaml:"draw_margin" json:"draw_margin"`
	Seed             uint64  `yaml:"seed" json:"seed"`
	Restore          string  `yaml:"restore" json:"restore,omitempty"`
}

func Default() Config {
	return Config{
		WorkDir:          meta.WORK_DIR,
		Model:            evaluator.ModelMLP,
		Lambda:           meta.LAMBDA,
		Depth:            meta.SEARCH_DEPTH,
		LearningRate:     meta.LEARNING_RATE,
		CheckpointEvery:  meta.CHECKPOINT_EVERY,
		BenchmarkGames:   meta.BENCHMARK_GAMES,
		BenchmarkWorkers: runtime.GOMAXPROCS(0),
		Baseline:         agent.Random,
		Weighting:        trainer.Unweighted.String(),
		DrawMargin:       meta.DRAW_MARGIN,
		Seed:             meta.RANDOM_SEED,
	}
}

// Load overlays the YAML file at path on top of c. Keys absent from the file keep
// their current values.
func (c Config) Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return c, errors.Wrap(err, "failed to read config")
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return c, errors.Wrapf(err, "failed to parse config %s", path)
	}
	return c, nil
}

// SessionName is the session directory name. An explicit Session is used as given;
// without one the run is named RL, or RL_TD_LEAF in leaf mode.
func (c Config) SessionName() string {
	if c.Session != "" {
		return c.Session
	}
	if c.Leaf {
		return meta.SESSION + meta.LEAF_SUFFIX
	}
	return meta.SESSION
}

func (c Config) Validate() error {
	if utils.FindIndex(evaluator.Models(), c.Model) < 0 {
		return errors.Wrapf(ErrUnknownModel, "%q", c.Model)
	}
	if math.IsNaN(c.Lambda) || c.Lambda < 0 || c.Lambda > 1 {
		return errors.Wrapf(ErrInvalid, "lambda %v outside [0, 1]", c.Lambda)
	}
	if c.Depth < 1 {
		return errors.Wrapf(ErrInvalid, "depth %d must be at least 1", c.Depth)
	}
	if !(c.LearningRate > 0) {
		return errors.Wrapf(ErrInvalid, "learning rate %v must be positive", c.LearningRate)
	}
	if c.CheckpointEvery <= 0 {
		return errors.Wrapf(ErrInvalid, "checkpoint interval %d must be positive", c.CheckpointEvery)
	}
	if c.BenchmarkGames < 0 || c.BenchmarkWorkers < 1 {
		return errors.Wrapf(ErrInvalid, "benchmark needs non-negative games and at least one worker")
	}
	if !(c.DrawMargin >= 0) {
		return errors.Wrapf(ErrInvalid, "draw margin %v must be non-negative", c.DrawMargin)
	}
	if utils.FindIndex(agent.Baselines(), c.Baseline) < 0 {
		return errors.Wrapf(ErrInvalid, "unknown baseline %q", c.Baseline)
	}
	if _, err := trainer.ParseWeighting(c.Weighting); err != nil {
		return errors.Wrap(ErrInvalid, err.Error())
	}
	if c.Session != "" && (filepath.Base(c.Session) != c.Session || c.Session == "." || c.Session == "..") {
		return errors.Wrapf(ErrInvalid, "session name %q must be a single directory name", c.Session)
	}
	return nil
}

// Paths is the on-disk layout of a run.
type Paths struct {
	Datasets string
	Seeds    string
	Session  string
}

func (c Config) Paths() Paths {
	datasets := filepath.Join(c.WorkDir, "datasets")
	return Paths{
		Datasets: datasets,
		Seeds:    filepath.Join(datasets, "fen_games"),
		Session:  filepath.Join(c.WorkDir, "learnt", c.SessionName()),
	}
}

// EnsureDirs creates the dataset and session directories. Calling it again is harmless.
func (c Config) EnsureDirs() (Paths, error) {
	paths := c.Paths()
	for _, dir := range []string{paths.Datasets, paths.Session} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return paths, errors.Wrapf(err, "failed to create %s", dir)
		}
	}
	return paths, nil
}
