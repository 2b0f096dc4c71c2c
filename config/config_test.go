package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()

	require.NoError(t, c.Validate())
	require.Equal(t, "../data", c.WorkDir)
	require.Equal(t, "RL", c.SessionName())
	require.Equal(t, 0.7, c.Lambda)
	require.Equal(t, 4, c.Depth)
	require.Equal(t, 1000, c.CheckpointEvery)
	require.Equal(t, "unweighted", c.Weighting)
}

func TestSessionName(t *testing.T) {
	t.Run("unnamed leaf runs get their own session", func(t *testing.T) {
		c := Default()
		c.Leaf = true

		require.Equal(t, "RL_TD_LEAF", c.SessionName())
	})

	t.Run("an explicit name is used as given", func(t *testing.T) {
		c := Default()
		c.Leaf = true
		c.Session = "RL"
		require.Equal(t, "RL", c.SessionName())

		c.Session = "exp"
		require.Equal(t, filepath.Join("..", "data", "learnt", "exp"), c.Paths().Session)
		require.Equal(t, filepath.Join("..", "data", "datasets", "fen_games"), c.Paths().Seeds)
	})
}

func TestValidate(t *testing.T) {
	t.Run("unknown model", func(t *testing.T) {
		c := Default()
		c.Model = "rnn"
		require.True(t, errors.Is(c.Validate(), ErrUnknownModel))
	})

	tests := map[string]func(c *Config){
		"negative lambda":    func(c *Config) { c.Lambda = -0.1 },
		"lambda above one":   func(c *Config) { c.Lambda = 1.5 },
		"zero depth":         func(c *Config) { c.Depth = 0 },
		"zero learning rate": func(c *Config) { c.LearningRate = 0 },
		"zero checkpoint":    func(c *Config) { c.CheckpointEvery = 0 },
		"no workers":         func(c *Config) { c.BenchmarkWorkers = 0 },
		"negative margin":    func(c *Config) { c.DrawMargin = -1 },
		"unknown baseline":   func(c *Config) { c.Baseline = "stockfish" },
		"unknown weighting":  func(c *Config) { c.Weighting = "squared" },
		"nested session":     func(c *Config) { c.Session = "a/b" },
		"parent session":     func(c *Config) { c.Session = ".." },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			require.True(t, errors.Is(c.Validate(), ErrInvalid))
		})
	}
}

func TestLoad(t *testing.T) {
	t.Run("overlays present keys", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		require.NoError(t, os.WriteFile(path, []byte("model: cnn\nleaf: true\nlambda: 0.5\nweighting: td-lambda\n"), 0644))

		c, err := Default().Load(path)

		require.NoError(t, err)
		require.Equal(t, "cnn", c.Model)
		require.True(t, c.Leaf)
		require.Equal(t, 0.5, c.Lambda)
		require.Equal(t, 4, c.Depth, "absent keys keep their defaults")
		require.NoError(t, c.Validate())
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "run.yaml")
		require.NoError(t, os.WriteFile(path, []byte("lambda: [1, 2\n"), 0644))

		_, err := Default().Load(path)
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Default().Load(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})
}

func TestEnsureDirs(t *testing.T) {
	c := Default()
	c.WorkDir = t.TempDir()

	paths, err := c.EnsureDirs()
	require.NoError(t, err)
	_, err = c.EnsureDirs()
	require.NoError(t, err, "creating the layout twice is harmless")

	for _, dir := range []string{paths.Session, paths.Datasets} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		require.True(t, info.IsDir(), dir)
	}
	require.Equal(t, filepath.Join(c.WorkDir, "datasets"), paths.Datasets)
}
