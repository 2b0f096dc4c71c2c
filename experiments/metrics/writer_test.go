package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriter(t *testing.T) {
	t.Run("scalars are appended under a single header", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "session")
		w, err := NewWriter(dir)
		require.NoError(t, err)

		require.NoError(t, w.WriteScalar(1000, "wins", 12))
		require.NoError(t, w.WriteScalar(1000, "draws", 80))

		rows := readCSV(t, filepath.Join(dir, ScalarsFile))
		require.Len(t, rows, 3)
		require.Equal(t, scalarHeader, rows[0])
		require.Equal(t, []string{"1000", "wins", "12"}, rows[1][:3])
		require.Equal(t, []string{"1000", "draws", "80"}, rows[2][:3])
	})

	t.Run("a reopened writer keeps appending", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewWriter(dir)
		require.NoError(t, err)
		require.NoError(t, w.WriteRollout(RolloutMetric{Iteration: 1, Seed: "fen", Plies: 40, Termination: "checkmate"}))

		w, err = NewWriter(dir)
		require.NoError(t, err)
		require.NoError(t, w.WriteRollout(RolloutMetric{Iteration: 2, Seed: "fen", Plies: 12, Duration: time.Second}))

		rows := readCSV(t, filepath.Join(dir, RolloutsFile))
		require.Len(t, rows, 3)
		require.Equal(t, "checkmate", rows[1][3])
		require.Equal(t, "1s", rows[2][7])
	})

	t.Run("benchmark games", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewWriter(dir)
		require.NoError(t, err)

		require.NoError(t, w.WriteGames([]GameMetric{
			{Iteration: 1000, Seed: "a", TrainedSide: "white", Outcome: "win"},
			{Iteration: 1000, Seed: "b", TrainedSide: "black", Outcome: "draw"},
		}))

		rows := readCSV(t, filepath.Join(dir, BenchmarksFile))
		require.Len(t, rows, 3)
		require.Equal(t, "draw", rows[2][3])
	})

	t.Run("setup", func(t *testing.T) {
		dir := t.TempDir()
		w, err := NewWriter(dir)
		require.NoError(t, err)

		require.NoError(t, w.WriteSetup(map[string]any{"model": "mlp", "lambda": 0.7}))

		data, err := os.ReadFile(filepath.Join(dir, SetupFile))
		require.NoError(t, err)
		var setup map[string]any
		require.NoError(t, json.Unmarshal(data, &setup))
		require.Equal(t, "mlp", setup["model"])
	})
}

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.Start(4)
	c.AddNode()
	c.AddNode()
	c.AddEvaluation()
	c.AddCutoff()

	m := c.Complete()

	require.Equal(t, 4, m.Depth)
	require.Equal(t, 2, m.Nodes)
	require.Equal(t, 1, m.Evaluations)
	require.Equal(t, 1, m.Cutoffs)

	c.Start(2)
	require.Equal(t, 0, c.Complete().Nodes, "start resets the counters")
	require.Equal(t, SearchMetric{}, NewDummyCollector().Complete())
}
