package metrics

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/pkg/errors"
)

const (
	ScalarsFile    = "metrics.csv"
	RolloutsFile   = "rollouts.csv"
	BenchmarksFile = "benchmarks.csv"
	SetupFile      = "setup.json"
)

var (
	scalarHeader    = []string{"iteration", "name", "value", "time"}
	rolloutHeader   = []string{"iteration", "seed", "plies", "termination", "final_score", "gradient_norm", "evaluations", "duration"}
	benchmarkHeader = []string{"iteration", "seed", "trained_side", "outcome", "termination", "plies", "duration"}
)

// Writer appends training observations to CSV files in a session directory. It is safe
// for concurrent use.
type Writer struct {
	mu      sync.Mutex
	baseDir string
}

func NewWriter(baseDir string) (*Writer, error) {
	err := os.MkdirAll(baseDir, 0755)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create metrics directory")
	}
	return &Writer{baseDir: baseDir}, nil
}

func (w *Writer) Dir() string {
	return w.baseDir
}

// WriteSetup stores the run configuration as indented JSON, replacing any previous one.
func (w *Writer) WriteSetup(setup any) error {
	data, err := json.MarshalIndent(setup, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode setup")
	}
	err = os.WriteFile(filepath.Join(w.baseDir, SetupFile), data, 0644)
	if err != nil {
		return errors.Wrap(err, "failed to write setup")
	}
	return nil
}

// WriteScalar records a named observation tagged by iteration.
func (w *Writer) WriteScalar(iteration int, name string, value float64) error {
	row := []string{
		strconv.Itoa(iteration),
		name,
		strconv.FormatFloat(value, 'g', -1, 64),
		time.Now().UTC().Format(time.RFC3339),
	}
	return w.appendRows(ScalarsFile, scalarHeader, [][]string{row})
}

func (w *Writer) WriteRollout(record RolloutMetric) error {
	row := []string{
		strconv.Itoa(record.Iteration),
		record.Seed,
		strconv.Itoa(record.Plies),
		record.Termination,
		strconv.FormatFloat(record.FinalScore, 'g', -1, 64),
		strconv.FormatFloat(record.GradientNorm, 'g', -1, 64),
		strconv.Itoa(record.Evaluations),
		record.Duration.String(),
	}
	return w.appendRows(RolloutsFile, rolloutHeader, [][]string{row})
}

func (w *Writer) WriteGames(records []GameMetric) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Iteration),
			record.Seed,
			record.TrainedSide,
			record.Outcome,
			record.Termination,
			strconv.Itoa(record.Plies),
			record.Duration.String(),
		})
	}
	return w.appendRows(BenchmarksFile, benchmarkHeader, rows)
}

// appendRows writes the header first when the file is new or empty.
func (w *Writer) appendRows(name string, header []string, rows [][]string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	path := filepath.Join(w.baseDir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		return errors.Wrapf(err, "failed to open %s", name)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return errors.Wrapf(err, "failed to stat %s", name)
	}

	writer := csv.NewWriter(f)
	if info.Size() == 0 {
		err = writer.Write(header)
		if err != nil {
			return errors.Wrapf(err, "failed to write %s header", name)
		}
	}
	err = writer.WriteAll(rows)
	if err != nil {
		return errors.Wrapf(err, "failed to write %s rows", name)
	}
	return nil
}
