// Package dataset loads seed positions, one FEN per line.
package dataset

import (
	"bufio"
	"io"
	"os"
	"strings"

	"tdchess/game"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var ErrEmptyDataset = errors.New("dataset contains no valid positions")

// Stats describes a load.
type Stats struct {
	Lines   int
	Valid   int
	Skipped int
}

// Load reads the seed file at path. A missing or unreadable file is an error; malformed
// lines are skipped with a warning.
func Load(path string) ([]game.Position, Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, Stats{}, errors.Wrap(err, "failed to open seed positions")
	}
	defer f.Close()

	positions, stats, err := Read(f)
	if err != nil {
		return nil, stats, errors.Wrapf(err, "failed to load %s", path)
	}
	log.Info().Msgf("loaded %d seed positions from %s (%d skipped)", stats.Valid, path, stats.Skipped)
	return positions, stats, nil
}

// Read parses seed positions from r. Blank lines and lines starting with # are ignored.
func Read(r io.Reader) ([]game.Position, Stats, error) {
	var positions []game.Position
	var stats Stats

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		stats.Lines++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		pos, err := game.ParsePosition(line)
		if err != nil {
			stats.Skipped++
			log.Warn().Err(err).Msgf("skipping line %d", stats.Lines)
			continue
		}
		positions = append(positions, pos)
	}
	if err := scanner.Err(); err != nil {
		return nil, stats, errors.Wrap(err, "failed to read seed positions")
	}

	stats.Valid = len(positions)
	if stats.Valid == 0 {
		return nil, stats, ErrEmptyDataset
	}
	return positions, stats, nil
}
