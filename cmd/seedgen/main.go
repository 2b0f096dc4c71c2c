// Command seedgen extracts seed positions for training from a PGN file.
package main

import (
	"bufio"
	"flag"
	"io"
	"os"
	"path/filepath"
	"time"

	"tdchess/game"

	"github.com/notnil/chess"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type Settings struct {
	PGN   string
	Out   string
	Every int
	Skip  int
	Max   int
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})

	settings := Settings{
		Out:   filepath.Join("..", "data", "datasets", "fen_games"),
		Every: 1,
		Skip:  8,
	}
	flag.StringVar(&settings.PGN, "pgn", settings.PGN, "PGN file to scan")
	flag.StringVar(&settings.Out, "out", settings.Out, "seed file to write, one FEN per line")
	flag.IntVar(&settings.Every, "every", settings.Every, "keep every Nth ply")
	flag.IntVar(&settings.Skip, "skip", settings.Skip, "opening plies to skip in every game")
	flag.IntVar(&settings.Max, "max", settings.Max, "stop after this many positions, 0 for no limit")
	flag.Parse()

	if settings.PGN == "" {
		log.Fatal().Msg("-pgn is required")
	}
	if settings.Every < 1 {
		settings.Every = 1
	}

	stats, err := run(settings)
	if err != nil {
		log.Fatal().Err(err).Msg("seed generation failed")
	}
	log.Info().Msgf("wrote %d positions from %d games to %s", stats.Positions, stats.Games, settings.Out)
}

type Stats struct {
	Games     int
	Positions int
}

func run(settings Settings) (Stats, error) {
	in, err := os.Open(settings.PGN)
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to open PGN")
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(settings.Out), 0755); err != nil {
		return Stats{}, errors.Wrap(err, "failed to create output directory")
	}
	out, err := os.Create(settings.Out)
	if err != nil {
		return Stats{}, errors.Wrap(err, "failed to create seed file")
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	stats, err := extract(in, w, settings)
	if err != nil {
		return stats, err
	}
	return stats, errors.Wrap(w.Flush(), "failed to write seed file")
}

// extract writes every selected non-terminal position once, in game order.
func extract(r io.Reader, w io.Writer, settings Settings) (Stats, error) {
	var stats Stats
	repeats := make(map[uint64]struct{})

	scanner := chess.NewScanner(r)
	for scanner.Scan() {
		g := scanner.Next()
		if g == nil {
			continue
		}
		stats.Games++
		for ply, p := range g.Positions() {
			if ply < settings.Skip || (ply-settings.Skip)%settings.Every != 0 {
				continue
			}
			pos, err := game.ParsePosition(p.String())
			if err != nil {
				log.Warn().Err(err).Msgf("game %d ply %d", stats.Games, ply)
				continue
			}
			if game.NewBoard(pos).IsGameOver() {
				continue
			}
			if _, ok := repeats[pos.Key()]; ok {
				continue
			}
			repeats[pos.Key()] = struct{}{}

			if _, err := io.WriteString(w, pos.FEN()+"\n"); err != nil {
				return stats, errors.Wrap(err, "failed to write position")
			}
			stats.Positions++
			if settings.Max > 0 && stats.Positions >= settings.Max {
				return stats, nil
			}
		}
	}
	if err := scanner.Err(); err != nil && err != io.EOF {
		return stats, errors.Wrap(err, "failed to scan PGN")
	}
	return stats, nil
}
