package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"tdchess/game"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRead(t *testing.T) {
	t.Run("skips blank, comment and malformed lines", func(t *testing.T) {
		input := strings.Join([]string{
			"# seeds",
			game.StartFEN,
			"",
			"not a fen",
			"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3",
		}, "\n")

		positions, stats, err := Read(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, positions, 2)
		require.Equal(t, Stats{Lines: 5, Valid: 2, Skipped: 1}, stats)
		require.Equal(t, game.Black, positions[1].SideToMove())
	})

	t.Run("keeps file order", func(t *testing.T) {
		input := "8/8/4k3/8/8/3K4/8/R7 w - - 0 1\n" + game.StartFEN + "\n"

		positions, _, err := Read(strings.NewReader(input))

		require.NoError(t, err)
		require.Len(t, positions, 2)
		require.Equal(t, uint64(1), positions[0].Bitboards(game.White).Rooks, "first line has a rook on a1")
		require.Len(t, positions[1].LegalMoves(), 20)
	})

	t.Run("skips positions without a king on each side", func(t *testing.T) {
		input := strings.Join([]string{
			"8/8/8/8/8/8/8/8 w - - 0 1",
			"4k3/8/8/8/8/8/8/R7 w - - 0 1",
			"4k3/8/8/8/8/8/8/R3K3 w - - 0 1",
		}, "\n")

		positions, stats, err := Read(strings.NewReader(input))

		require.NoError(t, err)
		require.Equal(t, Stats{Lines: 3, Valid: 1, Skipped: 2}, stats)
		require.Equal(t, game.None, game.NewBoard(positions[0]).Termination())
	})

	t.Run("no valid positions", func(t *testing.T) {
		_, _, err := Read(strings.NewReader("garbage\n\n"))

		require.True(t, errors.Is(err, ErrEmptyDataset))
	})
}

func TestLoad(t *testing.T) {
	t.Run("from file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "fen_games")
		require.NoError(t, os.WriteFile(path, []byte(game.StartFEN+"\n"), 0644))

		positions, stats, err := Load(path)

		require.NoError(t, err)
		require.Len(t, positions, 1)
		require.Equal(t, 1, stats.Valid)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := Load(filepath.Join(t.TempDir(), "missing"))

		require.Error(t, err)
		require.True(t, os.IsNotExist(errors.Cause(err)))
	})
}
