package main

import (
	"bytes"
	"strings"
	"testing"

	"tdchess/game"

	"github.com/stretchr/testify/require"
)

const italian = `[Event "Casual"]
[Site "?"]
[White "a"]
[Black "b"]
[Result "*"]

1. e4 e5 2. Nf3 Nc6 3. Bc4 *
`

func TestExtract(t *testing.T) {
	t.Run("keeps every nth ply after the opening skip", func(t *testing.T) {
		var out bytes.Buffer

		stats, err := extract(strings.NewReader(italian), &out, Settings{Every: 2, Skip: 1})

		require.NoError(t, err)
		require.Equal(t, Stats{Games: 1, Positions: 3}, stats)
		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 3)
		for _, line := range lines {
			_, err := game.ParsePosition(line)
			require.NoError(t, err, line)
		}
		require.True(t, strings.HasPrefix(lines[0], "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b"), lines[0])
	})

	t.Run("stops at the limit", func(t *testing.T) {
		var out bytes.Buffer

		stats, err := extract(strings.NewReader(italian), &out, Settings{Every: 1, Max: 2})

		require.NoError(t, err)
		require.Equal(t, 2, stats.Positions)
		require.Equal(t, 2, strings.Count(out.String(), "\n"))
	})
}
