package engine

import (
	"testing"

	"tdchess/experiments/metrics"
	"tdchess/game"
	"tdchess/searcher/agent"

	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

// scripted plays a fixed list of UCI moves.
type scripted struct {
	moves []string
}

func (s *scripted) Name() string { return "scripted" }

func (s *scripted) FindMove(b *game.Board) (game.Move, metrics.SearchMetric) {
	m, err := game.ParseMove(b.Position(), s.moves[0])
	if err != nil {
		panic(err)
	}
	s.moves = s.moves[1:]
	return m, metrics.SearchMetric{}
}

func TestPlay(t *testing.T) {
	t.Run("fool's mate", func(t *testing.T) {
		white := &scripted{moves: []string{"f2f3", "g2g4"}}
		black := &scripted{moves: []string{"e7e5", "d8h4"}}

		result := Play(white, black, game.StartPosition())

		require.Equal(t, game.Checkmate, result.Termination)
		require.Equal(t, game.Black, result.Winner)
		require.Equal(t, 4, result.Plies)
	})

	t.Run("terminal seed plays no moves", func(t *testing.T) {
		seed := game.MustParsePosition("7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")

		result := Play(&scripted{}, &scripted{}, seed)

		require.Equal(t, game.Stalemate, result.Termination)
		require.Equal(t, 0, result.Plies)
		require.Equal(t, game.NoColor, result.Winner)
	})

	t.Run("random games terminate", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(9))
		white, black := agent.NewRandomAgent(rnd), agent.NewRandomAgent(rnd)

		result := Play(white, black, game.StartPosition())

		require.NotEqual(t, game.None, result.Termination)
		require.Greater(t, result.Plies, 0)
	})

	t.Run("ply cap stops the game", func(t *testing.T) {
		rnd := rand.New(rand.NewSource(9))
		e := NewLocalEngine(game.StartPosition(), agent.NewRandomAgent(rnd), agent.NewRandomAgent(rnd), 3)

		result := e.Run()

		require.Equal(t, 3, result.Plies)
		require.Equal(t, game.None, result.Termination)
	})
}
