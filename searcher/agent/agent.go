package agent

import (
	"tdchess/experiments/metrics"
	"tdchess/game"
)

type Agent interface {
	Name() string
	// FindMove returns a legal move for the board's side to move and performance metrics
	// (if collected). The board is left unchanged.
	FindMove(b *game.Board) (game.Move, metrics.SearchMetric)
}
