package searcher

import (
	"math"

	"tdchess/experiments/metrics"
	"tdchess/game"
)

// AlphaBeta is a fail-hard minimax search with alpha-beta pruning in move generation
// order. White maximises.
type AlphaBeta struct {
	scorer  Scorer
	depth   int
	metrics metrics.Collector
}

func NewAlphaBeta(scorer Scorer, options ...Option) *AlphaBeta {
	s := newSettings(options)
	return &AlphaBeta{
		scorer:  scorer,
		depth:   s.depth,
		metrics: s.metrics,
	}
}

func (a *AlphaBeta) Depth() int {
	return a.depth
}

// Refine searches pos to the configured depth, maximising when White is to move, and
// returns the leaf whose evaluation backs up to the root together with that score.
func (a *AlphaBeta) Refine(pos game.Position) (game.Position, float64, metrics.SearchMetric) {
	a.metrics.Start(a.depth)
	leaf, score := a.Search(game.NewBoard(pos), a.depth, math.Inf(-1), math.Inf(1), pos.WhiteToMove())
	return leaf, score, a.metrics.Complete()
}

// Search evaluates the board to depth plies. Terminal positions and depth 0 return the
// position itself with its direct evaluation. The board is restored before returning.
func (a *AlphaBeta) Search(b *game.Board, depth int, alpha, beta float64, maximizing bool) (game.Position, float64) {
	a.metrics.AddNode()
	if depth <= 0 || b.IsGameOver() {
		pos := b.Position()
		a.metrics.AddEvaluation()
		return pos, a.scorer.Evaluate(pos)
	}

	var leaf game.Position
	best := math.Inf(1)
	if maximizing {
		best = math.Inf(-1)
	}
	for _, move := range b.LegalMoves() {
		var childLeaf game.Position
		var score float64
		b.Explore(move, func() {
			childLeaf, score = a.Search(b, depth-1, alpha, beta, !maximizing)
		})

		if maximizing {
			if score > best {
				best, leaf = score, childLeaf
			}
			alpha = math.Max(alpha, best)
		} else {
			if score < best {
				best, leaf = score, childLeaf
			}
			beta = math.Min(beta, best)
		}
		if beta <= alpha {
			a.metrics.AddCutoff()
			break
		}
	}
	return leaf, best
}
