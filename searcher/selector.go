package searcher

import (
	"tdchess/experiments/metrics"
	"tdchess/game"

	"golang.org/x/exp/rand"
)

// Choice is a selected move, the position it leads to and the signed outcome indicator
// of the position before the move.
type Choice struct {
	Position game.Position
	Move     game.Move
	Score    float64
}

// Selector chooses moves by evaluating every child position once and picking uniformly
// among the best non-empty outcome bucket, in the order win, draw, loss. It never
// mutates the evaluator. A Selector is not safe for concurrent use.
type Selector struct {
	scorer     Scorer
	rnd        *rand.Rand
	drawMargin float64
	metrics    metrics.Collector
}

func NewSelector(scorer Scorer, options ...Option) *Selector {
	s := newSettings(options)
	return &Selector{
		scorer:     scorer,
		rnd:        s.rnd,
		drawMargin: s.drawMargin,
		metrics:    s.metrics,
	}
}

// Select requires a position with at least one legal move; the board is left as it was
// found.
func (s *Selector) Select(b *game.Board) (Choice, metrics.SearchMetric) {
	s.metrics.Start(1)
	mover := b.SideToMove()
	var buckets [3][]Choice

	for _, move := range b.LegalMoves() {
		b.Explore(move, func() {
			pos := b.Position()
			score := s.scorer.Evaluate(pos)
			s.metrics.AddNode()
			s.metrics.AddEvaluation()
			outcome := Classify(score, mover, s.drawMargin)
			buckets[outcome] = append(buckets[outcome], Choice{
				Position: pos,
				Move:     move,
				Score:    Indicator(outcome, mover),
			})
		})
	}
	metric := s.metrics.Complete()

	for _, outcome := range []Outcome{Win, Draw, Loss} {
		if bucket := buckets[outcome]; len(bucket) > 0 {
			return bucket[s.rnd.Intn(len(bucket))], metric
		}
	}
	panic("no outcome bucket populated: select called on a finished game")
}
