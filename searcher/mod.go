// Package searcher picks moves with one-ply evaluator lookahead and refines training
// targets with a bounded alpha-beta search.
package searcher

import (
	"math"

	"tdchess/game"
)

// Scorer evaluates a position from White's perspective.
type Scorer interface {
	Evaluate(pos game.Position) float64
}

// Outcome is the class of a candidate move from the mover's point of view.
type Outcome int

const (
	Loss Outcome = iota
	Draw
	Win
)

func (o Outcome) String() string {
	switch o {
	case Win:
		return "win"
	case Draw:
		return "draw"
	}
	return "loss"
}

// Signed outcome indicators, from White's perspective.
const (
	WIN  = 1.0
	DRAW = 0.0
	LOSS = -1.0
)

// Classify buckets a child score for the side that just moved. Scores within margin of
// zero are draws; otherwise the sign decides. Every score, NaN included, lands in
// exactly one bucket.
func Classify(score float64, mover game.Color, margin float64) Outcome {
	if math.Abs(score) <= margin {
		return Draw
	}
	if score*mover.Sign() > 0 {
		return Win
	}
	return Loss
}

// Indicator is the signed score reported for an outcome of mover.
func Indicator(o Outcome, mover game.Color) float64 {
	switch o {
	case Win:
		return WIN * mover.Sign()
	case Loss:
		return LOSS * mover.Sign()
	}
	return DRAW
}
