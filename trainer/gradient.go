package trainer

import (
	"fmt"

	"tdchess/evaluator"
	"tdchess/game"

	"github.com/pkg/errors"
)

// Weighting decides how per-step gradients are combined.
type Weighting int

const (
	// Unweighted sums the raw gradients; the decay weights are computed but not applied.
	Unweighted Weighting = iota
	// TDLambda scales each step's gradient by its eligibility.
	TDLambda
)

var ErrUnknownWeighting = errors.New("unknown weighting")

func (w Weighting) String() string {
	switch w {
	case Unweighted:
		return "unweighted"
	case TDLambda:
		return "td-lambda"
	}
	return fmt.Sprintf("weighting(%d)", int(w))
}

func ParseWeighting(s string) (Weighting, error) {
	switch s {
	case "unweighted", "":
		return Unweighted, nil
	case "td-lambda":
		return TDLambda, nil
	}
	return Unweighted, errors.Wrapf(ErrUnknownWeighting, "%q", s)
}

// GradientSource is the part of an evaluator the accumulator needs.
type GradientSource interface {
	Gradient(pos game.Position) evaluator.Gradients
	Parameters() evaluator.Parameters
}

// AccumulateGradients sums the evaluator gradient at every credit's reference position
// into one vector shaped like the evaluator's parameters.
func AccumulateGradients(source GradientSource, credits []Credit, weighting Weighting) evaluator.Gradients {
	params := source.Parameters()
	sum := evaluator.Zeros(params)
	for _, c := range credits {
		g := source.Gradient(c.Reference)
		if !g.SameShape(params) {
			panic("evaluator gradient is not shaped like its parameters")
		}
		switch weighting {
		case TDLambda:
			sum.AddScaled(g, c.Eligibility)
		default:
			sum.Add(g)
		}
	}
	return sum
}
