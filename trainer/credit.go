package trainer

import (
	"tdchess/experiments/metrics"
	"tdchess/game"
)

// Refiner replaces a recorded position by the leaf of a deeper search.
type Refiner interface {
	Refine(pos game.Position) (leaf game.Position, score float64, metric metrics.SearchMetric)
}

// Credit is the temporal-difference information of one contributing step t in [0, N-2].
type Credit struct {
	Step int
	// Delta is s[t+1] - s[t].
	Delta float64
	// Decay is Σ_{j=t}^{N-2} λ^(j-t).
	Decay float64
	// Eligibility is Σ_{j=t}^{N-2} λ^(j-t) Delta[j].
	Eligibility float64
	// Reference is the position whose gradient is taken for this step.
	Reference game.Position
}

// AssignCredit computes per-step credit over the trajectory's scores, after the
// draw-by-rule override. With a non-nil refiner each reference position is the leaf of a
// search from the recorded position. A trajectory with fewer than two steps gets no credit.
func AssignCredit(traj Trajectory, lambda float64, refiner Refiner) []Credit {
	scores := traj.Scores()
	n := len(scores)
	if n < 2 {
		return nil
	}

	credits := make([]Credit, n-1)
	decay, eligibility := 0.0, 0.0
	for t := n - 2; t >= 0; t-- {
		delta := scores[t+1] - scores[t]
		decay = 1 + lambda*decay
		eligibility = delta + lambda*eligibility
		credits[t] = Credit{
			Step:        t,
			Delta:       delta,
			Decay:       decay,
			Eligibility: eligibility,
			Reference:   traj.Steps[t].Position,
		}
	}

	if refiner != nil {
		for t := range credits {
			leaf, _, _ := refiner.Refine(credits[t].Reference)
			credits[t].Reference = leaf
		}
	}
	return credits
}
