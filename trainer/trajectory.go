// Package trainer runs self-play rollouts, assigns temporal-difference credit along each
// trajectory and applies one optimizer step per trajectory.
package trainer

import (
	"tdchess/game"
)

// Step is one ply of a rollout: the position reached by Move and the signed outcome
// indicator the selector reported for the position before it.
type Step struct {
	Position game.Position
	Move     game.Move
	Score    float64
}

// Trajectory is a complete self-play game from Seed to a terminal position.
type Trajectory struct {
	Seed        game.Position
	Steps       []Step
	Termination game.Termination
	// Evaluations counts evaluator calls made while selecting moves, when collected.
	Evaluations int
}

func (t Trajectory) Len() int {
	return len(t.Steps)
}

// Final is the terminal position of the game.
func (t Trajectory) Final() game.Position {
	if len(t.Steps) == 0 {
		return t.Seed
	}
	return t.Steps[len(t.Steps)-1].Position
}

// Scores returns the recorded scores, with the last one forced to 0 when the game ended
// by fivefold repetition, the seventy-five-move rule or stalemate. Stalemate is tested on
// the final position itself, since a capture can leave a stalemate that is reported as
// insufficient material.
func (t Trajectory) Scores() []float64 {
	scores := make([]float64, len(t.Steps))
	for i, step := range t.Steps {
		scores[i] = step.Score
	}
	if len(scores) > 0 && (t.Termination.IsDrawByRule() || t.Final().IsStalemate()) {
		scores[len(scores)-1] = 0
	}
	return scores
}
