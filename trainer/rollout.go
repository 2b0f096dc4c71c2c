package trainer

import (
	"tdchess/experiments/metrics"
	"tdchess/game"
	"tdchess/searcher"

	"github.com/pkg/errors"
)

// ErrTerminalSeed is returned for a seed position that is already game over.
var ErrTerminalSeed = errors.New("seed position is already terminal")

// MoveSelector chooses the next move of a self-play game.
type MoveSelector interface {
	Select(b *game.Board) (searcher.Choice, metrics.SearchMetric)
}

// Rollout plays one self-play game from seed until the game is over, recording every ply.
func Rollout(seed game.Position, selector MoveSelector) (Trajectory, error) {
	b := game.NewBoard(seed)
	if term := b.Termination(); term != game.None {
		return Trajectory{}, errors.Wrapf(ErrTerminalSeed, "%s (%s)", seed.FEN(), term)
	}

	traj := Trajectory{Seed: seed}
	for {
		term := b.Termination()
		if term != game.None {
			traj.Termination = term
			return traj, nil
		}
		choice, metric := selector.Select(b)
		traj.Evaluations += metric.Evaluations
		b.Push(choice.Move)
		traj.Steps = append(traj.Steps, Step{
			Position: choice.Position,
			Move:     choice.Move,
			Score:    choice.Score,
		})
	}
}
