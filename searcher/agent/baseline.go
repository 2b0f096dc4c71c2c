package agent

import (
	"tdchess/experiments/metrics"
	"tdchess/game"
	"tdchess/searcher"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

const (
	Random   = "random"
	Material = "material"
)

var ErrUnknownBaseline = errors.New("unknown baseline")

// Baselines lists the recognised baseline opponents.
func Baselines() []string {
	return []string{Random, Material}
}

// NewBaseline builds a baseline opponent that never consults the trained evaluator.
func NewBaseline(name string, rnd *rand.Rand) (Agent, error) {
	switch name {
	case Random:
		return NewRandomAgent(rnd), nil
	case Material:
		return NewMaterialAgent(rnd), nil
	}
	return nil, errors.Wrapf(ErrUnknownBaseline, "%q", name)
}

type randomAgent struct {
	rnd *rand.Rand
}

// NewRandomAgent plays uniformly random legal moves.
func NewRandomAgent(rnd *rand.Rand) Agent {
	return randomAgent{rnd: rnd}
}

func (a randomAgent) Name() string { return Random }

func (a randomAgent) FindMove(b *game.Board) (game.Move, metrics.SearchMetric) {
	moves := b.LegalMoves()
	if len(moves) == 0 {
		panic("no legal moves")
	}
	return moves[a.rnd.Intn(len(moves))], metrics.SearchMetric{}
}

type materialScorer struct{}

func (materialScorer) Evaluate(pos game.Position) float64 { return game.EvaluateMaterial(pos) }

// NewMaterialAgent greedily wins material one ply ahead, choosing at random among
// equally classified moves.
func NewMaterialAgent(rnd *rand.Rand) Agent {
	return NewEvaluationAgent(Material, searcher.NewSelector(materialScorer{}, searcher.WithRand(rnd)))
}
