package agent

import (
	"tdchess/experiments/metrics"
	"tdchess/game"
	"tdchess/searcher"
)

type evaluationAgent struct {
	name     string
	selector *searcher.Selector
}

// NewEvaluationAgent returns an agent that plays the selector's choice, the same policy
// self-play uses during training.
func NewEvaluationAgent(name string, selector *searcher.Selector) Agent {
	return evaluationAgent{name: name, selector: selector}
}

func (a evaluationAgent) Name() string { return a.name }

func (a evaluationAgent) FindMove(b *game.Board) (game.Move, metrics.SearchMetric) {
	choice, metric := a.selector.Select(b)
	return choice.Move, metric
}
