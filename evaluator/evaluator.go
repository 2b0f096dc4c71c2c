// Package evaluator holds the learned position evaluators. An evaluator maps a position
// to a score in [-1, 1], positive when White is favoured, and exposes the gradient of
// that score with respect to its own parameters.
package evaluator

import (
	"math"

	"tdchess/game"

	"github.com/pkg/errors"
	"golang.org/x/exp/rand"
)

const (
	ModelMLP = "mlp"
	ModelCNN = "cnn"
)

var ErrUnknownModel = errors.New("model not found")

type Evaluator interface {
	Name() string
	// InputSize is the length of the encoded position the evaluator consumes.
	InputSize() int
	Evaluate(pos game.Position) float64
	// Gradient returns d Evaluate(pos) / d Parameters, shaped like Parameters.
	Gradient(pos game.Position) Gradients
	Parameters() Parameters
}

// Models lists the recognised architecture selectors.
func Models() []string {
	return []string{ModelMLP, ModelCNN}
}

// New builds a freshly initialised evaluator for the architecture selector.
func New(model string, rnd *rand.Rand) (Evaluator, error) {
	switch model {
	case ModelMLP:
		return NewMLP(rnd), nil
	case ModelCNN:
		return NewCNN(rnd), nil
	}
	return nil, errors.Wrapf(ErrUnknownModel, "%q", model)
}

type activation interface {
	sigma(x float64) float64
	sigmaPrime(x float64) float64
}

type relu struct{}

func (relu) sigma(x float64) float64 {
	if x > 0 {
		return x
	}
	return 0
}

func (relu) sigmaPrime(x float64) float64 {
	if x > 0 {
		return 1
	}
	return 0
}

type tanh struct{}

func (tanh) sigma(x float64) float64 { return math.Tanh(x) }

func (tanh) sigmaPrime(x float64) float64 {
	y := math.Tanh(x)
	return 1 - y*y
}

// initUniform fills data with zero-mean uniform noise of the given variance.
func initUniform(rnd *rand.Rand, data []float64, variance float64) {
	const uniformVariance = 1.0 / 12
	scale := math.Sqrt(variance / uniformVariance)
	for i := range data {
		data[i] = (rnd.Float64() - 0.5) * scale
	}
}
