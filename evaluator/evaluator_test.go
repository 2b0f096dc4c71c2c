package evaluator

import (
	"math"
	"testing"

	"tdchess/features"
	"tdchess/game"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

const middlegame = "r1bqkb1r/pppp1ppp/2n2n2/4p3/2B1P3/5N2/PPPP1PPP/RNBQK2R w KQkq - 4 4"

// checkGradient compares analytic gradients with central differences on a sample of parameters.
func checkGradient(t *testing.T, e Evaluator, pos game.Position) {
	t.Helper()
	const eps = 1e-6
	rnd := rand.New(rand.NewSource(7))
	grad := e.Gradient(pos)
	require.True(t, grad.SameShape(e.Parameters()))

	for ti, param := range e.Parameters() {
		for n := 0; n < 10; n++ {
			i := rnd.Intn(param.Size())
			orig := param.Data[i]
			param.Data[i] = orig + eps
			plus := e.Evaluate(pos)
			param.Data[i] = orig - eps
			minus := e.Evaluate(pos)
			param.Data[i] = orig

			numeric := (plus - minus) / (2 * eps)
			require.InDelta(t, numeric, grad[ti].Data[i], 1e-5, "tensor %d element %d", ti, i)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("known models", func(t *testing.T) {
		for _, model := range Models() {
			e, err := New(model, rand.New(rand.NewSource(1)))
			require.NoError(t, err)
			require.Equal(t, model, e.Name())
		}
	})

	t.Run("unknown model", func(t *testing.T) {
		_, err := New("transformer", rand.New(rand.NewSource(1)))
		require.Error(t, err)
		require.True(t, errors.Is(err, ErrUnknownModel))
	})
}

func TestMLP(t *testing.T) {
	m := NewMLP(rand.New(rand.NewSource(1)))

	t.Run("input and parameter shapes", func(t *testing.T) {
		require.Equal(t, features.FeatureCount, m.InputSize())
		params := m.Parameters()
		require.Len(t, params, 4)
		require.Equal(t, []int{MLPHidden, features.FeatureCount}, params[0].Shape)
		require.Equal(t, []int{1, MLPHidden}, params[2].Shape)
		require.Equal(t, MLPHidden*features.FeatureCount+MLPHidden+MLPHidden+1, params.Count())
	})

	t.Run("bounded and deterministic", func(t *testing.T) {
		pos := game.MustParsePosition(middlegame)
		score := m.Evaluate(pos)
		require.LessOrEqual(t, math.Abs(score), 1.0)
		require.Equal(t, score, m.Evaluate(pos))
	})

	t.Run("gradient matches finite differences", func(t *testing.T) {
		checkGradient(t, m, game.MustParsePosition(middlegame))
		checkGradient(t, m, game.StartPosition())
	})

	t.Run("same seed same weights", func(t *testing.T) {
		other := NewMLP(rand.New(rand.NewSource(1)))
		require.Equal(t, m.Parameters()[0].Data, other.Parameters()[0].Data)
	})
}

func TestCNN(t *testing.T) {
	c := NewCNN(rand.New(rand.NewSource(3)))

	t.Run("input and parameter shapes", func(t *testing.T) {
		require.Equal(t, features.PlaneInputs, c.InputSize())
		params := c.Parameters()
		require.Equal(t, []int{CNNFilters, features.PlaneCount, 3, 3}, params[0].Shape)
		require.Equal(t, []int{1, CNNFilters * 64}, params[2].Shape)
	})

	t.Run("bounded and deterministic", func(t *testing.T) {
		pos := game.MustParsePosition(middlegame)
		score := c.Evaluate(pos)
		require.LessOrEqual(t, math.Abs(score), 1.0)
		require.Equal(t, score, c.Evaluate(pos))
	})

	t.Run("gradient matches finite differences", func(t *testing.T) {
		checkGradient(t, c, game.MustParsePosition(middlegame))
	})
}

func TestGradients(t *testing.T) {
	params := Parameters{NewTensor(2, 2), NewTensor(3)}

	t.Run("zeros are shaped like the parameters", func(t *testing.T) {
		g := Zeros(params)
		require.True(t, g.SameShape(params))
		require.Equal(t, 0.0, g.Norm())
	})

	t.Run("add, scale and negate", func(t *testing.T) {
		g := Zeros(params)
		other := Zeros(params)
		other[0].Data[0] = 3
		other[1].Data[2] = 4

		g.Add(other)
		g.AddScaled(other, 1)
		require.Equal(t, 10.0, g.Norm())

		g.Scale(0.5)
		require.Equal(t, 3.0, g[0].Data[0])

		neg := g.Negate()
		require.Equal(t, -3.0, neg[0].Data[0])
		require.Equal(t, 3.0, g[0].Data[0], "negate returns a copy")
	})

	t.Run("mismatched shapes panic", func(t *testing.T) {
		g := Zeros(params)
		require.Panics(t, func() { g.Add(Zeros(Parameters{NewTensor(4)})) })
		require.False(t, g.SameShape(Parameters{NewTensor(2, 2), NewTensor(2)}))
	})
}
