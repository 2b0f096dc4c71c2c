package trainer

import (
	"math"

	"tdchess/checkpoint"
	"tdchess/evaluator"
)

// Adam keeps per-parameter moment estimates across steps.
type Adam struct {
	M, V  [][]float64 // First and second moment estimates, one slice per tensor
	LR    float64
	Beta1 float64
	Beta2 float64
	Eps   float64
	T     int // Timestep (for bias correction)
}

func NewAdam(params evaluator.Parameters, lr float64) *Adam {
	opt := &Adam{
		LR:    lr,
		Beta1: 0.9,
		Beta2: 0.999,
		Eps:   1e-8,
	}
	for _, p := range params {
		opt.M = append(opt.M, make([]float64, p.Size()))
		opt.V = append(opt.V, make([]float64, p.Size()))
	}
	return opt
}

// Step moves params against grads.
func (opt *Adam) Step(params evaluator.Parameters, grads evaluator.Gradients) {
	if !grads.SameShape(params) || len(params) != len(opt.M) {
		panic("optimizer step with mismatched shapes")
	}
	opt.T++

	// Bias correction factors
	bc1 := 1.0 - math.Pow(opt.Beta1, float64(opt.T))
	bc2 := 1.0 - math.Pow(opt.Beta2, float64(opt.T))

	for ti, p := range params {
		m, v, g := opt.M[ti], opt.V[ti], grads[ti].Data
		for i := range p.Data {
			m[i] = opt.Beta1*m[i] + (1-opt.Beta1)*g[i]
			v[i] = opt.Beta2*v[i] + (1-opt.Beta2)*g[i]*g[i]

			mHat := m[i] / bc1
			vHat := v[i] / bc2
			p.Data[i] -= opt.LR * mHat / (math.Sqrt(vHat) + opt.Eps)
		}
	}
}

// Moments exposes the optimizer state for checkpointing. The slices are shared with the
// optimizer.
func (opt *Adam) Moments() *checkpoint.Moments {
	return &checkpoint.Moments{Step: opt.T, M: opt.M, V: opt.V}
}

// Restore resumes from saved moments, which must be shaped like the optimizer's.
func (opt *Adam) Restore(moments *checkpoint.Moments) {
	if len(moments.M) != len(opt.M) || len(moments.V) != len(opt.V) {
		panic("optimizer restore with mismatched shapes")
	}
	for i := range opt.M {
		if len(moments.M[i]) != len(opt.M[i]) || len(moments.V[i]) != len(opt.V[i]) {
			panic("optimizer restore with mismatched shapes")
		}
		copy(opt.M[i], moments.M[i])
		copy(opt.V[i], moments.V[i])
	}
	opt.T = moments.Step
}
