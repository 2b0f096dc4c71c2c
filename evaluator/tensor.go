package evaluator

import (
	"fmt"
	"math"
)

// Tensor is a dense float64 array in row-major order.
type Tensor struct {
	Shape []int
	Data  []float64
}

func NewTensor(shape ...int) *Tensor {
	size := 1
	for _, d := range shape {
		size *= d
	}
	return &Tensor{Shape: append([]int(nil), shape...), Data: make([]float64, size)}
}

func (t *Tensor) Size() int {
	return len(t.Data)
}

func (t *Tensor) Clone() *Tensor {
	return &Tensor{Shape: append([]int(nil), t.Shape...), Data: append([]float64(nil), t.Data...)}
}

func (t *Tensor) sameShape(other *Tensor) bool {
	if len(t.Shape) != len(other.Shape) {
		return false
	}
	for i := range t.Shape {
		if t.Shape[i] != other.Shape[i] {
			return false
		}
	}
	return true
}

// Parameters are the live trainable tensors of an evaluator.
type Parameters []*Tensor

// Count returns the total number of scalar parameters.
func (p Parameters) Count() int {
	n := 0
	for _, t := range p {
		n += t.Size()
	}
	return n
}

// Gradients hold one tensor per parameter tensor, shaped identically.
type Gradients []*Tensor

// Zeros returns an all-zero gradient shaped like params.
func Zeros(params Parameters) Gradients {
	g := make(Gradients, len(params))
	for i, p := range params {
		g[i] = NewTensor(p.Shape...)
	}
	return g
}

// SameShape reports whether g has exactly one tensor per parameter, each with the same shape.
func (g Gradients) SameShape(params Parameters) bool {
	if len(g) != len(params) {
		return false
	}
	for i := range g {
		if !g[i].sameShape(params[i]) {
			return false
		}
	}
	return true
}

func (g Gradients) mustMatch(other Gradients) {
	if !g.SameShape(Parameters(other)) {
		panic(fmt.Sprintf("gradient shape mismatch: %d vs %d tensors", len(g), len(other)))
	}
}

// Add accumulates other into g element-wise.
func (g Gradients) Add(other Gradients) {
	g.AddScaled(other, 1)
}

// AddScaled accumulates k*other into g element-wise.
func (g Gradients) AddScaled(other Gradients, k float64) {
	g.mustMatch(other)
	for i, t := range g {
		for j, v := range other[i].Data {
			t.Data[j] += k * v
		}
	}
}

func (g Gradients) Scale(k float64) {
	for _, t := range g {
		for j := range t.Data {
			t.Data[j] *= k
		}
	}
}

// Negate returns a negated copy of g.
func (g Gradients) Negate() Gradients {
	out := make(Gradients, len(g))
	for i, t := range g {
		out[i] = t.Clone()
	}
	out.Scale(-1)
	return out
}

// Norm is the Euclidean norm over all elements.
func (g Gradients) Norm() float64 {
	sum := 0.0
	for _, t := range g {
		for _, v := range t.Data {
			sum += v * v
		}
	}
	return math.Sqrt(sum)
}
