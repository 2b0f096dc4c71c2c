package evaluator

import (
	"tdchess/features"
	"tdchess/game"

	"golang.org/x/exp/rand"
)

const (
	// CNNFilters is the number of 3x3 convolution filters.
	CNNFilters = 8
	kernel     = 3
	boardSide  = 8
)

// CNN scores the plane encoding with one zero-padded 3x3 convolution (ReLU) followed by a
// dense tanh output over the flattened feature maps.
type CNN struct {
	extractor features.Extractor
	conv      *Tensor // [filters, planes, 3, 3]
	convBias  *Tensor // [filters]
	dense     *Tensor // [1, filters*64]
	denseBias *Tensor // [1]
	hidden    activation
	output    activation
}

func NewCNN(rnd *rand.Rand) *CNN {
	flat := CNNFilters * features.PlaneSize
	c := &CNN{
		extractor: features.NewPlaneExtractor(),
		conv:      NewTensor(CNNFilters, features.PlaneCount, kernel, kernel),
		convBias:  NewTensor(CNNFilters),
		dense:     NewTensor(1, flat),
		denseBias: NewTensor(1),
		hidden:    relu{},
		output:    tanh{},
	}
	initUniform(rnd, c.conv.Data, 2.0/float64(features.PlaneCount*kernel*kernel))
	initUniform(rnd, c.dense.Data, 2.0/float64(flat+1))
	return c
}

func (c *CNN) Name() string { return ModelCNN }

func (c *CNN) InputSize() int { return c.extractor.Size() }

func (c *CNN) Parameters() Parameters {
	return Parameters{c.conv, c.convBias, c.dense, c.denseBias}
}

func kernelIndex(filter, plane, u, v int) int {
	return ((filter*features.PlaneCount+plane)*kernel+u)*kernel + v
}

type cnnPass struct {
	input     []float64
	preact    []float64 // [filters*64]
	maps      []float64
	outputPre float64
}

// visit calls fn for every in-bounds (input square, kernel offset) pair of output square (r, f).
func visit(r, f int, fn func(sq, u, v int)) {
	for u := 0; u < kernel; u++ {
		rr := r + u - 1
		if rr < 0 || rr >= boardSide {
			continue
		}
		for v := 0; v < kernel; v++ {
			ff := f + v - 1
			if ff < 0 || ff >= boardSide {
				continue
			}
			fn(rr*boardSide+ff, u, v)
		}
	}
}

func (c *CNN) forward(pos game.Position) cnnPass {
	x := c.extractor.Encode(pos)
	flat := CNNFilters * features.PlaneSize
	p := cnnPass{input: x, preact: make([]float64, flat), maps: make([]float64, flat)}

	for k := 0; k < CNNFilters; k++ {
		for r := 0; r < boardSide; r++ {
			for f := 0; f < boardSide; f++ {
				z := c.convBias.Data[k]
				visit(r, f, func(sq, u, v int) {
					for plane := 0; plane < features.PlaneCount; plane++ {
						z += c.conv.Data[kernelIndex(k, plane, u, v)] * x[plane*features.PlaneSize+sq]
					}
				})
				out := k*features.PlaneSize + r*boardSide + f
				p.preact[out] = z
				p.maps[out] = c.hidden.sigma(z)
			}
		}
	}

	z := c.denseBias.Data[0]
	for i, a := range p.maps {
		z += c.dense.Data[i] * a
	}
	p.outputPre = z
	return p
}

func (c *CNN) Evaluate(pos game.Position) float64 {
	return c.output.sigma(c.forward(pos).outputPre)
}

func (c *CNN) Gradient(pos game.Position) Gradients {
	p := c.forward(pos)
	g := Zeros(c.Parameters())
	gConv, gConvBias, gDense, gDenseBias := g[0], g[1], g[2], g[3]

	d := c.output.sigmaPrime(p.outputPre)
	gDenseBias.Data[0] = d
	for k := 0; k < CNNFilters; k++ {
		for r := 0; r < boardSide; r++ {
			for f := 0; f < boardSide; f++ {
				out := k*features.PlaneSize + r*boardSide + f
				gDense.Data[out] = d * p.maps[out]
				e := d * c.dense.Data[out] * c.hidden.sigmaPrime(p.preact[out])
				if e == 0 {
					continue
				}
				gConvBias.Data[k] += e
				visit(r, f, func(sq, u, v int) {
					for plane := 0; plane < features.PlaneCount; plane++ {
						gConv.Data[kernelIndex(k, plane, u, v)] += e * p.input[plane*features.PlaneSize+sq]
					}
				})
			}
		}
	}
	return g
}
