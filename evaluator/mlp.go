package evaluator

import (
	"tdchess/features"
	"tdchess/game"

	"golang.org/x/exp/rand"
)

// MLPHidden is the width of the hidden layer of the feature-vector network.
const MLPHidden = 64

// MLP scores the hand-engineered feature vector with one ReLU hidden layer and a tanh output.
type MLP struct {
	extractor features.Extractor
	w1, b1    *Tensor // [hidden, inputs], [hidden]
	w2, b2    *Tensor // [1, hidden], [1]
	hidden    activation
	output    activation
}

func NewMLP(rnd *rand.Rand) *MLP {
	extractor := features.NewVectorExtractor()
	inputs := extractor.Size()
	m := &MLP{
		extractor: extractor,
		w1:        NewTensor(MLPHidden, inputs),
		b1:        NewTensor(MLPHidden),
		w2:        NewTensor(1, MLPHidden),
		b2:        NewTensor(1),
		hidden:    relu{},
		output:    tanh{},
	}
	initUniform(rnd, m.w1.Data, 2.0/float64(inputs))
	initUniform(rnd, m.w2.Data, 2.0/float64(MLPHidden+1))
	return m
}

func (m *MLP) Name() string { return ModelMLP }

func (m *MLP) InputSize() int { return m.extractor.Size() }

func (m *MLP) Parameters() Parameters {
	return Parameters{m.w1, m.b1, m.w2, m.b2}
}

type mlpPass struct {
	input     []float64
	preact    []float64
	hidden    []float64
	outputPre float64
}

func (m *MLP) forward(pos game.Position) mlpPass {
	x := m.extractor.Encode(pos)
	p := mlpPass{
		input:  x,
		preact: make([]float64, MLPHidden),
		hidden: make([]float64, MLPHidden),
	}
	inputs := len(x)
	for j := 0; j < MLPHidden; j++ {
		z := m.b1.Data[j]
		row := m.w1.Data[j*inputs : (j+1)*inputs]
		for i, v := range x {
			z += row[i] * v
		}
		p.preact[j] = z
		p.hidden[j] = m.hidden.sigma(z)
	}
	z := m.b2.Data[0]
	for j, h := range p.hidden {
		z += m.w2.Data[j] * h
	}
	p.outputPre = z
	return p
}

func (m *MLP) Evaluate(pos game.Position) float64 {
	return m.output.sigma(m.forward(pos).outputPre)
}

func (m *MLP) Gradient(pos game.Position) Gradients {
	p := m.forward(pos)
	g := Zeros(m.Parameters())
	gw1, gb1, gw2, gb2 := g[0], g[1], g[2], g[3]

	d := m.output.sigmaPrime(p.outputPre)
	gb2.Data[0] = d
	inputs := len(p.input)
	for j := 0; j < MLPHidden; j++ {
		gw2.Data[j] = d * p.hidden[j]
		e := d * m.w2.Data[j] * m.hidden.sigmaPrime(p.preact[j])
		if e == 0 {
			continue
		}
		gb1.Data[j] = e
		row := gw1.Data[j*inputs : (j+1)*inputs]
		for i, v := range p.input {
			row[i] = e * v
		}
	}
	return g
}
