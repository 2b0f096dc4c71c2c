package metrics

import (
	"sync/atomic"
	"time"
)

// SearchMetric summarises one move selection or leaf search.
type SearchMetric struct {
	Depth       int
	Duration    time.Duration
	Evaluations int
	Nodes       int
	Cutoffs     int
}

// RolloutMetric summarises one self-play rollout of the training loop.
type RolloutMetric struct {
	Iteration    int
	Seed         string
	Plies        int
	Termination  string
	FinalScore   float64
	GradientNorm float64
	Duration     time.Duration
	Evaluations  int
}

// GameMetric records one benchmark game, from the trained agent's side.
type GameMetric struct {
	Iteration   int
	Seed        string
	TrainedSide string
	Outcome     string // win, draw or loss
	Termination string
	Plies       int
	Duration    time.Duration
}

// Collector counts search work. Implementations are safe for concurrent use.
type Collector interface {
	Start(depth int)
	AddEvaluation()
	AddNode()
	AddCutoff()
	Complete() SearchMetric
}

type collector struct {
	depth       int
	startTime   time.Time
	evaluations atomic.Int64
	nodes       atomic.Int64
	cutoffs     atomic.Int64
}

func NewCollector() Collector {
	return &collector{}
}

func (m *collector) Start(depth int) {
	m.startTime = time.Now()
	m.depth = depth
	m.evaluations.Store(0)
	m.nodes.Store(0)
	m.cutoffs.Store(0)
}

func (m *collector) AddEvaluation() {
	m.evaluations.Add(1)
}

func (m *collector) AddNode() {
	m.nodes.Add(1)
}

func (m *collector) AddCutoff() {
	m.cutoffs.Add(1)
}

func (m *collector) Complete() SearchMetric {
	return SearchMetric{
		Depth:       m.depth,
		Duration:    time.Since(m.startTime),
		Evaluations: int(m.evaluations.Load()),
		Nodes:       int(m.nodes.Load()),
		Cutoffs:     int(m.cutoffs.Load()),
	}
}

type dummyCollector struct{}

func NewDummyCollector() Collector {
	return &dummyCollector{}
}

func (m *dummyCollector) Start(depth int)        {}
func (m *dummyCollector) AddEvaluation()         {}
func (m *dummyCollector) AddNode()               {}
func (m *dummyCollector) AddCutoff()             {}
func (m *dummyCollector) Complete() SearchMetric { return SearchMetric{} }
