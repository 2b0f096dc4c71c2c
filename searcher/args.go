package searcher

import (
	"tdchess/experiments/metrics"
	"tdchess/meta"

	"golang.org/x/exp/rand"
)

type settings struct {
	rnd        *rand.Rand
	drawMargin float64
	depth      int
	metrics    metrics.Collector
}

type Option func(s *settings)

// WithRand sets the source used to break ties inside the chosen outcome bucket.
func WithRand(rnd *rand.Rand) Option {
	return func(s *settings) {
		if rnd != nil {
			s.rnd = rnd
		}
	}
}

func WithDrawMargin(margin float64) Option {
	return func(s *settings) {
		if margin >= 0 {
			s.drawMargin = margin
		}
	}
}

func WithDepth(depth int) Option {
	return func(s *settings) {
		if depth > 0 {
			s.depth = depth
		}
	}
}

func WithMetrics(collector metrics.Collector) Option {
	return func(s *settings) {
		if collector != nil {
			s.metrics = collector
		}
	}
}

func newSettings(options []Option) settings {
	s := settings{ // Default values
		drawMargin: meta.DRAW_MARGIN,
		depth:      meta.SEARCH_DEPTH,
		metrics:    metrics.NewDummyCollector(),
	}
	for _, option := range options {
		option(&s)
	}
	if s.rnd == nil {
		s.rnd = rand.New(rand.NewSource(meta.RANDOM_SEED))
	}
	return s
}
