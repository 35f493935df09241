package metrics

import (
	"github.com/san-kum/sortviz/internal/animate"
	"github.com/san-kum/sortviz/internal/sorting"
)

type Metric interface {
	Name() string
	Observe(step sorting.Step, out animate.Outcome)
	Value() float64
	Reset()
}

// Counter counts steps accepted by its filter.
type Counter struct {
	name   string
	accept func(sorting.Step, animate.Outcome) bool
	n      int
}

func (c *Counter) Name() string { return c.name }

func (c *Counter) Observe(step sorting.Step, out animate.Outcome) {
	if c.accept(step, out) {
		c.n++
	}
}

func (c *Counter) Value() float64 { return float64(c.n) }
func (c *Counter) Reset()         { c.n = 0 }

func NewComparisons() *Counter {
	return &Counter{name: "comparisons", accept: func(s sorting.Step, _ animate.Outcome) bool {
		return s.Op == sorting.OpCompare
	}}
}

func NewExchanges() *Counter {
	return &Counter{name: "exchanges", accept: func(s sorting.Step, _ animate.Outcome) bool {
		return s.Op == sorting.OpExchange
	}}
}

// NewSelfExchanges counts exchanges of an element with itself, which the
// quick and selection drivers animate anyway.
func NewSelfExchanges() *Counter {
	return &Counter{name: "self_exchanges", accept: func(s sorting.Step, _ animate.Outcome) bool {
		return s.Op == sorting.OpExchange && s.A == s.B
	}}
}

func NewRelocations() *Counter {
	return &Counter{name: "relocations", accept: func(s sorting.Step, _ animate.Outcome) bool {
		return s.Op == sorting.OpLift
	}}
}

func NewStaleSteps() *Counter {
	return &Counter{name: "stale_steps", accept: func(_ sorting.Step, out animate.Outcome) bool {
		return out == animate.Stale
	}}
}

// Set fans animator steps out to its metrics.
type Set struct {
	metrics []Metric
}

func NewSet(ms ...Metric) *Set { return &Set{metrics: ms} }

// DefaultSet returns the metrics every run reports.
func DefaultSet() *Set {
	return NewSet(NewComparisons(), NewExchanges(), NewSelfExchanges(), NewRelocations(), NewStaleSteps())
}

func (s *Set) OnStep(step sorting.Step, out animate.Outcome) {
	for _, m := range s.metrics {
		m.Observe(step, out)
	}
}

func (s *Set) Reset() {
	for _, m := range s.metrics {
		m.Reset()
	}
}

func (s *Set) Values() map[string]float64 {
	v := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		v[m.Name()] = m.Value()
	}
	return v
}
