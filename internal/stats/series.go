// Package stats accumulates per-tick scalar time series. The recorder
// observes simulation state and never mutates it.
package stats

import "math"

// Series is an append-only ordered sequence of per-tick scalars.
// Only the owning model appends; everyone else reads.
type Series struct {
	values []float64
}

// NewSeries creates an empty series.
func NewSeries() *Series {
	return &Series{}
}

// Append records the next tick's value.
func (s *Series) Append(v float64) {
	s.values = append(s.values, v)
}

// Len returns the number of recorded ticks.
func (s *Series) Len() int {
	return len(s.values)
}

// At returns the value recorded for tick i (0-based).
func (s *Series) At(i int) float64 {
	return s.values[i]
}

// Last returns the most recent value, or NaN when empty.
func (s *Series) Last() float64 {
	if len(s.values) == 0 {
		return math.NaN()
	}
	return s.values[len(s.values)-1]
}

// Values returns a copy of the full series.
func (s *Series) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Mean returns the arithmetic mean of the series, or NaN when empty.
func (s *Series) Mean() float64 {
	if len(s.values) == 0 {
		return math.NaN()
	}
	sum := 0.0
	for _, v := range s.values {
		sum += v
	}
	return sum / float64(len(s.values))
}
