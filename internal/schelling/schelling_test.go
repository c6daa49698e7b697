package schelling

import (
	"testing"

	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/grid"
)

func countCells(m *Model, c Cell) int {
	n := 0
	for _, v := range m.Cells() {
		if v == c {
			n++
		}
	}
	return n
}

func TestConfigValidation(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"zero size", Config{Size: 0, Threshold: 0.3, FracEmpty: 0.1, FracA: 0.45, FracB: 0.45}},
		{"threshold above one", Config{Size: 10, Threshold: 1.5, FracEmpty: 0.1, FracA: 0.45, FracB: 0.45}},
		{"weights not normalized", Config{Size: 10, Threshold: 0.3, FracEmpty: 0.5, FracA: 0.5, FracB: 0.5}},
	}
	for _, tc := range cases {
		if _, err := New(tc.cfg, entropy.New(1)); err == nil {
			t.Errorf("%s: expected a construction error", tc.name)
		}
	}
}

func TestFirstStepMetricAndConservation(t *testing.T) {
	m, err := New(DefaultConfig(10, 0.3), entropy.New(17))
	if err != nil {
		t.Fatal(err)
	}

	occupiedBefore := 100 - countCells(m, Empty)
	emptyBefore := countCells(m, Empty)

	seg := m.Step()
	if seg < 0 || seg > 1 {
		t.Fatalf("segregation = %v, want a value in [0,1]", seg)
	}

	if got := 100 - countCells(m, Empty); got != occupiedBefore {
		t.Errorf("occupied cells changed: %d -> %d", occupiedBefore, got)
	}
	if got := countCells(m, Empty); got != emptyBefore {
		t.Errorf("empty cells changed: %d -> %d", emptyBefore, got)
	}
	if got := countCells(m, Empty) + (100 - countCells(m, Empty)); got != 100 {
		t.Errorf("cell total = %d, want size^2", got)
	}
}

func TestTypeCountsConservedAcrossManyTicks(t *testing.T) {
	m, err := New(DefaultConfig(20, 0.4), entropy.New(5))
	if err != nil {
		t.Fatal(err)
	}

	wantA := countCells(m, TypeA)
	wantB := countCells(m, TypeB)

	for i := 0; i < 30; i++ {
		m.Step()
		if a := countCells(m, TypeA); a != wantA {
			t.Fatalf("tick %d: type A count %d, want %d", i, a, wantA)
		}
		if b := countCells(m, TypeB); b != wantB {
			t.Fatalf("tick %d: type B count %d, want %d", i, b, wantB)
		}
	}
}

func TestAllSatisfiedGridIsFixedPoint(t *testing.T) {
	// Homogeneous occupied blocks with a fully-empty stripe between
	// them would have boundary effects; simplest all-satisfied grid is
	// single-type occupancy. Every occupied cell sees only same-type
	// neighbors, so frac_same == 1 everywhere occupied.
	m, err := New(Config{Size: 6, Threshold: 0.9, FracEmpty: 0, FracA: 1, FracB: 0}, entropy.New(2))
	if err != nil {
		t.Fatal(err)
	}

	before := m.Cells()
	seg := m.Step()
	if seg != 1 {
		t.Fatalf("segregation of homogeneous grid = %v, want 1", seg)
	}
	after := m.Cells()
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("cell %d moved on an all-satisfied grid", i)
		}
	}
}

func TestDeterminismAcrossRuns(t *testing.T) {
	run := func() []Cell {
		m, err := New(DefaultConfig(15, 0.35), entropy.New(99))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 25; i++ {
			m.Step()
		}
		return m.Cells()
	}

	a := run()
	b := run()
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("trajectories diverged at cell %d after 25 ticks", i)
		}
	}
}

func TestSegregationRisesFromRandomStart(t *testing.T) {
	m, err := New(DefaultConfig(25, 0.3), entropy.New(8))
	if err != nil {
		t.Fatal(err)
	}

	first := m.Step()
	var last float64
	for i := 0; i < 60; i++ {
		last = m.Step()
	}
	if last <= first {
		t.Errorf("segregation did not rise: first %v, after 60 ticks %v", first, last)
	}
	if m.Series().Len() != 61 {
		t.Errorf("series length = %d, want 61", m.Series().Len())
	}
}

func TestSurveyZeroNeighborPolicy(t *testing.T) {
	// A lone occupant on an otherwise empty torus has zero live
	// neighbors; its same-type fraction is defined as 0, making it
	// unhappy under any positive threshold but never an error.
	m, err := New(Config{Size: 5, Threshold: 0.3, FracEmpty: 1, FracA: 0, FracB: 0}, entropy.New(3))
	if err != nil {
		t.Fatal(err)
	}
	m.cells.Set(grid.Coord{Row: 2, Col: 2}, TypeA)

	seg := m.Step()
	if seg != 0 {
		t.Fatalf("lone occupant segregation = %v, want 0", seg)
	}
	if got := countCells(m, TypeA); got != 1 {
		t.Fatalf("occupant count = %d, want 1", got)
	}
}
