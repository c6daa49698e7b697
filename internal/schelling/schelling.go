// Package schelling implements the Schelling segregation model on a
// toroidal lattice. A cell's non-empty value is the agent: there is no
// separate identity record, agents are never destroyed, only relocated.
// In-tick move-order semantics are pinned in design doc Section 4.
package schelling

import (
	"fmt"
	"math"

	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/grid"
	"github.com/mkarlin/gridscape/internal/snapshot"
	"github.com/mkarlin/gridscape/internal/stats"
)

// Cell values. Empty cells hold no agent; TypeA and TypeB are the two
// agent populations.
type Cell = int8

const (
	Empty Cell = 0
	TypeA Cell = 1
	TypeB Cell = 2
)

// Config holds Schelling construction parameters.
type Config struct {
	Size      int     // Side length of the lattice
	Threshold float64 // Satisfaction threshold p: unhappy below this same-type fraction
	FracEmpty float64 // Weight of empty cells in the initial draw
	FracA     float64 // Weight of type A
	FracB     float64 // Weight of type B
}

// DefaultConfig returns the canonical 10% empty, even split setup.
func DefaultConfig(size int, threshold float64) Config {
	return Config{
		Size:      size,
		Threshold: threshold,
		FracEmpty: 0.1,
		FracA:     0.45,
		FracB:     0.45,
	}
}

// Validate checks construction parameters before any grid is built.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("schelling: size must be positive, got %d", c.Size)
	}
	if c.Threshold < 0 || c.Threshold > 1 {
		return fmt.Errorf("schelling: threshold must be in [0,1], got %v", c.Threshold)
	}
	sum := c.FracEmpty + c.FracA + c.FracB
	if math.Abs(sum-1) > 1e-9 {
		return fmt.Errorf("schelling: cell weights must sum to 1, got %v", sum)
	}
	if c.FracEmpty < 0 || c.FracA < 0 || c.FracB < 0 {
		return fmt.Errorf("schelling: cell weights must be non-negative")
	}
	return nil
}

// Model is the Schelling simulation driver. It owns the lattice and
// the segregation series; all randomness flows through src.
type Model struct {
	cfg    Config
	src    *entropy.Source
	cells  *grid.Lattice[Cell]
	tick   int
	series *stats.Series
}

// New builds a Schelling model with cells drawn from the weighted
// three-way distribution in cfg.
func New(cfg Config, src *entropy.Source) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Model{
		cfg:    cfg,
		src:    src,
		cells:  grid.NewLattice[Cell](cfg.Size),
		series: stats.NewSeries(),
	}
	m.cells.Each(func(c grid.Coord, _ Cell) {
		r := src.Float64()
		switch {
		case r < cfg.FracEmpty:
			m.cells.Set(c, Empty)
		case r < cfg.FracEmpty+cfg.FracA:
			m.cells.Set(c, TypeA)
		default:
			m.cells.Set(c, TypeB)
		}
	})
	return m, nil
}

// Name returns the model identifier used in snapshots and the archive.
func (m *Model) Name() string {
	return snapshot.ModelSchelling
}

// Tick returns the number of steps taken so far.
func (m *Model) Tick() int {
	return m.tick
}

// Series returns the per-tick segregation series.
func (m *Model) Series() *stats.Series {
	return m.series
}

// survey computes, in one sweep per tick, the empty mask and each
// occupied cell's fraction of same-type neighbors among its eight
// wrap-around neighbors. fracSame is NaN for empty cells; an occupied
// cell with zero live neighbors gets fraction 0 (fixed policy for a
// near-impossible state).
func (m *Model) survey() (empty *grid.Lattice[bool], fracSame *grid.Lattice[float64]) {
	numA := grid.CountNeighbors(m.cells, func(v Cell) bool { return v == TypeA })
	numB := grid.CountNeighbors(m.cells, func(v Cell) bool { return v == TypeB })

	empty = grid.NewLattice[bool](m.cfg.Size)
	fracSame = grid.NewLattice[float64](m.cfg.Size)

	m.cells.Each(func(c grid.Coord, v Cell) {
		if v == Empty {
			empty.Set(c, true)
			fracSame.Set(c, math.NaN())
			return
		}
		same := numA.At(c)
		if v == TypeB {
			same = numB.At(c)
		}
		live := numA.At(c) + numB.At(c)
		if live == 0 {
			fracSame.Set(c, 0)
			return
		}
		fracSame.Set(c, float64(same)/float64(live))
	})
	return empty, fracSame
}

// Segregation returns the current mean same-type fraction over
// occupied cells, ignoring empty cells.
func (m *Model) Segregation() float64 {
	_, fracSame := m.survey()
	return nanMean(fracSame)
}

// Step advances one tick: every unhappy occupant, visited in uniform
// random order, relocates to a uniformly drawn empty cell. Returns the
// mean segregation observed before this tick's moves.
func (m *Model) Step() float64 {
	empty, fracSame := m.survey()
	seg := nanMean(fracSame)

	var unhappy, emptyLocs []grid.Coord
	m.cells.Each(func(c grid.Coord, v Cell) {
		if empty.At(c) {
			emptyLocs = append(emptyLocs, c)
			return
		}
		// NaN never compares below the threshold, so only occupied
		// cells can be unhappy.
		if fracSame.At(c) < m.cfg.Threshold {
			unhappy = append(unhappy, c)
		}
	})

	// Move order is uniform random and matters within a tick: a later
	// mover can land in a cell vacated earlier in the same tick.
	m.src.Shuffle(len(unhappy), func(i, j int) {
		unhappy[i], unhappy[j] = unhappy[j], unhappy[i]
	})

	numEmpty := len(emptyLocs)
	if numEmpty > 0 {
		for _, source := range unhappy {
			// Consume one empty slot and replace it in place with the
			// vacated source, keeping the list size-consistent without
			// a rebuild.
			i := m.src.Intn(numEmpty)
			dest := emptyLocs[i]
			m.cells.Set(dest, m.cells.At(source))
			m.cells.Set(source, Empty)
			emptyLocs[i] = source
		}
	}

	if after := m.countEmpty(); after != numEmpty {
		panic(fmt.Sprintf("schelling: empty-cell count changed within a tick: %d -> %d", numEmpty, after))
	}

	m.tick++
	m.series.Append(seg)
	return seg
}

// Cells returns a row-major copy of the lattice contents.
func (m *Model) Cells() []Cell {
	return m.cells.Cells()
}

// Snapshot returns the read-only state view for this tick.
func (m *Model) Snapshot() any {
	return snapshot.SchellingV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			Model:   snapshot.ModelSchelling,
			Tick:    m.tick,
			Size:    m.cfg.Size,
		},
		Cells:       m.cells.Cells(),
		Segregation: m.Segregation(),
	}
}

func (m *Model) countEmpty() int {
	n := 0
	m.cells.Each(func(_ grid.Coord, v Cell) {
		if v == Empty {
			n++
		}
	})
	return n
}

// nanMean averages the non-NaN entries of the lattice.
func nanMean(l *grid.Lattice[float64]) float64 {
	sum, n := 0.0, 0
	l.Each(func(_ grid.Coord, v float64) {
		if !math.IsNaN(v) {
			sum += v
			n++
		}
	})
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}
