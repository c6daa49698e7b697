// Package sugarscape implements the Sugarscape resource-economy model:
// a regrowing sugar field on a toroidal lattice and a population of
// trait-bearing agents that look, move, harvest, age, and die.
package sugarscape

import (
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/mkarlin/gridscape/internal/grid"
)

// Landscape kinds selectable at construction.
const (
	LandscapePeaks = "peaks" // classic two-peak sugar mountains
	LandscapeNoise = "noise" // simplex-noise terrain
)

// capacityEdges are the distance thresholds that bin distance-to-peak
// into capacity tiers: a cell closer than 6 to a peak gets tier 4,
// farther than 21 gets tier 0.
var capacityEdges = [4]float64{21, 16, 11, 6}

// maxCapacityTier is the highest capacity a cell can hold.
const maxCapacityTier = 4

// Landscape is the sugar field: an immutable capacity ceiling per cell
// and a current resource level that regrows toward it.
type Landscape struct {
	size     int
	growRate float64
	capacity *grid.Lattice[int]
	resource *grid.Lattice[float64]
}

// NewPeakLandscape builds the two-peak mountain profile: each cell's
// capacity tier decreases with Euclidean distance from the nearer
// peak. Resource starts at capacity.
func NewPeakLandscape(size int, peaks []grid.Coord, growRate float64) *Landscape {
	l := newLandscape(size, growRate)
	l.capacity.Each(func(c grid.Coord, _ int) {
		nearest := math.Inf(1)
		for _, p := range peaks {
			d := math.Hypot(float64(c.Row-p.Row), float64(c.Col-p.Col))
			if d < nearest {
				nearest = d
			}
		}
		l.capacity.Set(c, digitize(nearest))
	})
	l.resetResource()
	return l
}

// DefaultPeaks places the two classic peaks at 30% and 70% of the
// diagonal, which reproduces (15,15) and (35,35) on a 50-cell grid.
func DefaultPeaks(size int) []grid.Coord {
	return []grid.Coord{
		{Row: size * 3 / 10, Col: size * 3 / 10},
		{Row: size * 7 / 10, Col: size * 7 / 10},
	}
}

// NewNoiseLandscape derives capacity tiers from normalized simplex
// noise instead of the two-peak profile. Same tier range, same growth
// dynamics; only the terrain shape differs.
func NewNoiseLandscape(size int, seed int64, growRate float64) *Landscape {
	noise := opensimplex.NewNormalized(seed)
	const freq = 0.12

	l := newLandscape(size, growRate)
	l.capacity.Each(func(c grid.Coord, _ int) {
		v := noise.Eval2(float64(c.Col)*freq, float64(c.Row)*freq)
		tier := int(v * float64(maxCapacityTier+1))
		if tier > maxCapacityTier {
			tier = maxCapacityTier
		}
		l.capacity.Set(c, tier)
	})
	l.resetResource()
	return l
}

func newLandscape(size int, growRate float64) *Landscape {
	return &Landscape{
		size:     size,
		growRate: growRate,
		capacity: grid.NewLattice[int](size),
		resource: grid.NewLattice[float64](size),
	}
}

func (l *Landscape) resetResource() {
	l.capacity.Each(func(c grid.Coord, cap int) {
		l.resource.Set(c, float64(cap))
	})
}

// Size returns the side length of the field.
func (l *Landscape) Size() int {
	return l.size
}

// Capacity returns the immutable capacity tier at c.
func (l *Landscape) Capacity(c grid.Coord) int {
	return l.capacity.At(c)
}

// Resource returns the current sugar level at c.
func (l *Landscape) Resource(c grid.Coord) float64 {
	return l.resource.At(c)
}

// Harvest reads and zeroes the sugar at c, returning the pre-zero
// value.
func (l *Landscape) Harvest(c grid.Coord) float64 {
	sugar := l.resource.At(c)
	l.resource.Set(c, 0)
	return sugar
}

// Grow adds the growth rate to every cell, clamped elementwise to the
// cell's capacity. Monotone, saturating regrowth.
func (l *Landscape) Grow() {
	l.resource.Each(func(c grid.Coord, v float64) {
		next := v + l.growRate
		if cap := float64(l.capacity.At(c)); next > cap {
			next = cap
		}
		l.resource.Set(c, next)
	})
}

// ResourceCells returns a row-major copy of the sugar field.
func (l *Landscape) ResourceCells() []float64 {
	return l.resource.Cells()
}

// CapacityCells returns a row-major copy of the capacity field.
func (l *Landscape) CapacityCells() []int {
	return l.capacity.Cells()
}

// digitize bins a distance into a capacity tier: the count of edges
// strictly greater than d, so smaller distances land in higher tiers.
func digitize(d float64) int {
	tier := 0
	for _, edge := range capacityEdges {
		if edge > d {
			tier++
		}
	}
	return tier
}
