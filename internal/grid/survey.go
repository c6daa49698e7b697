package grid

import "github.com/mkarlin/gridscape/internal/entropy"

// KernelOffsets is the fixed 3x3 survey kernel with the center
// excluded: the eight neighbors used by the Schelling survey.
var KernelOffsets = [8]Coord{
	{Row: -1, Col: -1}, {Row: -1, Col: 0}, {Row: -1, Col: 1},
	{Row: 0, Col: -1}, {Row: 0, Col: 1},
	{Row: 1, Col: -1}, {Row: 1, Col: 0}, {Row: 1, Col: 1},
}

// CountNeighbors returns, for every cell, the number of the eight
// wrap-around neighbors whose value satisfies match. One pass over the
// lattice; the boundary wraps toroidally, it is never clamped.
func CountNeighbors[T any](l *Lattice[T], match func(v T) bool) *Lattice[int] {
	counts := NewLattice[int](l.Size())
	l.Each(func(c Coord, _ T) {
		n := 0
		for _, off := range KernelOffsets {
			at := Coord{Row: c.Row + off.Row, Col: c.Col + off.Col}
			if match(l.At(at)) {
				n++
			}
		}
		counts.Set(c, n)
	})
	return counts
}

// VisibilityOffsets builds the vision-limited view used by Sugarscape
// agents: for each distance 1..vision, the four axis-aligned offsets
// at that distance (no diagonals). Each distance ring is shuffled
// independently and the rings are concatenated distance-ascending, so
// a first-match scan over the result prefers closer cells under ties.
// The shuffle affects only tie-break order, not which distances are
// visible.
func VisibilityOffsets(vision int, src *entropy.Source) []Coord {
	offsets := make([]Coord, 0, 4*vision)
	for d := 1; d <= vision; d++ {
		ring := []Coord{
			{Row: -d, Col: 0},
			{Row: d, Col: 0},
			{Row: 0, Col: -d},
			{Row: 0, Col: d},
		}
		src.Shuffle(len(ring), func(i, j int) {
			ring[i], ring[j] = ring[j], ring[i]
		})
		offsets = append(offsets, ring...)
	}
	return offsets
}
