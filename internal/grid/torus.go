// Package grid provides the toroidal square lattice and the
// neighborhood machinery shared by every model: wrap-around
// addressing, the 3x3 survey kernel, and vision-limited rings.
// Index arithmetic wraps modulo size in both dimensions, so the
// lattice is topologically a torus.
package grid

// Coord is a cell position on the lattice.
type Coord struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

// Lattice is a fixed-size size x size cell array with toroidal
// addressing: any coordinate is valid and wraps onto the lattice.
type Lattice[T any] struct {
	size  int
	cells []T
}

// NewLattice creates a size x size lattice of zero values.
func NewLattice[T any](size int) *Lattice[T] {
	return &Lattice[T]{
		size:  size,
		cells: make([]T, size*size),
	}
}

// Size returns the side length.
func (l *Lattice[T]) Size() int {
	return l.size
}

// Wrap maps an arbitrary coordinate onto the lattice.
func (l *Lattice[T]) Wrap(c Coord) Coord {
	return Coord{
		Row: mod(c.Row, l.size),
		Col: mod(c.Col, l.size),
	}
}

// At returns the cell value at c, wrapping as needed.
func (l *Lattice[T]) At(c Coord) T {
	return l.cells[l.index(c)]
}

// Set stores v at c, wrapping as needed.
func (l *Lattice[T]) Set(c Coord, v T) {
	l.cells[l.index(c)] = v
}

// Cells returns a copy of the raw cell slice in row-major order.
func (l *Lattice[T]) Cells() []T {
	out := make([]T, len(l.cells))
	copy(out, l.cells)
	return out
}

// Each visits every cell in row-major order.
func (l *Lattice[T]) Each(fn func(c Coord, v T)) {
	for i, v := range l.cells {
		fn(Coord{Row: i / l.size, Col: i % l.size}, v)
	}
}

// Clone returns a deep copy of the lattice.
func (l *Lattice[T]) Clone() *Lattice[T] {
	out := NewLattice[T](l.size)
	copy(out.cells, l.cells)
	return out
}

func (l *Lattice[T]) index(c Coord) int {
	w := l.Wrap(c)
	return w.Row*l.size + w.Col
}

// mod is the floored modulo, correct for negative operands.
func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}
