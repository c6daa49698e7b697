package sugarscape

import (
	"fmt"

	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/grid"
	"github.com/mkarlin/gridscape/internal/snapshot"
	"github.com/mkarlin/gridscape/internal/stats"
)

// Config holds Sugarscape construction parameters.
type Config struct {
	Size          int     // Side length of the lattice
	NumAgents     int     // Initial population
	MaxVision     int     // Vision drawn uniformly from [1, MaxVision]
	MaxMetabolism float64 // Metabolism drawn uniformly from [1, MaxMetabolism)
	MinLifespan   float64 // Lifespan drawn uniformly from [MinLifespan, MaxLifespan)
	MaxLifespan   float64
	MinSugar      float64 // Starting sugar drawn uniformly from [MinSugar, MaxSugar)
	MaxSugar      float64
	GrowRate      float64 // Sugar regrowth per tick, clamped to capacity

	// StartingBox restricts initial placement to the sub-rectangle
	// [0,Rows) x [0,Cols). Zero values mean the full grid.
	StartingBox [2]int

	// Replace spawns one fresh agent at a random unoccupied cell for
	// every death, holding the population constant.
	Replace bool

	// Landscape selects the capacity profile: LandscapePeaks (default)
	// or LandscapeNoise.
	Landscape string
	Peaks     []grid.Coord // Peak coordinates for LandscapePeaks; nil means DefaultPeaks
}

// DefaultConfig returns the canonical 50-cell, 400-agent setup.
func DefaultConfig() Config {
	return Config{
		Size:          50,
		NumAgents:     400,
		MaxVision:     6,
		MaxMetabolism: 4,
		MinLifespan:   10000,
		MaxLifespan:   10000,
		MinSugar:      5,
		MaxSugar:      25,
		GrowRate:      1,
		Landscape:     LandscapePeaks,
	}
}

// Validate checks construction parameters before any grid is built.
func (c Config) Validate() error {
	if c.Size <= 0 {
		return fmt.Errorf("sugarscape: size must be positive, got %d", c.Size)
	}
	if c.NumAgents < 0 {
		return fmt.Errorf("sugarscape: num_agents must be non-negative, got %d", c.NumAgents)
	}
	if c.MaxVision < 1 {
		return fmt.Errorf("sugarscape: max_vision must be at least 1, got %d", c.MaxVision)
	}
	if c.MaxMetabolism < 1 {
		return fmt.Errorf("sugarscape: max_metabolism must be at least 1, got %v", c.MaxMetabolism)
	}
	if c.MaxLifespan < c.MinLifespan {
		return fmt.Errorf("sugarscape: max_lifespan %v below min_lifespan %v", c.MaxLifespan, c.MinLifespan)
	}
	if c.MaxSugar < c.MinSugar {
		return fmt.Errorf("sugarscape: max_sugar %v below min_sugar %v", c.MaxSugar, c.MinSugar)
	}
	if c.GrowRate < 0 {
		return fmt.Errorf("sugarscape: grow_rate must be non-negative, got %v", c.GrowRate)
	}
	switch c.Landscape {
	case "", LandscapePeaks, LandscapeNoise:
	default:
		return fmt.Errorf("sugarscape: unknown landscape %q", c.Landscape)
	}
	rows, cols := c.startingBox()
	if rows > c.Size || cols > c.Size {
		return fmt.Errorf("sugarscape: starting_box %dx%d exceeds grid size %d", rows, cols, c.Size)
	}
	if c.NumAgents > rows*cols {
		return fmt.Errorf("sugarscape: %d agents cannot fit the %dx%d starting box", c.NumAgents, rows, cols)
	}
	return nil
}

func (c Config) startingBox() (rows, cols int) {
	rows, cols = c.StartingBox[0], c.StartingBox[1]
	if rows <= 0 {
		rows = c.Size
	}
	if cols <= 0 {
		cols = c.Size
	}
	return rows, cols
}

// Model is the Sugarscape simulation driver. It exclusively owns the
// landscape, the agent population, and the occupancy index; the index
// is kept in exact bijection with the agents' locations.
type Model struct {
	cfg      Config
	src      *entropy.Source
	land     *Landscape
	agents   []*Agent
	occupied map[grid.Coord]struct{}
	tick     int
	series   *stats.Series
}

// New builds the landscape and places the initial population at
// distinct cells drawn from the starting box. Fails before any grid
// is produced when the population cannot fit.
func New(cfg Config, src *entropy.Source) (*Model, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var land *Landscape
	switch cfg.Landscape {
	case LandscapeNoise:
		land = NewNoiseLandscape(cfg.Size, src.Seed(), cfg.GrowRate)
	default:
		peaks := cfg.Peaks
		if len(peaks) == 0 {
			peaks = DefaultPeaks(cfg.Size)
		}
		land = NewPeakLandscape(cfg.Size, peaks, cfg.GrowRate)
	}

	m := &Model{
		cfg:      cfg,
		src:      src,
		land:     land,
		occupied: make(map[grid.Coord]struct{}, cfg.NumAgents),
		series:   stats.NewSeries(),
	}

	rows, cols := cfg.startingBox()
	locs := make([]grid.Coord, 0, rows*cols)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			locs = append(locs, grid.Coord{Row: r, Col: c})
		}
	}
	src.Shuffle(len(locs), func(i, j int) {
		locs[i], locs[j] = locs[j], locs[i]
	})

	m.agents = make([]*Agent, 0, cfg.NumAgents)
	for i := 0; i < cfg.NumAgents; i++ {
		a := newAgent(locs[i], cfg, src)
		m.agents = append(m.agents, a)
		m.occupied[a.Loc] = struct{}{}
	}
	return m, nil
}

// Name returns the model identifier used in snapshots and the archive.
func (m *Model) Name() string {
	return snapshot.ModelSugarscape
}

// Tick returns the number of steps taken so far.
func (m *Model) Tick() int {
	return m.tick
}

// Series returns the per-tick population series.
func (m *Model) Series() *stats.Series {
	return m.series
}

// Population returns the current number of live agents.
func (m *Model) Population() int {
	return len(m.agents)
}

// Landscape exposes the sugar field for read-only inspection.
func (m *Model) Landscape() *Landscape {
	return m.land
}

// Agents returns a copy of the agent list for external reporting.
func (m *Model) Agents() []Agent {
	out := make([]Agent, len(m.agents))
	for i, a := range m.agents {
		out[i] = *a
	}
	return out
}

// lookAndMove returns the best destination visible from center: the
// unoccupied visible cell with the maximum sugar, ties broken in favor
// of proximity by the distance-ascending enumeration of the rings.
// When every visible cell is occupied the agent stays put.
func (m *Model) lookAndMove(center grid.Coord, vision int) grid.Coord {
	best := center
	bestSugar := -1.0
	found := false

	for _, off := range grid.VisibilityOffsets(vision, m.src) {
		loc := m.land.resource.Wrap(grid.Coord{Row: center.Row + off.Row, Col: center.Col + off.Col})
		if _, taken := m.occupied[loc]; taken {
			continue
		}
		// Strict comparison keeps the first (closest) cell on ties.
		if sugar := m.land.Resource(loc); !found || sugar > bestSugar {
			best = loc
			bestSugar = sugar
			found = true
		}
	}
	return best
}

// harvest reads and zeroes the sugar at loc.
func (m *Model) harvest(loc grid.Coord) float64 {
	return m.land.Harvest(loc)
}

// Step advances one tick. The population is visited in a fresh
// uniform permutation; each agent's cell is released before it
// decides, so contested cells go to whoever is processed first.
// Returns the population after the tick.
func (m *Model) Step() float64 {
	perm := m.src.Perm(len(m.agents))
	dead := make([]bool, len(m.agents))

	for _, idx := range perm {
		a := m.agents[idx]
		delete(m.occupied, a.Loc)

		a.step(m)

		if a.starving() || a.old() {
			dead[idx] = true
			if m.cfg.Replace {
				m.addAgent()
			}
		} else {
			m.occupied[a.Loc] = struct{}{}
		}
	}

	// Mark-and-compact removal: replacements appended during the loop
	// sit past len(dead) and are always kept.
	survivors := make([]*Agent, 0, len(m.agents))
	for i, a := range m.agents {
		if i < len(dead) && dead[i] {
			continue
		}
		survivors = append(survivors, a)
	}
	m.agents = survivors

	if len(m.occupied) != len(m.agents) {
		panic(fmt.Sprintf("sugarscape: occupancy index out of sync: %d occupied, %d agents",
			len(m.occupied), len(m.agents)))
	}

	m.tick++
	m.series.Append(float64(len(m.agents)))
	m.land.Grow()
	return float64(len(m.agents))
}

// addAgent spawns a replacement at a uniformly random unoccupied cell.
// A free cell always exists here: the dying agent's cell was released
// and never re-claimed.
func (m *Model) addAgent() {
	loc := m.randomUnoccupied()
	a := newAgent(loc, m.cfg, m.src)
	m.agents = append(m.agents, a)
	m.occupied[a.Loc] = struct{}{}
}

func (m *Model) randomUnoccupied() grid.Coord {
	for {
		loc := grid.Coord{Row: m.src.Intn(m.cfg.Size), Col: m.src.Intn(m.cfg.Size)}
		if _, taken := m.occupied[loc]; !taken {
			return loc
		}
	}
}

// Snapshot returns the read-only state view for this tick.
func (m *Model) Snapshot() any {
	agents := make([]snapshot.AgentV1, len(m.agents))
	for i, a := range m.agents {
		agents[i] = snapshot.AgentV1{
			Loc:        a.Loc,
			Age:        a.Age,
			Vision:     a.Vision,
			Metabolism: a.Metabolism,
			Sugar:      a.Sugar,
		}
	}
	return snapshot.SugarscapeV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			Model:   snapshot.ModelSugarscape,
			Tick:    m.tick,
			Size:    m.cfg.Size,
		},
		Resource: m.land.ResourceCells(),
		Capacity: m.land.CapacityCells(),
		Agents:   agents,
	}
}
