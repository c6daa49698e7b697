package sugarscape

import (
	"testing"

	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/grid"
)

func smallConfig() Config {
	cfg := DefaultConfig()
	cfg.Size = 20
	cfg.NumAgents = 30
	return cfg
}

func TestConstructionRejectsOvercrowdedStartingBox(t *testing.T) {
	cfg := smallConfig()
	cfg.StartingBox = [2]int{3, 3}
	cfg.NumAgents = 10 // 9 cells available

	if _, err := New(cfg, entropy.New(1)); err == nil {
		t.Fatal("expected a construction error for 10 agents in a 3x3 box")
	}
}

func TestStartingBoxBoundsPlacement(t *testing.T) {
	cfg := smallConfig()
	cfg.StartingBox = [2]int{5, 5}
	cfg.NumAgents = 25

	m, err := New(cfg, entropy.New(4))
	if err != nil {
		t.Fatal(err)
	}
	for _, a := range m.Agents() {
		if a.Loc.Row >= 5 || a.Loc.Col >= 5 {
			t.Errorf("agent at %v placed outside the 5x5 starting box", a.Loc)
		}
	}
}

func TestOccupancyBijectionEveryTick(t *testing.T) {
	m, err := New(smallConfig(), entropy.New(21))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 50; i++ {
		m.Step()

		if len(m.occupied) != len(m.agents) {
			t.Fatalf("tick %d: %d occupied cells vs %d agents", i, len(m.occupied), len(m.agents))
		}
		seen := make(map[grid.Coord]bool)
		for _, a := range m.agents {
			if seen[a.Loc] {
				t.Fatalf("tick %d: two agents share cell %v", i, a.Loc)
			}
			seen[a.Loc] = true
			if _, ok := m.occupied[a.Loc]; !ok {
				t.Fatalf("tick %d: agent cell %v missing from occupancy index", i, a.Loc)
			}
		}
	}
}

func TestResourceStaysWithinCapacity(t *testing.T) {
	m, err := New(smallConfig(), entropy.New(13))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 40; i++ {
		m.Step()
		res := m.land.ResourceCells()
		caps := m.land.CapacityCells()
		for j := range res {
			if res[j] < 0 || res[j] > float64(caps[j]) {
				t.Fatalf("tick %d: cell %d resource %v outside [0,%d]", i, j, res[j], caps[j])
			}
		}
	}
}

func TestStarvingAgentRemovedSameTick(t *testing.T) {
	cfg := smallConfig()
	cfg.NumAgents = 5
	m, err := New(cfg, entropy.New(6))
	if err != nil {
		t.Fatal(err)
	}

	// The richest reachable cell holds at most maxCapacityTier sugar,
	// so a metabolism above Sugar+tier guarantees a negative balance
	// this tick no matter where the agent moves.
	victim := m.agents[0]
	victim.Sugar = 0.5
	victim.Metabolism = 10

	before := m.Population()
	m.Step()
	if got := m.Population(); got != before-1 {
		t.Fatalf("population after starvation tick = %d, want %d", got, before-1)
	}
	for _, a := range m.agents {
		if a == victim {
			t.Fatal("starved agent still in population")
		}
	}
}

func TestReplacementHoldsPopulationConstant(t *testing.T) {
	cfg := smallConfig()
	cfg.NumAgents = 5
	cfg.Replace = true
	m, err := New(cfg, entropy.New(6))
	if err != nil {
		t.Fatal(err)
	}

	m.agents[0].Sugar = 0.5
	m.agents[0].Metabolism = 10
	m.agents[2].Sugar = 0.5
	m.agents[2].Metabolism = 10

	m.Step()
	if got := m.Population(); got != 5 {
		t.Fatalf("population with replace=true = %d, want 5", got)
	}
	if len(m.occupied) != 5 {
		t.Fatalf("occupancy index size = %d, want 5", len(m.occupied))
	}
}

func TestOldAgeRemovalAtExactTick(t *testing.T) {
	cfg := smallConfig()
	cfg.NumAgents = 1
	m, err := New(cfg, entropy.New(9))
	if err != nil {
		t.Fatal(err)
	}

	a := m.agents[0]
	a.Sugar = 1000 // rule out starvation
	a.Age = 3
	a.Lifespan = 4.5

	// Tick 1: age 3 -> 4, still below lifespan.
	m.Step()
	if m.Population() != 1 {
		t.Fatal("agent removed a tick early")
	}
	// Tick 2: age 4 -> 5 > 4.5, removed now.
	m.Step()
	if m.Population() != 0 {
		t.Fatal("agent past its lifespan survived the tick")
	}
}

func TestLookAndMoveStaysPutWhenFullyOccupied(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 3
	cfg.NumAgents = 9 // every cell occupied
	cfg.MaxVision = 2
	m, err := New(cfg, entropy.New(2))
	if err != nil {
		t.Fatal(err)
	}

	center := grid.Coord{Row: 1, Col: 1}
	if got := m.lookAndMove(center, 2); got != center {
		t.Fatalf("lookAndMove on a full grid moved %v -> %v", center, got)
	}
}

func TestLookAndMovePrefersClosestOnTies(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 11
	cfg.NumAgents = 0
	m, err := New(cfg, entropy.New(3))
	if err != nil {
		t.Fatal(err)
	}

	// Flatten the field, then put the same sugar at distance 1 and
	// distance 3 along the same axis: the closer cell must win.
	m.land.resource.Each(func(c grid.Coord, _ float64) {
		m.land.resource.Set(c, 0)
	})
	center := grid.Coord{Row: 5, Col: 5}
	near := grid.Coord{Row: 5, Col: 6}
	far := grid.Coord{Row: 5, Col: 8}
	m.land.resource.Set(near, 3)
	m.land.resource.Set(far, 3)

	for i := 0; i < 20; i++ {
		if got := m.lookAndMove(center, 3); got != near {
			t.Fatalf("tie broken away from proximity: got %v, want %v", got, near)
		}
	}
}

func TestLookAndMoveWrapsAroundEdges(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Size = 7
	cfg.NumAgents = 0
	m, err := New(cfg, entropy.New(3))
	if err != nil {
		t.Fatal(err)
	}

	m.land.resource.Each(func(c grid.Coord, _ float64) {
		m.land.resource.Set(c, 0)
	})
	// Best cell sits across the edge from the origin.
	best := grid.Coord{Row: 6, Col: 0}
	m.land.resource.Set(best, 4)

	if got := m.lookAndMove(grid.Coord{Row: 0, Col: 0}, 1); got != best {
		t.Fatalf("wrap-around neighbor not reached: got %v, want %v", got, best)
	}
}

func TestDeterminismAcrossRuns(t *testing.T) {
	run := func() ([]float64, []Agent) {
		m, err := New(smallConfig(), entropy.New(77))
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 30; i++ {
			m.Step()
		}
		return m.land.ResourceCells(), m.Agents()
	}

	resA, agentsA := run()
	resB, agentsB := run()

	for i := range resA {
		if resA[i] != resB[i] {
			t.Fatalf("resource fields diverged at cell %d", i)
		}
	}
	if len(agentsA) != len(agentsB) {
		t.Fatalf("populations diverged: %d vs %d", len(agentsA), len(agentsB))
	}
	for i := range agentsA {
		if agentsA[i] != agentsB[i] {
			t.Fatalf("agent %d diverged: %+v vs %+v", i, agentsA[i], agentsB[i])
		}
	}
}

func TestSeriesRecordsPopulationPerTick(t *testing.T) {
	m, err := New(smallConfig(), entropy.New(31))
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 10; i++ {
		pop := m.Step()
		if m.Series().Len() != i+1 {
			t.Fatalf("series length %d after %d ticks", m.Series().Len(), i+1)
		}
		if m.Series().Last() != pop {
			t.Fatalf("series last %v != step return %v", m.Series().Last(), pop)
		}
	}
}
