package sugarscape

import (
	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/grid"
)

// Agent is one mobile occupant of the sugar field. Vision, metabolism,
// and lifespan are fixed at creation; sugar and age mutate every tick.
// Agents hold no reference back to the model: behavior receives the
// environment as an explicit parameter.
type Agent struct {
	Loc        grid.Coord `json:"loc"`
	Age        int        `json:"age"`
	Vision     int        `json:"vision"`     // How many cells out the agent can see
	Metabolism float64    `json:"metabolism"` // Sugar burned per tick
	Lifespan   float64    `json:"lifespan"`   // Age threshold for death by old age
	Sugar      float64    `json:"sugar"`      // Held resource balance
}

// newAgent draws an agent's traits uniformly within the configured
// bounds and places it at loc.
func newAgent(loc grid.Coord, cfg Config, src *entropy.Source) *Agent {
	return &Agent{
		Loc:        loc,
		Age:        0,
		Vision:     src.UniformInt(1, cfg.MaxVision),
		Metabolism: src.UniformFloat(1, cfg.MaxMetabolism),
		Lifespan:   src.UniformFloat(cfg.MinLifespan, cfg.MaxLifespan),
		Sugar:      src.UniformFloat(cfg.MinSugar, cfg.MaxSugar),
	}
}

// step runs one tick of agent behavior against the environment: move
// to the best visible unoccupied cell, harvest it, pay metabolism,
// age by one.
func (a *Agent) step(env *Model) {
	a.Loc = env.lookAndMove(a.Loc, a.Vision)
	a.Sugar += env.harvest(a.Loc) - a.Metabolism
	a.Age++
}

// starving reports death by negative sugar balance.
func (a *Agent) starving() bool {
	return a.Sugar < 0
}

// old reports death by exceeding the lifespan threshold.
func (a *Agent) old() bool {
	return float64(a.Age) > a.Lifespan
}
