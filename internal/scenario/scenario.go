// Package scenario loads run descriptions from YAML files. A scenario
// names a model, a seed, a tick budget, and the model's construction
// parameters. Bad parameters fail here, before any grid is built.
package scenario

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mkarlin/gridscape/internal/grid"
	"github.com/mkarlin/gridscape/internal/schelling"
	"github.com/mkarlin/gridscape/internal/snapshot"
	"github.com/mkarlin/gridscape/internal/sugarscape"
)

// Scenario describes one simulation run.
type Scenario struct {
	Model string `yaml:"model"` // "schelling" or "sugarscape"
	Seed  int64  `yaml:"seed"`  // 0 draws a random seed
	Ticks int    `yaml:"ticks"`

	Schelling  SchellingSpec  `yaml:"schelling,omitempty"`
	Sugarscape SugarscapeSpec `yaml:"sugarscape,omitempty"`
}

// SchellingSpec mirrors schelling.Config in YAML form.
type SchellingSpec struct {
	Size      int     `yaml:"size"`
	Threshold float64 `yaml:"threshold"`
	FracEmpty float64 `yaml:"frac_empty"`
	FracA     float64 `yaml:"frac_a"`
	FracB     float64 `yaml:"frac_b"`
}

// SugarscapeSpec mirrors sugarscape.Config in YAML form.
type SugarscapeSpec struct {
	Size          int      `yaml:"size"`
	NumAgents     int      `yaml:"num_agents"`
	MaxVision     int      `yaml:"max_vision"`
	MaxMetabolism float64  `yaml:"max_metabolism"`
	MinLifespan   float64  `yaml:"min_lifespan"`
	MaxLifespan   float64  `yaml:"max_lifespan"`
	MinSugar      float64  `yaml:"min_sugar"`
	MaxSugar      float64  `yaml:"max_sugar"`
	GrowRate      float64  `yaml:"grow_rate"`
	StartingBox   [2]int   `yaml:"starting_box,omitempty"`
	Replace       bool     `yaml:"replace"`
	Landscape     string   `yaml:"landscape,omitempty"`
	Peaks         [][2]int `yaml:"peaks,omitempty"`
}

// Default returns the baseline scenario: a 50-cell Sugarscape run.
func Default() Scenario {
	return Scenario{
		Model:      snapshot.ModelSugarscape,
		Seed:       17,
		Ticks:      500,
		Schelling:  fromSchellingConfig(schelling.DefaultConfig(50, 0.3)),
		Sugarscape: fromSugarscapeConfig(sugarscape.DefaultConfig()),
	}
}

// Load reads a scenario file, filling unset fields from Default. An
// empty path returns the defaults unchanged.
func Load(path string) (Scenario, error) {
	sc := Default()
	if strings.TrimSpace(path) == "" {
		return sc, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return sc, err
	}
	if err := yaml.Unmarshal(b, &sc); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	if err := sc.Validate(); err != nil {
		return sc, fmt.Errorf("scenario %s: %w", path, err)
	}
	return sc, nil
}

// Validate checks the scenario and its model parameters.
func (s Scenario) Validate() error {
	switch s.Model {
	case snapshot.ModelSchelling:
		if err := s.SchellingConfig().Validate(); err != nil {
			return err
		}
	case snapshot.ModelSugarscape:
		if err := s.SugarscapeConfig().Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown model %q", s.Model)
	}
	if s.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", s.Ticks)
	}
	return nil
}

// SchellingConfig converts the spec into construction parameters.
func (s Scenario) SchellingConfig() schelling.Config {
	sp := s.Schelling
	return schelling.Config{
		Size:      sp.Size,
		Threshold: sp.Threshold,
		FracEmpty: sp.FracEmpty,
		FracA:     sp.FracA,
		FracB:     sp.FracB,
	}
}

// SugarscapeConfig converts the spec into construction parameters.
func (s Scenario) SugarscapeConfig() sugarscape.Config {
	sp := s.Sugarscape
	peaks := make([]grid.Coord, 0, len(sp.Peaks))
	for _, p := range sp.Peaks {
		peaks = append(peaks, grid.Coord{Row: p[0], Col: p[1]})
	}
	return sugarscape.Config{
		Size:          sp.Size,
		NumAgents:     sp.NumAgents,
		MaxVision:     sp.MaxVision,
		MaxMetabolism: sp.MaxMetabolism,
		MinLifespan:   sp.MinLifespan,
		MaxLifespan:   sp.MaxLifespan,
		MinSugar:      sp.MinSugar,
		MaxSugar:      sp.MaxSugar,
		GrowRate:      sp.GrowRate,
		StartingBox:   sp.StartingBox,
		Replace:       sp.Replace,
		Landscape:     sp.Landscape,
		Peaks:         peaks,
	}
}

func fromSchellingConfig(c schelling.Config) SchellingSpec {
	return SchellingSpec{
		Size:      c.Size,
		Threshold: c.Threshold,
		FracEmpty: c.FracEmpty,
		FracA:     c.FracA,
		FracB:     c.FracB,
	}
}

func fromSugarscapeConfig(c sugarscape.Config) SugarscapeSpec {
	return SugarscapeSpec{
		Size:          c.Size,
		NumAgents:     c.NumAgents,
		MaxVision:     c.MaxVision,
		MaxMetabolism: c.MaxMetabolism,
		MinLifespan:   c.MinLifespan,
		MaxLifespan:   c.MaxLifespan,
		MinSugar:      c.MinSugar,
		MaxSugar:      c.MaxSugar,
		GrowRate:      c.GrowRate,
		Landscape:     c.Landscape,
	}
}
