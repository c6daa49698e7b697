// Package sim drives models forward tick by tick and fans each tick's
// read-only snapshot out to external collaborators. The loop is fully
// sequential: one logical actor mutates model state at a time, so no
// locking exists anywhere in the engine.
package sim

import (
	"log/slog"

	"github.com/mkarlin/gridscape/internal/stats"
)

// Model is one simulation variant. Step advances exactly one tick and
// returns the tick's scalar metric: the segregation fraction for
// Schelling, the population size for Sugarscape.
type Model interface {
	Name() string
	Step() float64
	Tick() int
	Snapshot() any
	Series() *stats.Series
}

// Runner drives a Model for a fixed number of ticks.
type Runner struct {
	Model Model

	// OnTick, when set, receives the tick number, the tick's metric,
	// and a fresh read-only snapshot after every step. Recording and
	// streaming collaborators hang off this hook; the model never sees
	// them.
	OnTick func(tick int, metric float64, snap any)

	// ReportEvery logs progress every N ticks. Zero disables reports.
	ReportEvery int

	// HaltOnZero stops the loop early once the tick metric reaches
	// zero — an extinct Sugarscape population cannot recover.
	HaltOnZero bool
}

// StepOnce advances one tick and notifies the collaborator hook.
func (r *Runner) StepOnce() float64 {
	metric := r.Model.Step()
	tick := r.Model.Tick()

	if r.OnTick != nil {
		r.OnTick(tick, metric, r.Model.Snapshot())
	}
	if r.ReportEvery > 0 && tick%r.ReportEvery == 0 {
		slog.Info("tick", "model", r.Model.Name(), "tick", tick, "metric", metric)
	}
	return metric
}

// Loop advances up to n ticks, calling Step n times in sequence, and
// returns the final metric. Stops early only under HaltOnZero.
func (r *Runner) Loop(n int) float64 {
	var metric float64
	for i := 0; i < n; i++ {
		metric = r.StepOnce()
		if r.HaltOnZero && metric == 0 {
			slog.Info("population extinct, halting", "model", r.Model.Name(), "tick", r.Model.Tick())
			break
		}
	}
	return metric
}
