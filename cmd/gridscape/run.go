package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/mkarlin/gridscape/internal/observer"
	"github.com/mkarlin/gridscape/internal/recorder"
	"github.com/mkarlin/gridscape/internal/sim"
	"github.com/mkarlin/gridscape/internal/snapshot"
)

// runOptions are the collaborator settings shared by both model
// commands.
type runOptions struct {
	ticks         int
	dbPath        string // archive runs when set
	snapshotEvery int    // archive a snapshot every N ticks (0 = none)
	listen        string // stream snapshots on this address when set
	reportEvery   int
}

// executeRun drives a model for the configured tick budget, wiring the
// optional archive and observer collaborators through the tick hook.
func executeRun(m sim.Model, seed int64, params any, opts runOptions) error {
	var db *recorder.DB
	var runID string
	if opts.dbPath != "" {
		var err error
		db, err = recorder.Open(opts.dbPath)
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}
		defer db.Close()

		runID, err = db.BeginRun(m.Name(), seed, opts.ticks, params)
		if err != nil {
			return fmt.Errorf("register run: %w", err)
		}
		slog.Info("archiving run", "id", runID, "db", opts.dbPath)
	}

	var obs *observer.Server
	if opts.listen != "" {
		obs = observer.NewServer(m.Name())
		mux := http.NewServeMux()
		mux.Handle("/ws", obs.Handler())
		go func() {
			slog.Info("observer stream listening", "addr", opts.listen)
			if err := http.ListenAndServe(opts.listen, mux); err != nil {
				slog.Error("observer server stopped", "error", err)
			}
		}()
	}

	runner := &sim.Runner{
		Model:       m,
		ReportEvery: opts.reportEvery,
		HaltOnZero:  m.Name() == snapshot.ModelSugarscape,
	}
	if obs != nil || (db != nil && opts.snapshotEvery > 0) {
		runner.OnTick = func(tick int, metric float64, snap any) {
			if obs != nil {
				obs.Publish(tick, metric, snap)
			}
			if db != nil && opts.snapshotEvery > 0 && tick%opts.snapshotEvery == 0 {
				if err := db.SaveSnapshot(runID, tick, snap); err != nil {
					slog.Error("snapshot archive failed", "tick", tick, "error", err)
				}
			}
		}
	}

	final := runner.Loop(opts.ticks)

	if db != nil {
		if err := db.SaveSeries(runID, m.Series().Values()); err != nil {
			return fmt.Errorf("archive series: %w", err)
		}
	}

	slog.Info("run finished", "model", m.Name(), "seed", seed, "ticks", m.Tick(), "metric", final)
	fmt.Printf("%s: %d ticks, final metric %.4f\n", m.Name(), m.Tick(), final)
	return nil
}
