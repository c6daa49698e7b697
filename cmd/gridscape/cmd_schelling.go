package main

import (
	"github.com/spf13/cobra"

	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/scenario"
	"github.com/mkarlin/gridscape/internal/schelling"
	"github.com/mkarlin/gridscape/internal/snapshot"
)

func newSchellingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schelling",
		Short: "Run the Schelling segregation model",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			sc, err := scenario.Load(scenarioPath)
			if err != nil {
				return err
			}
			sc.Model = snapshot.ModelSchelling

			// Flags override the scenario file when set explicitly.
			if cmd.Flags().Changed("size") {
				sc.Schelling.Size, _ = cmd.Flags().GetInt("size")
			}
			if cmd.Flags().Changed("threshold") {
				sc.Schelling.Threshold, _ = cmd.Flags().GetFloat64("threshold")
			}
			if cmd.Flags().Changed("seed") {
				sc.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("ticks") {
				sc.Ticks, _ = cmd.Flags().GetInt("ticks")
			}

			src := entropy.New(sc.Seed)
			cfg := sc.SchellingConfig()
			m, err := schelling.New(cfg, src)
			if err != nil {
				return err
			}

			return executeRun(m, src.Seed(), cfg, runOptionsFromFlags(cmd, sc.Ticks))
		},
	}

	cmd.Flags().String("scenario", "", "Scenario YAML file")
	cmd.Flags().Int("size", 50, "Grid side length")
	cmd.Flags().Float64("threshold", 0.3, "Satisfaction threshold p")
	addRunFlags(cmd)
	return cmd
}

// addRunFlags registers the flags shared by both model commands.
func addRunFlags(cmd *cobra.Command) {
	cmd.Flags().Int64("seed", 17, "Random seed (0 = draw from the OS)")
	cmd.Flags().Int("ticks", 500, "Number of ticks to run")
	cmd.Flags().String("db", "", "Archive the run to this SQLite database")
	cmd.Flags().Int("snapshot-every", 0, "Archive a snapshot every N ticks (requires --db)")
	cmd.Flags().String("listen", "", "Stream snapshots to observers on this address")
	cmd.Flags().Int("report-every", 100, "Log progress every N ticks (0 = silent)")
}

func runOptionsFromFlags(cmd *cobra.Command, ticks int) runOptions {
	dbPath, _ := cmd.Flags().GetString("db")
	snapshotEvery, _ := cmd.Flags().GetInt("snapshot-every")
	listen, _ := cmd.Flags().GetString("listen")
	reportEvery, _ := cmd.Flags().GetInt("report-every")
	return runOptions{
		ticks:         ticks,
		dbPath:        dbPath,
		snapshotEvery: snapshotEvery,
		listen:        listen,
		reportEvery:   reportEvery,
	}
}
