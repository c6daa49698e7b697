package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mkarlin/gridscape/internal/recorder"
	"github.com/mkarlin/gridscape/internal/snapshot"
)

func newRunsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived runs",
	}
	cmd.PersistentFlags().String("db", "gridscape.db", "Archive SQLite database")
	cmd.PersistentFlags().Bool("json", false, "Output as JSON")

	cmd.AddCommand(newRunsListCmd(), newRunsSeriesCmd())
	return cmd
}

func openArchive(cmd *cobra.Command) (*recorder.DB, error) {
	dbPath, _ := cmd.Flags().GetString("db")
	if _, err := os.Stat(dbPath); err != nil {
		return nil, fmt.Errorf("archive %s not found", dbPath)
	}
	return recorder.Open(dbPath)
}

func newRunsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List archived runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			runs, err := db.ListRuns()
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				return json.NewEncoder(os.Stdout).Encode(runs)
			}
			for _, r := range runs {
				fmt.Printf("%s  %-10s seed=%-12d ticks=%-6d %s\n",
					r.ID, r.Model, r.Seed, r.Ticks, r.CreatedAt)
			}
			return nil
		},
	}
}

func newRunsSeriesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "series <run-id>",
		Short: "Dump a run's per-tick metric series",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := openArchive(cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			run, err := db.GetRun(args[0])
			if err != nil {
				return err
			}
			values, err := db.LoadSeries(args[0])
			if err != nil {
				return err
			}

			if jsonOut, _ := cmd.Flags().GetBool("json"); jsonOut {
				metric := "segregation"
				if run.Model == snapshot.ModelSugarscape {
					metric = "population"
				}
				return json.NewEncoder(os.Stdout).Encode(snapshot.SeriesV1{
					Model:  run.Model,
					Metric: metric,
					Values: values,
				})
			}
			for i, v := range values {
				fmt.Printf("%d\t%g\n", i+1, v)
			}
			return nil
		},
	}
}
