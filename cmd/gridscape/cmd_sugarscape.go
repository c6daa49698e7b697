package main

import (
	"github.com/spf13/cobra"

	"github.com/mkarlin/gridscape/internal/entropy"
	"github.com/mkarlin/gridscape/internal/scenario"
	"github.com/mkarlin/gridscape/internal/snapshot"
	"github.com/mkarlin/gridscape/internal/sugarscape"
)

func newSugarscapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sugarscape",
		Short: "Run the Sugarscape resource-economy model",
		RunE: func(cmd *cobra.Command, args []string) error {
			scenarioPath, _ := cmd.Flags().GetString("scenario")
			sc, err := scenario.Load(scenarioPath)
			if err != nil {
				return err
			}
			sc.Model = snapshot.ModelSugarscape

			if cmd.Flags().Changed("size") {
				sc.Sugarscape.Size, _ = cmd.Flags().GetInt("size")
			}
			if cmd.Flags().Changed("agents") {
				sc.Sugarscape.NumAgents, _ = cmd.Flags().GetInt("agents")
			}
			if cmd.Flags().Changed("replace") {
				sc.Sugarscape.Replace, _ = cmd.Flags().GetBool("replace")
			}
			if cmd.Flags().Changed("landscape") {
				sc.Sugarscape.Landscape, _ = cmd.Flags().GetString("landscape")
			}
			if cmd.Flags().Changed("seed") {
				sc.Seed, _ = cmd.Flags().GetInt64("seed")
			}
			if cmd.Flags().Changed("ticks") {
				sc.Ticks, _ = cmd.Flags().GetInt("ticks")
			}

			src := entropy.New(sc.Seed)
			cfg := sc.SugarscapeConfig()
			m, err := sugarscape.New(cfg, src)
			if err != nil {
				return err
			}

			return executeRun(m, src.Seed(), cfg, runOptionsFromFlags(cmd, sc.Ticks))
		},
	}

	cmd.Flags().String("scenario", "", "Scenario YAML file")
	cmd.Flags().Int("size", 50, "Grid side length")
	cmd.Flags().Int("agents", 400, "Initial agent count")
	cmd.Flags().Bool("replace", false, "Replace dead agents at random unoccupied cells")
	cmd.Flags().String("landscape", sugarscape.LandscapePeaks, "Capacity profile: peaks or noise")
	addRunFlags(cmd)
	return cmd
}
