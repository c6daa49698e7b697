// Command gridscape runs grid-based agent simulations: Schelling
// segregation and Sugarscape resource-economy models.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0-dev"

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	rootCmd := &cobra.Command{
		Use:   "gridscape",
		Short: "Discrete-time grid agent simulations",
		Long: `gridscape runs deterministic agent simulations on a toroidal grid.

Two models are available: Schelling segregation dynamics and the
Sugarscape resource economy. Runs can be archived to SQLite for
plotting and streamed live to rendering observers over websockets.`,
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newSchellingCmd(),
		newSugarscapeCmd(),
		newRunsCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("gridscape version %s\n", version)
		},
	}
}
