package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/simlin/ltm/internal/ltmlog"
)

const appName = "ltmctl"

func main() {
	var pretty bool
	var configPath string

	rootCmd := &cobra.Command{
		Use:   appName,
		Short: "Loop dominance analysis for system dynamics models",
		Long: `ltmctl drives the Loops That Matter analysis over a compiled
system dynamics model, reporting which feedback loops dominate a
simulation's behavior as it evolves.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := zerolog.InfoLevel
			ltmlog.Init(level, pretty)
		},
	}
	rootCmd.PersistentFlags().BoolVar(&pretty, "pretty", true, "use a human-readable console log writer instead of JSON")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML run configuration (defaults if absent)")

	rootCmd.AddCommand(newRunCmd(&configPath))
	rootCmd.AddCommand(newServeCmd(&configPath))
	rootCmd.AddCommand(newReplayCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
