package main

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/simlin/ltm/internal/ltmconfig"
	"github.com/simlin/ltm/runner"
)

func newRunCmd(configPath *string) *cobra.Command {
	var modelName, mode string
	var steps int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a bundled demonstration model and print its dominant loop set",
		Long:  "Runs one of the bundled demonstration models (bass, smooth, arms-race) end to end and prints the final dominant loop set and a per-step relative-score table.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ltmconfig.Load(*configPath)
			if err != nil {
				return err
			}

			m, err := buildModel(modelName)
			if err != nil {
				return err
			}

			rcfg := runner.Config{
				ExhaustiveThreshold: cfg.Discovery.ExhaustiveThreshold,
				ContributionCutoff:  cfg.Discovery.ContributionCutoff,
				DT:                  1.0,
				RunID:               uuid.NewString(),
			}
			if err := applyMode(&rcfg, mode); err != nil {
				return err
			}

			r, err := runner.New(m, rcfg)
			if err != nil {
				return err
			}
			if err := r.Run(context.Background(), steps); err != nil {
				return fmt.Errorf("run failed: %w", err)
			}

			printReport(r)
			return nil
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "smooth", "demonstration model: bass, smooth, or arms-race")
	cmd.Flags().StringVar(&mode, "mode", "auto", "loop discovery mode: auto, a (force exhaustive), or b (force heuristic)")
	cmd.Flags().IntVar(&steps, "steps", 50, "number of simulation steps to run")
	return cmd
}

func applyMode(rcfg *runner.Config, mode string) error {
	switch mode {
	case "auto", "":
	case "a":
		rcfg.ExhaustiveThreshold = math.MaxInt32
	case "b":
		rcfg.ExhaustiveThreshold = 0
	default:
		return fmt.Errorf("unknown --mode %q (want auto, a, or b)", mode)
	}
	return nil
}

func printReport(r *runner.Runner) {
	a := r.Analysis()
	lastStep := a.Steps() - 1
	for _, part := range a.Partitions() {
		loops, _ := a.Loops(lastStep, part.ID)
		fmt.Printf("partition %d: %d loops discovered\n", part.ID, len(loops))

		dominant, _ := a.DominantSet(lastStep, part.ID)
		fmt.Printf("  dominant set at step %d: %v\n", lastStep, dominant)

		fmt.Println("  step  loop  raw        relative")
		for step := 0; step <= lastStep; step++ {
			stepLoops, ok := a.Loops(step, part.ID)
			if !ok {
				continue
			}
			for _, loop := range stepLoops {
				raw, _ := a.LoopRawScore(step, part.ID, loop.ID)
				rel, _ := a.LoopRelativeScore(step, part.ID, loop.ID)
				fmt.Printf("  %4d  %4d  %9.4f  %8.4f\n", step, loop.ID, raw, rel)
			}
		}
	}
}
