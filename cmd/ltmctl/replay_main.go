package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/simlin/ltm/internal/ltmconfig"
	"github.com/simlin/ltm/internal/store"
)

func newReplayCmd(configPath *string) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Print a previously archived run's loop scores",
		Long:  "Reads a run archived by `serve` back from the run store (§10.4) and prints its per-step, per-partition, per-loop scores.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if runID == "" {
				return fmt.Errorf("--run-id is required")
			}
			cfg, err := ltmconfig.Load(*configPath)
			if err != nil {
				return err
			}
			if cfg.Store.PostgresDSN == "" {
				return fmt.Errorf("replay: no store.postgres_dsn configured")
			}

			st, err := store.Open(cfg.Store.PostgresDSN, 5*time.Second)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			defer st.Close()

			rows, err := st.LoadRun(context.Background(), runID)
			if err != nil {
				return fmt.Errorf("replay: %w", err)
			}
			if len(rows) == 0 {
				fmt.Printf("no archived rows for run %s\n", runID)
				return nil
			}

			fmt.Printf("run %s: %d archived rows\n", runID, len(rows))
			fmt.Println("  step  partition  loop  raw        relative   dominant")
			for _, row := range rows {
				fmt.Printf("  %4d  %9d  %4d  %9.4f  %8.4f   %v\n",
					row.Step, row.PartitionID, row.LoopID, row.Raw, row.Relative, row.Dominant)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "archived run identifier to replay")
	return cmd
}
