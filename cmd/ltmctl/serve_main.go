package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/simlin/ltm/analysis"
	"github.com/simlin/ltm/internal/cache"
	"github.com/simlin/ltm/internal/ltmconfig"
	"github.com/simlin/ltm/internal/ltmhttp"
	"github.com/simlin/ltm/internal/ltmmetrics"
	"github.com/simlin/ltm/internal/pace"
	"github.com/simlin/ltm/internal/store"
	"github.com/simlin/ltm/runner"
)

func newServeCmd(configPath *string) *cobra.Command {
	var modelName string
	var rate float64
	var steps int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a model while streaming its analysis over HTTP and WebSocket",
		Long:  "Runs one of the bundled demonstration models, serving the Analysis API (§10.6) over HTTP and broadcasting each step to connected dashboards over WebSocket, until the run completes or the process is interrupted.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ltmconfig.Load(*configPath)
			if err != nil {
				return err
			}

			m, err := buildModel(modelName)
			if err != nil {
				return err
			}

			reg := prometheus.NewRegistry()
			metrics := ltmmetrics.New(reg)

			var modeACache *cache.LoopSetCache
			if cfg.Cache.RedisAddr != "" {
				ttl, _ := time.ParseDuration(cfg.Cache.TTL)
				modeACache = cache.New(cfg.Cache.RedisAddr, cfg.Cache.RedisDB, ttl)
			}

			var pacer *pace.Pacer
			if rate > 0 {
				pacer = pace.New(rate)
			}

			hub := ltmhttp.NewHub()
			go hub.Run()

			runID := uuid.NewString()

			var r *runner.Runner
			r, err = runner.New(m, runner.Config{
				ExhaustiveThreshold: cfg.Discovery.ExhaustiveThreshold,
				ContributionCutoff:  cfg.Discovery.ContributionCutoff,
				DT:                  1.0,
				Cache:               modeACache,
				Pacer:               pacer,
				RunID:               runID,
				Metrics:             metrics,
				OnStep: func(step int) {
					broadcastStep(hub, r.Analysis(), step)
				},
			})
			if err != nil {
				return err
			}

			srv := ltmhttp.NewServer(cfg.HTTP.ListenAddr, r.Analysis(), hub, reg)
			go func() {
				log.Info().Str("addr", cfg.HTTP.ListenAddr).Msg("serving analysis API")
				if err := srv.Start(); err != nil {
					log.Error().Err(err).Msg("http server stopped")
				}
			}()

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				cancel()
			}()

			runErr := r.Run(ctx, steps)

			if cfg.Store.PostgresDSN != "" {
				st, err := store.Open(cfg.Store.PostgresDSN, 5*time.Second)
				if err != nil {
					log.Error().Err(err).Msg("could not open run archive")
				} else {
					defer st.Close()
					if err := st.SaveRun(context.Background(), runID, r.Analysis()); err != nil {
						log.Error().Err(err).Msg("could not archive run")
					} else {
						fmt.Printf("archived run %s\n", runID)
					}
				}
			}

			for _, part := range r.Partitions() {
				dominant, _ := r.Analysis().DominantSet(r.Analysis().Steps()-1, part.ID)
				metrics.SetDominantSetSize(part.ID, len(dominant))
			}

			_ = srv.Shutdown()
			return runErr
		},
	}

	cmd.Flags().StringVar(&modelName, "model", "smooth", "demonstration model: bass, smooth, or arms-race")
	cmd.Flags().Float64Var(&rate, "rate", 0, "steps per second to pace the run at (0 means as fast as possible)")
	cmd.Flags().IntVar(&steps, "steps", 50, "number of simulation steps to run")
	return cmd
}

// broadcastStep pushes step's scores for every partition to hub's
// connected dashboards, in the shape internal/ltmhttp.StepMessage
// expects.
func broadcastStep(hub *ltmhttp.Hub, a *analysis.Analysis, step int) {
	for _, part := range a.Partitions() {
		loops, ok := a.Loops(step, part.ID)
		if !ok {
			continue
		}
		raw := make([]float64, len(loops))
		relative := make([]float64, len(loops))
		for _, l := range loops {
			raw[l.ID], _ = a.LoopRawScore(step, part.ID, l.ID)
			relative[l.ID], _ = a.LoopRelativeScore(step, part.ID, l.ID)
		}
		dominant, _ := a.DominantSet(step, part.ID)
		hub.Broadcast(ltmhttp.StepMessage{
			Step:        step,
			PartitionID: part.ID,
			Raw:         raw,
			Relative:    relative,
			Dominant:    dominant,
		})
	}
}
