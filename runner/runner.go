package runner

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"

	"github.com/simlin/ltm/analysis"
	"github.com/simlin/ltm/evaluator"
	"github.com/simlin/ltm/integrator"
	"github.com/simlin/ltm/internal/cache"
	"github.com/simlin/ltm/internal/ltmlog"
	"github.com/simlin/ltm/internal/ltmmetrics"
	"github.com/simlin/ltm/internal/pace"
	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
	"github.com/simlin/ltm/loopscore"
	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
	"github.com/simlin/ltm/valuestore"
)

// Config tunes loop discovery and reporting. The zero value is not
// useful; start from DefaultConfig.
type Config struct {
	// ExhaustiveThreshold is the candidate-count ceiling below which Mode
	// A (exhaustive, Johnson's algorithm) is used for a partition; above
	// it, the partition falls back to Mode B every step (§4.4).
	ExhaustiveThreshold int

	// ContributionCutoff is the minimum peak |relative_score| a loop must
	// reach to appear in analysis.Analysis.ReportedLoops (§4.4
	// "Contribution cutoff"). It never affects normalization or
	// dominance, both of which always see every discovered loop.
	ContributionCutoff float64

	// DT is the integrator step size.
	DT float64

	// Cache, if non-nil, is consulted before running Mode A for a
	// partition and populated after a successful run, letting separate
	// processes analyzing the same compiled model skip re-enumeration
	// (§10.3). Optional: a nil Cache simply skips the cross-process tier
	// and relies on the Model's in-process cache alone.
	Cache *cache.LoopSetCache

	// Pacer, if non-nil, throttles Run to the configured steps-per-second
	// rate (§10.7). A nil Pacer runs as fast as possible, the batch-run
	// default.
	Pacer *pace.Pacer

	// OnStep, if non-nil, is called synchronously after every step is
	// recorded (including the t=0 snapshot), letting a caller stream each
	// step to a dashboard (§10.6) without Runner depending on the
	// transport package itself.
	OnStep func(step int)

	// RunID scopes every log entry this Runner emits (§10.1), and is the
	// natural id to archive the run under via internal/store. The empty
	// string is valid: log entries simply carry an empty run_id field.
	RunID string

	// Metrics, if non-nil, receives step duration, evaluation failure,
	// and Mode A cross-process cache hit/miss counts (§10.5). A nil
	// Metrics skips instrumentation entirely.
	Metrics *ltmmetrics.Metrics
}

// DefaultConfig returns the spec's suggested defaults (§4.4, §4.5).
func DefaultConfig() Config {
	return Config{
		ExhaustiveThreshold: 1000,
		ContributionCutoff:  0.001,
		DT:                  1.0,
	}
}

// Runner drives one simulation of a compiled model.Model.
type Runner struct {
	m          *model.Model
	cfg        Config
	partitions []partition.Partition
	store      *valuestore.Store
	engine     *integrator.Engine
	analysis   *analysis.Analysis

	// modeAExhausted[partitionID] records whether Mode A ran successfully
	// (within ExhaustiveThreshold) for that partition at construction
	// time; false means every step falls back to Mode B (§4.4).
	modeAExhausted []bool
	modeALoops     [][]loopdiscovery.Loop

	runLogger zerolog.Logger
}

// New compiles m's partitions and prepares a Runner. It does not
// integrate any steps; call Run for that.
func New(m *model.Model, cfg Config) (*Runner, error) {
	eng, err := integrator.New(m)
	if err != nil {
		var algErr *integrator.AlgebraicLoopError
		if errors.As(err, &algErr) {
			ltmlog.AlgebraicLoop(algErr.VariableID, err)
		}
		return nil, fmt.Errorf("runner: %w", err)
	}
	parts := partition.Compute(m)
	r := &Runner{
		m:              m,
		cfg:            cfg,
		partitions:     parts,
		store:          valuestore.New(m.NumVariables(), m.NumEdges()),
		engine:         eng,
		analysis:       analysis.New(m, parts),
		modeAExhausted: make([]bool, len(parts)),
		modeALoops:     make([][]loopdiscovery.Loop, len(parts)),
		runLogger:      ltmlog.Run(cfg.RunID),
	}
	r.runModeA(context.Background())
	return r, nil
}

// Analysis returns the accumulated read-only analysis record. Valid to
// call at any point during or after a run.
func (r *Runner) Analysis() *analysis.Analysis { return r.analysis }

// Partitions returns the fixed cycle partitions this Runner computed.
func (r *Runner) Partitions() []partition.Partition { return r.partitions }

// runModeA attempts exhaustive discovery for every partition once, using
// the in-process model cache and the optional cross-process cache before
// falling back to Johnson's algorithm itself.
func (r *Runner) runModeA(ctx context.Context) {
	for i, part := range r.partitions {
		cacheKey := fmt.Sprintf("modea:%d", part.ID)
		if cached, ok := r.m.CacheGet(cacheKey); ok {
			if loops, ok := cached.([]loopdiscovery.Loop); ok {
				r.modeAExhausted[i] = true
				r.modeALoops[i] = loops
				continue
			}
		}
		if r.cfg.Cache != nil {
			if loops, ok := r.cfg.Cache.Get(ctx, r.m.Hash(), part.ID); ok {
				r.modeAExhausted[i] = true
				r.modeALoops[i] = loops
				r.m.CacheSet(cacheKey, loops)
				if r.cfg.Metrics != nil {
					r.cfg.Metrics.IncCacheHit()
				}
				continue
			}
			if r.cfg.Metrics != nil {
				r.cfg.Metrics.IncCacheMiss()
			}
		}

		loops, ok := loopdiscovery.DiscoverExhaustive(r.m, part, r.cfg.ExhaustiveThreshold)
		if !ok {
			continue
		}
		r.modeAExhausted[i] = true
		r.modeALoops[i] = loops
		r.m.CacheSet(cacheKey, loops)
		if r.cfg.Cache != nil {
			r.cfg.Cache.Set(ctx, r.m.Hash(), part.ID, loops)
		}
	}
}

// Run integrates steps Euler steps, recording every step's analysis data.
// If ctx is cancelled between steps (§5), Run stops early and returns nil:
// Analysis then holds every step completed before the cancellation (§7).
func (r *Runner) Run(ctx context.Context, steps int) error {
	values, err := r.engine.InitialValues()
	if err != nil {
		return fmt.Errorf("runner: initial values: %w", err)
	}
	if err := r.recordStep(nil, values); err != nil {
		return err
	}
	r.notifyStep(0)

	dt := r.cfg.DT
	if dt == 0 {
		dt = DefaultConfig().DT
	}

	for s := 1; s <= steps; s++ {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := r.cfg.Pacer.Wait(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		next, err := r.engine.Step(values, dt)
		if err != nil {
			return fmt.Errorf("runner: step %d: %w", s, err)
		}
		if err := r.recordStep(values, next); err != nil {
			return err
		}
		r.notifyStep(s)
		values = next
	}
	return nil
}

func (r *Runner) notifyStep(step int) {
	if r.cfg.OnStep != nil {
		r.cfg.OnStep(step)
	}
}

// recordStep evaluates partial changes (skipped for the t=0 snapshot,
// where prev is nil and no partial change is defined), seals the step
// into the value store, scores every edge, discovers/reuses each
// partition's loop set, scores loops, and appends the result to
// Analysis.
func (r *Runner) recordStep(prev, curr []float64) error {
	start := time.Now()
	if r.cfg.Metrics != nil {
		defer func() { r.cfg.Metrics.ObserveStepDuration(time.Since(start)) }()
	}

	step := r.store.Steps()
	stepLogger := ltmlog.Step(r.runLogger, step)

	partials := make([]float64, r.m.NumEdges())
	if prev != nil {
		var failures []evaluator.Failure
		partials, failures = evaluator.Evaluate(r.m, prev, curr)
		for _, f := range failures {
			ltmlog.EvaluationFailure(stepLogger, f.VariableID, f.Err)
			if r.cfg.Metrics != nil {
				r.cfg.Metrics.IncEvaluationFailure(f.VariableID)
			}
		}
	}
	r.store.Seal(curr, partials)
	step = r.store.Steps() - 1

	links := linkscore.Score(r.m, r.store, step)

	snap := analysis.StepSnapshot{
		Links:      links,
		Partitions: make(map[int]analysis.PartitionSnapshot, len(r.partitions)),
	}
	for i, part := range r.partitions {
		loops := r.loopsForStep(i, part, links)
		raw := loopscore.Raw(loops, links)
		relative := loopscore.Relative(raw)
		denominator := 0.0
		for _, v := range raw {
			if !math.IsNaN(v) {
				denominator += math.Abs(v)
			}
		}
		dominant := loopscore.Dominant(relative)
		r.logDominanceShift(stepLogger, part.ID, dominant)
		snap.Partitions[part.ID] = analysis.PartitionSnapshot{
			Loops:       loops,
			Raw:         raw,
			Relative:    relative,
			Dominant:    dominant,
			Denominator: denominator,
		}
	}
	r.analysis.RecordStep(snap)
	return nil
}

// logDominanceShift logs every loop in dominant that was not already in
// this partition's dominant set as of the previous step (§4.5 dominance
// shifts). It consults analysis directly so it works the same whether this
// is the first step recorded or the Nth.
func (r *Runner) logDominanceShift(stepLogger zerolog.Logger, partitionID int, dominant []int) {
	prevSteps := r.analysis.Steps()
	prevDominant := map[int]bool{}
	if prevSteps > 0 {
		if ids, ok := r.analysis.DominantSet(prevSteps-1, partitionID); ok {
			for _, id := range ids {
				prevDominant[id] = true
			}
		}
	}
	for _, id := range dominant {
		if !prevDominant[id] {
			ltmlog.LoopDiscovered(stepLogger, partitionID, id)
		}
	}
}

func (r *Runner) loopsForStep(i int, part partition.Partition, links []linkscore.Record) []loopdiscovery.Loop {
	if r.modeAExhausted[i] {
		return r.modeALoops[i]
	}
	return loopdiscovery.DiscoverHeuristic(r.m, part, links)
}
