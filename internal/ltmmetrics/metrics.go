package ltmmetrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds one run's collectors. The zero value is not usable;
// construct with New.
type Metrics struct {
	stepDuration      prometheus.Histogram
	evaluationFailure *prometheus.CounterVec
	dominantSetSize   *prometheus.GaugeVec
	cacheHits         prometheus.Counter
	cacheMisses       prometheus.Counter
}

// New builds a Metrics and registers its collectors against reg. Passing
// prometheus.NewRegistry() (rather than the global DefaultRegisterer)
// lets independent runs, including this package's own tests, register
// without colliding.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		stepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "ltm_step_duration_seconds",
			Help:    "Wall-clock duration of one simulation step.",
			Buckets: prometheus.DefBuckets,
		}),
		evaluationFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ltm_evaluation_failures_total",
			Help: "Partial-change evaluation failures, by variable id.",
		}, []string{"variable_id"}),
		dominantSetSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "ltm_dominant_loop_set_size",
			Help: "Size of the current minimal dominant loop set, by partition.",
		}, []string{"partition_id"}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ltm_modea_cache_hits_total",
			Help: "Mode A loop-set cross-process cache hits.",
		}),
		cacheMisses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ltm_modea_cache_misses_total",
			Help: "Mode A loop-set cache misses.",
		}),
	}
	reg.MustRegister(m.stepDuration, m.evaluationFailure, m.dominantSetSize, m.cacheHits, m.cacheMisses)
	return m
}

// ObserveStepDuration records one step's wall-clock cost.
func (m *Metrics) ObserveStepDuration(d time.Duration) {
	m.stepDuration.Observe(d.Seconds())
}

// IncEvaluationFailure records one failed evaluation for variableID.
func (m *Metrics) IncEvaluationFailure(variableID string) {
	m.evaluationFailure.WithLabelValues(variableID).Inc()
}

// SetDominantSetSize reports partitionID's current dominant-set size.
func (m *Metrics) SetDominantSetSize(partitionID int, size int) {
	m.dominantSetSize.WithLabelValues(strconv.Itoa(partitionID)).Set(float64(size))
}

// IncCacheHit records a Mode A cache hit.
func (m *Metrics) IncCacheHit() { m.cacheHits.Inc() }

// IncCacheMiss records a Mode A cache miss.
func (m *Metrics) IncCacheMiss() { m.cacheMisses.Inc() }
