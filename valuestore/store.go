package valuestore

import (
	"errors"
	"math"
)

// ErrStepAlreadySealed names the rewrite of a sealed step, which §3
// Lifecycle rules out: per-step records are appended, never rewritten. No
// Store method returns it; Seal has no error result and always appends a
// new step.
var ErrStepAlreadySealed = errors.New("valuestore: step already sealed")

// ErrStepOutOfRange names a step that is negative or beyond the sealed
// history. No Store method returns it: Value, Partial and Delta have no
// error result and index the history directly.
var ErrStepOutOfRange = errors.New("valuestore: step out of range")

// Option configures a Store at construction time.
type Option func(*Store)

// WithCapacityHint preallocates room for the expected number of steps,
// avoiding repeated slice growth on long runs. Purely an optimization; a
// Store works correctly without it.
func WithCapacityHint(steps int) Option {
	return func(s *Store) {
		if steps > 0 {
			s.values = make([][]float64, 0, steps)
			s.partials = make([][]float64, 0, steps)
		}
	}
}

// Store holds the append-only per-step history for one run: one value
// snapshot per variable, and one partial-change value per edge, at every
// sealed step.
type Store struct {
	numVars  int
	numEdges int
	values   [][]float64 // values[t][varIndex]
	partials [][]float64 // partials[t][edgeIndex], NaN where evaluation failed, 0 where undefined
}

// New returns an empty Store sized for a model with numVars variables and
// numEdges edges.
func New(numVars, numEdges int, opts ...Option) *Store {
	s := &Store{numVars: numVars, numEdges: numEdges}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Steps returns the number of sealed steps so far.
func (s *Store) Steps() int { return len(s.values) }

// Seal appends one step's records. values must have length numVars and
// partials must have length numEdges; both are copied, so the caller's
// backing arrays may be reused across calls.
func (s *Store) Seal(values, partials []float64) {
	v := make([]float64, s.numVars)
	copy(v, values)
	p := make([]float64, s.numEdges)
	copy(p, partials)
	s.values = append(s.values, v)
	s.partials = append(s.partials, p)
}

// Value returns the value of variable varIndex at step.
func (s *Store) Value(step, varIndex int) float64 {
	return s.values[step][varIndex]
}

// Partial returns Δx(z) for the edge edgeIndex at step (NaN if the
// partial-change evaluator recorded an evaluation failure for it).
func (s *Store) Partial(step, edgeIndex int) float64 {
	return s.partials[step][edgeIndex]
}

// Delta returns Value(step, varIndex) - Value(step-1, varIndex), i.e.
// Δ(x) at step. Returns NaN for step 0, where no previous value exists.
func (s *Store) Delta(step, varIndex int) float64 {
	if step <= 0 {
		return math.NaN()
	}
	return s.values[step][varIndex] - s.values[step-1][varIndex]
}

// SecondDelta returns Delta(step, varIndex) - Delta(step-1, varIndex), the
// second-order change used as the flow-to-stock denominator D (§4.2).
// Returns NaN before step 2, matching the "undefined at the first two
// integration steps" rule (I3).
func (s *Store) SecondDelta(step, varIndex int) float64 {
	if step <= 1 {
		return math.NaN()
	}
	return s.Delta(step, varIndex) - s.Delta(step-1, varIndex)
}
