package evaluator

import (
	"math"

	"github.com/simlin/ltm/model"
)

// Failure records one edge's evaluation failure at the step being
// processed (the step itself is the caller's to attach — §7 asks that
// surfaced failures carry "the offending variable id and step").
type Failure struct {
	EdgeIndex    int
	VariableID   string
	VariableKind model.Kind
	Err          error
}

// Evaluate computes Δx(z) for every edge whose target is a Flow or
// Auxiliary (flow-to-stock edges target Stocks and are scored directly
// from value-store deltas by package linkscore, never re-evaluated here).
//
// prev and curr are the full per-variable value snapshots at t−Δt and t
// respectively, as produced by the integrator for this step. The returned
// slice is indexed by edge index, matching model.Model.Edges(); entries
// for flow-to-stock (or otherwise skipped) edges are left at 0 and must
// not be interpreted by callers — package linkscore never reads this
// slice for those edges.
func Evaluate(m *model.Model, prev, curr []float64) ([]float64, []Failure) {
	partials := make([]float64, m.NumEdges())
	var failures []Failure

	for _, e := range m.Edges() {
		if e.FlowToStock {
			continue
		}
		z := m.Variable(e.Target)
		if z.Kind == model.KindStock {
			continue
		}

		inputs := make([]float64, len(z.Inputs))
		for i, in := range z.Inputs {
			if in == e.Source {
				inputs[i] = curr[in]
			} else {
				inputs[i] = prev[in]
			}
		}

		value, err := z.Equation(inputs)
		if err != nil {
			partials[e.Index] = math.NaN()
			failures = append(failures, Failure{
				EdgeIndex:    e.Index,
				VariableID:   z.ID,
				VariableKind: z.Kind,
				Err:          err,
			})
			continue
		}
		partials[e.Index] = value - prev[z.Index]
	}

	return partials, failures
}
