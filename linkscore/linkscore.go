package linkscore

import (
	"math"

	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/valuestore"
)

// Record is one edge's score at one step: a non-negative magnitude and a
// sign in {-1, 0, +1}. NaN magnitude marks an evaluation failure
// propagated from the partial-change evaluator (§4.1 Failure semantics);
// it is distinct from a magnitude of exactly 0, which marks an
// undefined-but-not-erroneous score (I2, I3).
type Record struct {
	Magnitude float64
	Sign      float64
}

// Signed returns Sign*Magnitude, or NaN if Magnitude is NaN. Loop scoring
// (package loopscore) multiplies these along each loop's edges.
func (r Record) Signed() float64 {
	if math.IsNaN(r.Magnitude) {
		return math.NaN()
	}
	return r.Sign * r.Magnitude
}

// Score computes the Record for every edge in m at the given step, using
// store's already-sealed history up to and including step. step must be
// less than store.Steps().
func Score(m *model.Model, store *valuestore.Store, step int) []Record {
	records := make([]Record, m.NumEdges())
	for _, e := range m.Edges() {
		if e.FlowToStock {
			records[e.Index] = scoreFlowToStock(store, step, e)
		} else {
			records[e.Index] = scoreInstantaneous(store, step, e)
		}
	}
	return records
}

// scoreInstantaneous implements §4.2's first formula:
// magnitude = |Δx(z)/Δ(z)|, sign = sign(Δx(z)/Δ(x)), either factor
// undefined -> score 0 (I2).
func scoreInstantaneous(store *valuestore.Store, step int, e *model.Edge) Record {
	partial := store.Partial(step, e.Index)
	if math.IsNaN(partial) {
		return Record{Magnitude: math.NaN()}
	}

	deltaZ := store.Delta(step, e.Target)
	deltaX := store.Delta(step, e.Source)
	if deltaZ == 0 || deltaX == 0 || math.IsNaN(deltaZ) || math.IsNaN(deltaX) {
		return Record{}
	}

	magnitude := math.Abs(partial / deltaZ)
	sign := signOf(partial) * signOf(deltaX)
	return Record{Magnitude: magnitude, Sign: sign}
}

// scoreFlowToStock implements §4.2's second formula: denominator D is the
// stock's second-order change; inflow sign is always +1, outflow always
// -1 (I3: undefined at steps 0 and 1; undefined when D = 0).
func scoreFlowToStock(store *valuestore.Store, step int, e *model.Edge) Record {
	if step < 2 {
		return Record{}
	}

	d := store.SecondDelta(step, e.Target)
	if d == 0 || math.IsNaN(d) {
		return Record{}
	}

	deltaF := store.Delta(step, e.Source)
	magnitude := math.Abs(deltaF / d)
	sign := 1.0
	if e.Outflow {
		sign = -1.0
	}
	return Record{Magnitude: magnitude, Sign: sign}
}

func signOf(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
