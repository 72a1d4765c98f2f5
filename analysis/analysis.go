package analysis

import (
	"math"

	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
	"github.com/simlin/ltm/loopscore"
	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

// PartitionSnapshot is one partition's discovered loop set and scores for
// a single step.
type PartitionSnapshot struct {
	Loops       []loopdiscovery.Loop
	Raw         []float64 // parallel to Loops; Raw[i] is loopscore.Raw for Loops[i]
	Relative    []float64 // parallel to Loops
	Dominant    []int     // loop IDs (== indices into Loops) forming the minimal dominant set
	Denominator float64   // Σ|raw| used to compute Relative
}

// StepSnapshot is everything the runner computed for one simulation
// step, keyed for the read methods below.
type StepSnapshot struct {
	Links      []linkscore.Record   // per edge index
	Partitions map[int]PartitionSnapshot // per partition.Partition.ID
}

// Analysis is the accumulated, read-only record of a run. The zero value
// is not usable; construct with New.
type Analysis struct {
	m          *model.Model
	partitions []partition.Partition
	steps      []StepSnapshot
}

// New starts an empty Analysis for m's partitions, captured once so the
// structural-polarity map and partition membership never change mid-run
// even though the Model itself could in principle be reused elsewhere.
func New(m *model.Model, partitions []partition.Partition) *Analysis {
	return &Analysis{m: m, partitions: append([]partition.Partition(nil), partitions...)}
}

// RecordStep appends snap as the next step's data. Callers must call this
// in step order; Analysis does not re-sort or validate step ordering.
func (a *Analysis) RecordStep(snap StepSnapshot) {
	a.steps = append(a.steps, snap)
}

// Steps reports how many steps have been recorded.
func (a *Analysis) Steps() int {
	return len(a.steps)
}

// Partitions returns the fixed partition list this Analysis was built
// for.
func (a *Analysis) Partitions() []partition.Partition {
	return a.partitions
}

// LinkScore returns edgeIndex's score at step, or ok=false if step or
// edgeIndex is out of range.
func (a *Analysis) LinkScore(step, edgeIndex int) (linkscore.Record, bool) {
	if step < 0 || step >= len(a.steps) {
		return linkscore.Record{}, false
	}
	links := a.steps[step].Links
	if edgeIndex < 0 || edgeIndex >= len(links) {
		return linkscore.Record{}, false
	}
	return links[edgeIndex], true
}

// StructuralPolarity returns the fixed, compile-time polarity tag on
// edgeIndex (§9 "Polarity is a separate tag on the edge").
func (a *Analysis) StructuralPolarity(edgeIndex int) (model.Polarity, bool) {
	if edgeIndex < 0 || edgeIndex >= a.m.NumEdges() {
		return model.PolarityUnknown, false
	}
	return a.m.Edge(edgeIndex).Polarity, true
}

func (a *Analysis) partitionSnapshot(step, partitionID int) (PartitionSnapshot, bool) {
	if step < 0 || step >= len(a.steps) {
		return PartitionSnapshot{}, false
	}
	snap, ok := a.steps[step].Partitions[partitionID]
	return snap, ok
}

// Loops returns the loop set discovered for partitionID at step. For a
// Mode A partition this is the same set every step; for Mode B it may
// change step to step.
func (a *Analysis) Loops(step, partitionID int) ([]loopdiscovery.Loop, bool) {
	snap, ok := a.partitionSnapshot(step, partitionID)
	if !ok {
		return nil, false
	}
	return snap.Loops, true
}

// LoopRawScore returns loopID's raw score within partitionID at step.
func (a *Analysis) LoopRawScore(step, partitionID, loopID int) (float64, bool) {
	snap, ok := a.partitionSnapshot(step, partitionID)
	if !ok || loopID < 0 || loopID >= len(snap.Raw) {
		return 0, false
	}
	return snap.Raw[loopID], true
}

// LoopRelativeScore returns loopID's relative (normalized) score within
// partitionID at step.
func (a *Analysis) LoopRelativeScore(step, partitionID, loopID int) (float64, bool) {
	snap, ok := a.partitionSnapshot(step, partitionID)
	if !ok || loopID < 0 || loopID >= len(snap.Relative) {
		return 0, false
	}
	return snap.Relative[loopID], true
}

// NormalizationDenominator returns partitionID's Σ|raw_score| at step.
func (a *Analysis) NormalizationDenominator(step, partitionID int) (float64, bool) {
	snap, ok := a.partitionSnapshot(step, partitionID)
	if !ok {
		return 0, false
	}
	return snap.Denominator, true
}

// DominantSet returns the minimal dominant loop-ID set for partitionID at
// step (§4.5). A nil or empty slice with ok=true means the set is
// legitimately empty (e.g. at equilibrium, S5); ok=false means step or
// partitionID was never recorded.
func (a *Analysis) DominantSet(step, partitionID int) ([]int, bool) {
	snap, ok := a.partitionSnapshot(step, partitionID)
	if !ok {
		return nil, false
	}
	return snap.Dominant, true
}

// LoopStructuralPolarity folds loop's fixed edge polarities into the
// loop's own structural polarity (I6): positive iff an even number of its
// edges are structurally negative, model.PolarityUnknown if any edge is.
// Unlike runtime polarity this never depends on a step; it is the same
// value the analysis API can report before a single step is recorded.
func (a *Analysis) LoopStructuralPolarity(loop loopdiscovery.Loop) model.Polarity {
	negatives := 0
	for _, edgeIndex := range loop.Edges {
		pol, ok := a.StructuralPolarity(edgeIndex)
		if !ok || pol == model.PolarityUnknown {
			return model.PolarityUnknown
		}
		if pol == model.PolarityNegative {
			negatives++
		}
	}
	if negatives%2 == 0 {
		return model.PolarityPositive
	}
	return model.PolarityNegative
}

// PeakRelativeScore returns the largest |relative_score| loopID reached
// within partitionID across every recorded step, the quantity §4.4's
// contribution cutoff compares against when deciding whether a loop is
// worth reporting. Normalization itself never uses this value — it is
// computed from data already folded into Raw/Relative, purely for
// reporting.
func (a *Analysis) PeakRelativeScore(partitionID, loopID int) float64 {
	peak := 0.0
	for step := range a.steps {
		rel, ok := a.LoopRelativeScore(step, partitionID, loopID)
		if !ok {
			continue
		}
		if abs := math.Abs(rel); abs > peak {
			peak = abs
		}
	}
	return peak
}

// ReportedLoops returns the loop IDs within partitionID whose
// PeakRelativeScore meets or exceeds cutoff (§4.4 "Contribution
// cutoff"), in ascending ID order. It filters only the reported set;
// callers must keep using the unfiltered Loops/LoopRawScore/
// LoopRelativeScore for normalization and dominance, which always
// consider every discovered loop.
func (a *Analysis) ReportedLoops(partitionID int, cutoff float64) []int {
	if len(a.steps) == 0 {
		return nil
	}
	var loopCount int
	for step := range a.steps {
		if snap, ok := a.partitionSnapshot(step, partitionID); ok && len(snap.Loops) > loopCount {
			loopCount = len(snap.Loops)
		}
	}
	var ids []int
	for loopID := 0; loopID < loopCount; loopID++ {
		if a.PeakRelativeScore(partitionID, loopID) >= cutoff {
			ids = append(ids, loopID)
		}
	}
	return ids
}

// RuntimePolarity classifies loopID's polarity over the recorded steps in
// [fromStep, toStep) within partitionID, folding already-recorded raw
// scores — a pure lookup over history, not a re-derivation of any score.
func (a *Analysis) RuntimePolarity(partitionID, loopID, fromStep, toStep int) loopscore.RuntimePolarity {
	if fromStep < 0 {
		fromStep = 0
	}
	if toStep > len(a.steps) {
		toStep = len(a.steps)
	}
	history := make([]float64, 0, toStep-fromStep)
	for step := fromStep; step < toStep; step++ {
		if raw, ok := a.LoopRawScore(step, partitionID, loopID); ok {
			history = append(history, raw)
		} else {
			history = append(history, math.NaN())
		}
	}
	return loopscore.Runtime(history)
}
