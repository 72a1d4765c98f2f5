package loopscore

import (
	"math"

	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/loopdiscovery"
)

// RuntimePolarity classifies a loop's raw-score sign over an observation
// window (§4.5).
type RuntimePolarity int

const (
	// PolarityMixed ("U") marks a loop whose raw score changed sign, hit
	// exactly 0, or hit NaN somewhere in the window.
	PolarityMixed RuntimePolarity = iota
	// PolarityReinforcing ("R") marks a loop whose raw score was strictly
	// positive throughout the window.
	PolarityReinforcing
	// PolarityBalancing ("B") marks a loop whose raw score was strictly
	// negative throughout the window.
	PolarityBalancing
)

// String renders RuntimePolarity using the R/B/U notation from §4.5.
func (p RuntimePolarity) String() string {
	switch p {
	case PolarityReinforcing:
		return "R"
	case PolarityBalancing:
		return "B"
	default:
		return "U"
	}
}

// Raw computes raw_score(L, t) for every loop in loops, given that step's
// link records indexed by edge index (as linkscore.Score returns). A zero
// factor yields a raw score of 0; a NaN factor yields a NaN raw score
// (§4.5).
func Raw(loops []loopdiscovery.Loop, links []linkscore.Record) []float64 {
	scores := make([]float64, len(loops))
	for i, l := range loops {
		product := 1.0
		hasNaN := false
		for _, ei := range l.Edges {
			signed := links[ei].Signed()
			if math.IsNaN(signed) {
				hasNaN = true
			}
			product *= signed
		}
		if hasNaN {
			product = math.NaN()
		}
		scores[i] = product
	}
	return scores
}

// Relative normalizes raw scores within one partition: relative_score(L,
// t) = raw_score(L, t) / Σ|raw_score(L', t)|, undefined (reported as 0)
// if the denominator is 0. A NaN raw score is excluded from the
// denominator (treated as 0 for normalization) but its own relative
// score is still reported as NaN, surfacing the failure rather than
// masking it (§4.5). Finite results are clamped to [-1, 1] to absorb
// floating-point excursions; NaN passes through unclamped.
func Relative(raw []float64) []float64 {
	denominator := 0.0
	for _, r := range raw {
		if math.IsNaN(r) {
			continue
		}
		denominator += math.Abs(r)
	}

	relative := make([]float64, len(raw))
	for i, r := range raw {
		switch {
		case denominator == 0:
			relative[i] = 0
		case math.IsNaN(r):
			relative[i] = math.NaN()
		default:
			relative[i] = clamp(r / denominator)
		}
	}
	return relative
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Runtime classifies a loop's polarity over a window of raw scores
// (§4.5): R if strictly positive throughout, B if strictly negative
// throughout, U otherwise (including any zero or NaN sample).
func Runtime(rawHistory []float64) RuntimePolarity {
	if len(rawHistory) == 0 {
		return PolarityMixed
	}
	allPositive, allNegative := true, true
	for _, r := range rawHistory {
		if math.IsNaN(r) || r == 0 {
			return PolarityMixed
		}
		if r <= 0 {
			allPositive = false
		}
		if r >= 0 {
			allNegative = false
		}
	}
	switch {
	case allPositive:
		return PolarityReinforcing
	case allNegative:
		return PolarityBalancing
	default:
		return PolarityMixed
	}
}

// Dominant returns the minimal set of loop indices (into the same slice
// relative was computed from) whose relative scores' absolute values sum
// to at least 0.5 — the minimal dominant set D of §4.5's dominance
// predicate. Ties in |relative score| are broken by ascending index so
// the result is deterministic. Returns indices in ascending order; nil
// if relative is empty or every score is 0 (vacuously, no proper subset
// reaches 0.5, so nothing is reported — matching S5's "dominance set is
// empty" at equilibrium).
func Dominant(relative []float64) []int {
	order := make([]int, len(relative))
	for i := range order {
		order[i] = i
	}
	// descending by |relative score|, ties broken by ascending index
	for i := 1; i < len(order); i++ {
		for j := i; j > 0 && less(order[j], order[j-1], relative); j-- {
			order[j], order[j-1] = order[j-1], order[j]
		}
	}

	var dominant []int
	sum := 0.0
	for _, idx := range order {
		if sum >= 0.5 {
			break
		}
		mag := math.Abs(relative[idx])
		if math.IsNaN(mag) {
			continue
		}
		dominant = append(dominant, idx)
		sum += mag
	}
	if sum < 0.5 {
		return nil
	}
	orderedAscending := append([]int(nil), dominant...)
	sortAscending(orderedAscending)
	return orderedAscending
}

func less(a, b int, relative []float64) bool {
	ma, mb := math.Abs(relative[a]), math.Abs(relative[b])
	if ma != mb {
		return ma > mb
	}
	return a < b
}

func sortAscending(xs []int) {
	for i := 1; i < len(xs); i++ {
		for j := i; j > 0 && xs[j] < xs[j-1]; j-- {
			xs[j], xs[j-1] = xs[j-1], xs[j]
		}
	}
}
