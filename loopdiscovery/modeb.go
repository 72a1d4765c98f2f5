package loopdiscovery

import (
	"math"
	"sort"

	"github.com/simlin/ltm/linkscore"
	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

// DiscoverHeuristic runs the strongest-multiplicative-path heuristic
// (§4.4 Mode B) for one simulation step, using that step's link scores
// (links, indexed by edge index, as package linkscore.Score returns).
//
// From every stock in part, it greedily follows the strongest-magnitude
// outgoing edge first, pruned by a per-variable best_score watermark that
// persists across stock iterations within this call. It is not guaranteed
// to find every loop, or the globally strongest one, and callers must not
// rely on it for completeness (§4.4 "Heuristic guarantees").
func DiscoverHeuristic(m *model.Model, part partition.Partition, links []linkscore.Record) []Loop {
	members := partitionSet(part)
	h := &heuristic{
		m:        m,
		links:    links,
		outgoing: make(map[int][]int, len(part.Variables)),
		best:     make([]float64, m.NumVariables()),
		visiting: make([]bool, m.NumVariables()),
	}
	for _, v := range part.Variables {
		h.outgoing[v] = sortedOutgoingByMagnitude(m, v, members, links)
	}
	for _, s := range part.Variables {
		if m.Variable(s).Kind != model.KindStock {
			continue
		}
		h.walk(s, s, 1.0)
	}
	return dedupeAndAssignIDs(h.candidates, part.ID)
}

func sortedOutgoingByMagnitude(m *model.Model, v int, members map[int]bool, links []linkscore.Record) []int {
	all := m.OutgoingEdges(v)
	filtered := make([]int, 0, len(all))
	for _, ei := range all {
		if members[m.Edge(ei).Target] {
			filtered = append(filtered, ei)
		}
	}
	sort.SliceStable(filtered, func(i, j int) bool {
		return math.Abs(links[filtered[i]].Signed()) > math.Abs(links[filtered[j]].Signed())
	})
	return filtered
}

// heuristic is Mode B's scratch state for one DiscoverHeuristic call.
// best persists across every stock's walk within the call (§4.4
// "cross-stock reuse"); visiting and the path/edge stacks unwind
// naturally as each recursive walk call returns, which is what the spec
// means by resetting visiting "between outer stock iterations" — by the
// time walk(S, S, 1.0) returns, every mark it set has already been
// cleared by the matching pop.
type heuristic struct {
	m          *model.Model
	links      []linkscore.Record
	outgoing   map[int][]int
	best       []float64
	visiting   []bool
	path       []int
	edges      []int
	candidates []loopCandidate
}

func (h *heuristic) walk(v, target int, score float64) {
	if h.visiting[v] {
		if v == target {
			h.candidates = append(h.candidates, loopCandidate{
				variables: append([]int(nil), h.path...),
				edges:     append([]int(nil), h.edges...),
			})
		}
		return
	}
	if score < h.best[v] {
		return
	}
	h.best[v] = score
	h.visiting[v] = true
	h.path = append(h.path, v)
	for _, ei := range h.outgoing[v] {
		e := h.m.Edge(ei)
		mag := math.Abs(h.links[ei].Signed())
		h.edges = append(h.edges, ei)
		h.walk(e.Target, target, score*mag)
		h.edges = h.edges[:len(h.edges)-1]
	}
	h.path = h.path[:len(h.path)-1]
	h.visiting[v] = false
}
