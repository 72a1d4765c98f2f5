package loopdiscovery

import (
	"sort"

	"github.com/simlin/ltm/model"
	"github.com/simlin/ltm/partition"
)

// DiscoverExhaustive enumerates every simple cycle in part using
// Johnson's algorithm, restricted to the partition's induced subgraph.
// It is purely structural: it reads only m's edges, never link scores,
// matching §4.4's "run once at compile time, reused every step".
//
// If the candidate count would exceed maxLoops, enumeration aborts and
// returns ok=false with whatever partial result it had accumulated
// discarded; the caller should fall back to DiscoverHeuristic for every
// step of this partition instead.
func DiscoverExhaustive(m *model.Model, part partition.Partition, maxLoops int) (loops []Loop, ok bool) {
	members := partitionSet(part)
	sorted := append([]int(nil), part.Variables...)
	sort.Ints(sorted)

	js := &johnson{m: m, blocked: make(map[int]bool), b: make(map[int][]int)}
	for i, s := range sorted {
		remaining := make(map[int]bool, len(sorted)-i)
		for _, v := range sorted[i:] {
			remaining[v] = true
		}
		scc := inducedComponentContaining(m, s, remaining, members)
		js.blocked = make(map[int]bool, len(scc))
		js.b = make(map[int][]int, len(scc))
		js.sub = scc
		js.start = s
		js.path = js.path[:0]
		js.edges = js.edges[:0]
		js.circuit(s)
		if len(js.candidates) > maxLoops {
			return nil, false
		}
	}
	return dedupeAndAssignIDs(js.candidates, part.ID), true
}

// johnson is Johnson's algorithm's scratch state for one DiscoverExhaustive
// call: blocked/b are reset at the start of each outer iteration (one per
// least vertex s), path/edges accumulate the current DFS branch.
type johnson struct {
	m          *model.Model
	sub        map[int]bool // induced-subgraph vertex set for this round
	start      int
	blocked    map[int]bool
	b          map[int][]int
	path       []int
	edges      []int
	candidates []loopCandidate
}

func (j *johnson) circuit(v int) bool {
	closed := false
	j.blocked[v] = true
	j.path = append(j.path, v)
	for _, ei := range j.m.OutgoingEdges(v) {
		e := j.m.Edge(ei)
		if !j.sub[e.Target] {
			continue
		}
		j.edges = append(j.edges, ei)
		if e.Target == j.start {
			j.candidates = append(j.candidates, loopCandidate{
				variables: append([]int(nil), j.path...),
				edges:     append([]int(nil), j.edges...),
			})
			closed = true
		} else if !j.blocked[e.Target] {
			if j.circuit(e.Target) {
				closed = true
			}
		}
		j.edges = j.edges[:len(j.edges)-1]
	}
	if closed {
		j.unblock(v)
	} else {
		for _, ei := range j.m.OutgoingEdges(v) {
			w := j.m.Edge(ei).Target
			if j.sub[w] {
				j.b[w] = append(j.b[w], v)
			}
		}
	}
	j.path = j.path[:len(j.path)-1]
	return closed
}

func (j *johnson) unblock(v int) {
	j.blocked[v] = false
	dependents := j.b[v]
	j.b[v] = nil
	for _, w := range dependents {
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}

// inducedComponentContaining runs Tarjan's algorithm over the subgraph
// induced by remaining (vertices >= the current least vertex, §Johnson's
// algorithm), restricted further to members (the owning partition), and
// returns the strongly connected component containing root as a set.
func inducedComponentContaining(m *model.Model, root int, remaining, members map[int]bool) map[int]bool {
	st := &inducedTarjan{m: m, remaining: remaining, members: members, index: make(map[int]int), lowlink: make(map[int]int), onStack: make(map[int]bool)}
	st.strongConnect(root)
	for _, comp := range st.components {
		for _, v := range comp {
			if v == root {
				set := make(map[int]bool, len(comp))
				for _, x := range comp {
					set[x] = true
				}
				return set
			}
		}
	}
	return map[int]bool{root: true}
}

type inducedTarjan struct {
	m          *model.Model
	remaining  map[int]bool
	members    map[int]bool
	index      map[int]int
	lowlink    map[int]int
	onStack    map[int]bool
	stack      []int
	next       int
	components [][]int
}

func (st *inducedTarjan) strongConnect(v int) {
	st.index[v] = st.next
	st.lowlink[v] = st.next
	st.next++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, ei := range st.m.OutgoingEdges(v) {
		w := st.m.Edge(ei).Target
		if !st.remaining[w] || !st.members[w] {
			continue
		}
		if _, visited := st.index[w]; !visited {
			st.strongConnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		} else if st.onStack[w] {
			if st.index[w] < st.lowlink[v] {
				st.lowlink[v] = st.index[w]
			}
		}
	}

	if st.lowlink[v] == st.index[v] {
		var comp []int
		for {
			n := len(st.stack) - 1
			w := st.stack[n]
			st.stack = st.stack[:n]
			st.onStack[w] = false
			comp = append(comp, w)
			if w == v {
				break
			}
		}
		st.components = append(st.components, comp)
	}
}
