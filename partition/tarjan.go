package partition

import (
	"sort"

	"github.com/simlin/ltm/model"
)

// Partition is one non-trivial strongly connected component of the
// dependency graph that contains at least one stock: a maximal set of
// variables, any two of which lie on a common directed cycle (§3).
type Partition struct {
	// ID is the partition's position in the slice Compute returns,
	// stable for the lifetime of the analysis (used to key per-partition
	// snapshots in package analysis).
	ID int

	// Variables lists the member variable indices, ascending.
	Variables []int
}

// Contains reports whether variable index v belongs to this partition.
func (p Partition) Contains(v int) bool {
	// Variables is small and sorted; linear scan is simpler than a map for
	// the partition sizes this analysis targets (§5 resource budget) and
	// avoids an allocation per partition.
	for _, x := range p.Variables {
		if x == v {
			return true
		}
		if x > v {
			return false
		}
	}
	return false
}

// tarjanState is scratch state for one Compute call; never shared across
// calls or mutated concurrently (§9 "Mode B state" applies equally here:
// no shared mutable global state).
type tarjanState struct {
	m          *model.Model
	index      []int // -1 = unvisited
	lowlink    []int
	onStack    []bool
	stack      []int
	nextIndex  int
	components [][]int
}

// Compute partitions m's dependency graph into cycle partitions.
// Complexity: O(V+E), matching Tarjan's algorithm.
func Compute(m *model.Model) []Partition {
	n := m.NumVariables()
	st := &tarjanState{
		m:       m,
		index:   make([]int, n),
		lowlink: make([]int, n),
		onStack: make([]bool, n),
	}
	for i := range st.index {
		st.index[i] = -1
	}

	for v := 0; v < n; v++ {
		if st.index[v] == -1 {
			st.strongConnect(v)
		}
	}

	var partitions []Partition
	for _, comp := range st.components {
		if !isNonTrivial(m, comp) {
			continue
		}
		if !containsStock(m, comp) {
			continue
		}
		sort.Ints(comp)
		partitions = append(partitions, Partition{Variables: comp})
	}
	sort.Slice(partitions, func(i, j int) bool {
		return partitions[i].Variables[0] < partitions[j].Variables[0]
	})
	for i := range partitions {
		partitions[i].ID = i
	}
	return partitions
}

// strongConnect is Tarjan's algorithm, recursive as the model graphs
// targeted by this analysis (bounded by §5's resource budget) do not
// require an explicit-stack rewrite to avoid recursion-depth limits.
func (st *tarjanState) strongConnect(v int) {
	st.index[v] = st.nextIndex
	st.lowlink[v] = st.nextIndex
	st.nextIndex++
	st.stack = append(st.stack, v)
	st.onStack[v] = true

	for _, ei := range st.m.OutgoingEdges(v) {
		w := st.m.Edge(ei).Target
		switch {
		case st.index[w] == -1:
			st.strongConnect(w)
			if st.lowlink[w] < st.lowlink[v] {
				st.lowlink[v] = st.lowlink[w]
			}
		case st.onStack[w]:
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

func isNonTrivial(m *model.Model, comp []int) bool {
	if len(comp) > 1 {
		return true
	}
	v := comp[0]
	for _, ei := range m.OutgoingEdges(v) {
		if m.Edge(ei).Target == v {
			return true
		}
	}
	return false
}

func containsStock(m *model.Model, comp []int) bool {
	for _, v := range comp {
		if m.Variable(v).Kind == model.KindStock {
			return true
		}
	}
	return false
}
