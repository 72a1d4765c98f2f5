package loopdiscovery

import (
	"strconv"

	"github.com/simlin/ltm/partition"
)

// Loop is one discovered simple cycle within a partition: a directed path
// of variables v0, v1, ..., vn-1 back to v0, closed by Edges[i] running
// from Variables[i] to Variables[(i+1)%n]. Canonicalized so Variables[0]
// is the smallest variable index on the cycle (§9 "Loop identity").
type Loop struct {
	// ID is this loop's position within its partition's discovered set,
	// stable for the lifetime of one discovery pass (Mode A) or one step
	// (Mode B); package analysis looks a loop's scores up by it.
	ID int

	// PartitionID is the owning partition.ID.
	PartitionID int

	// Variables lists the member variable indices in cycle order,
	// starting at the smallest index on the cycle.
	Variables []int

	// Edges lists the edge indices closing the cycle, in the same order:
	// Edges[i] runs from Variables[i] to Variables[(i+1)%len(Variables)].
	Edges []int
}

// loopCandidate is an uncanonicalized cycle as a discovery walk records
// it: the path it was found on, not yet rotated to start at its minimum
// variable.
type loopCandidate struct {
	variables []int
	edges     []int
}

// canonicalize rotates a candidate so its smallest variable index comes
// first and returns the edge-index sequence as a dedup signature.
func canonicalize(c loopCandidate) (Loop, string) {
	n := len(c.variables)
	minPos := 0
	for i := 1; i < n; i++ {
		if c.variables[i] < c.variables[minPos] {
			minPos = i
		}
	}
	vars := make([]int, n)
	edges := make([]int, n)
	for i := 0; i < n; i++ {
		vars[i] = c.variables[(minPos+i)%n]
		edges[i] = c.edges[(minPos+i)%n]
	}
	return Loop{Variables: vars, Edges: edges}, edgeSignature(edges)
}

func edgeSignature(edges []int) string {
	// Edge indices are small non-negative ints; a comma-joined decimal
	// string is a cheap, collision-free signature for this volume of
	// candidates (§5 resource budget bounds partition sizes).
	buf := make([]byte, 0, len(edges)*5)
	for _, e := range edges {
		buf = strconv.AppendInt(buf, int64(e), 10)
		buf = append(buf, ',')
	}
	return string(buf)
}

// dedupeAndAssignIDs canonicalizes every candidate, drops duplicates, and
// assigns stable ascending IDs in a deterministic order (sorted by
// signature) so repeated discovery passes over an unchanged graph agree.
func dedupeAndAssignIDs(candidates []loopCandidate, partitionID int) []Loop {
	seen := make(map[string]bool, len(candidates))
	loops := make([]Loop, 0, len(candidates))
	for _, c := range candidates {
		loop, sig := canonicalize(c)
		if seen[sig] {
			continue
		}
		seen[sig] = true
		loop.PartitionID = partitionID
		loops = append(loops, loop)
	}
	sortLoopsBySignature(loops)
	for i := range loops {
		loops[i].ID = i
	}
	return loops
}

func sortLoopsBySignature(loops []Loop) {
	sigs := make([]string, len(loops))
	for i := range loops {
		sigs[i] = edgeSignature(loops[i].Edges)
	}
	// insertion sort is fine at the loop counts this package targets
	// (Mode A's own budget caps it in the low thousands).
	for i := 1; i < len(loops); i++ {
		for j := i; j > 0 && sigs[j] < sigs[j-1]; j-- {
			loops[j], loops[j-1] = loops[j-1], loops[j]
			sigs[j], sigs[j-1] = sigs[j-1], sigs[j]
		}
	}
}

func partitionSet(p partition.Partition) map[int]bool {
	set := make(map[int]bool, len(p.Variables))
	for _, v := range p.Variables {
		set[v] = true
	}
	return set
}
