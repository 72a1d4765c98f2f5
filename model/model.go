package model

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"
)

// Model is the compiled, immutable dependency graph: a Variable arena plus
// an Edge arena indexed by source/target variable index (§9 "Cyclic
// graphs" — indices, never owning back-references). It is safe to share
// read-only across concurrent runs; each run owns its own per-step
// storage (see runner.Run and valuestore.Store).
type Model struct {
	variables []*Variable
	edges     []*Edge
	indexByID map[string]int

	outgoing [][]int // outgoing[v] = edge indices with Source == v
	incoming [][]int // incoming[v] = edge indices with Target == v

	cacheMu sync.Mutex
	cache   map[string]interface{}
}

// NumVariables returns the number of variables in the arena.
func (m *Model) NumVariables() int { return len(m.variables) }

// NumEdges returns the number of edges in the arena.
func (m *Model) NumEdges() int { return len(m.edges) }

// Variable returns the variable at index i. Panics if i is out of range,
// matching the arena's stable-index contract: a valid index is always in
// range for the lifetime of the Model.
func (m *Model) Variable(i int) *Variable { return m.variables[i] }

// Variables returns the full variable arena. Callers must not mutate it.
func (m *Model) Variables() []*Variable { return m.variables }

// Edge returns the edge at index i.
func (m *Model) Edge(i int) *Edge { return m.edges[i] }

// Edges returns the full edge arena. Callers must not mutate it.
func (m *Model) Edges() []*Edge { return m.edges }

// VariableByID looks up a variable's index by its declared ID.
func (m *Model) VariableByID(id string) (int, bool) {
	idx, ok := m.indexByID[id]
	return idx, ok
}

// OutgoingEdges returns the indices of edges whose Source is v.
func (m *Model) OutgoingEdges(v int) []int { return m.outgoing[v] }

// IncomingEdges returns the indices of edges whose Target is v.
func (m *Model) IncomingEdges(v int) []int { return m.incoming[v] }

func (m *Model) buildAdjacency() {
	m.outgoing = make([][]int, len(m.variables))
	m.incoming = make([][]int, len(m.variables))
	for _, e := range m.edges {
		m.outgoing[e.Source] = append(m.outgoing[e.Source], e.Index)
		m.incoming[e.Target] = append(m.incoming[e.Target], e.Index)
	}
}

// Hash returns a stable content hash over the compiled structure (variable
// ids/kinds, edge endpoints/polarity/flow-to-stock tags) but not over
// equation closures, which are not comparable. It identifies a Model for
// the cross-run/cross-process Mode A loop-set cache (§10.3): two Model
// values built from the same source produce the same Hash, and callers
// wishing to reuse a discovered loop set across processes use this as the
// cache key.
func (m *Model) Hash() string {
	h := sha256.New()
	for _, v := range m.variables {
		fmt.Fprintf(h, "v|%d|%s|%d|%v|%v|%v\n", v.Index, v.ID, v.Kind, v.Inputs, v.Inflows, v.Outflows)
	}
	for _, e := range m.edges {
		fmt.Fprintf(h, "e|%d|%d|%d|%d|%v|%v\n", e.Index, e.Source, e.Target, e.Polarity, e.FlowToStock, e.Outflow)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CacheGet retrieves a value previously stored with CacheSet, typically a
// discovered Mode A loop set keyed by partition. It is the in-process half
// of the loop-set cache described in §4.4/§5/§10.3; the Redis-backed
// cross-process half lives in internal/cache and is keyed by Hash.
func (m *Model) CacheGet(key string) (interface{}, bool) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	v, ok := m.cache[key]
	return v, ok
}

// CacheSet stores a value for later CacheGet calls, shared by any run
// holding this same *Model.
func (m *Model) CacheSet(key string, value interface{}) {
	m.cacheMu.Lock()
	defer m.cacheMu.Unlock()
	if m.cache == nil {
		m.cache = make(map[string]interface{})
	}
	m.cache[key] = value
}
