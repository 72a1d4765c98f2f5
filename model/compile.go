package model

import "fmt"

// Compile validates the declared variables and freezes them, plus the
// edges implied by Inputs and by Stock inflow/outflow lists, into an
// immutable Model. Edges are never added or removed afterward (§3
// Lifecycle).
//
// Validation failures are graph inconsistencies per §7: a dangling
// reference, or a stock's inflow/outflow pointing at a non-flow. They are
// fatal and must abort the run before step 0 — Compile is the "before
// step 0" checkpoint.
func (b *Builder) Compile() (*Model, error) {
	m := &Model{
		variables: b.vars,
		indexByID: b.indexByID,
	}

	for _, v := range m.variables {
		switch v.Kind {
		case KindFlow, KindAux:
			seen := make(map[int]bool, len(v.Inputs))
			for pos, in := range v.Inputs {
				if in < 0 || in >= len(m.variables) {
					return nil, fmt.Errorf("%w: variable %q input index %d", ErrDanglingEdge, v.ID, in)
				}
				// A source read more than once by the same equation (e.g. a
				// symmetric function of the same input) is still one causal
				// edge: the partial-change evaluator sets every occurrence
				// of x to its current value together, never some occurrences
				// only.
				if seen[in] {
					continue
				}
				seen[in] = true
				m.addEdge(in, v.Index, v.inputPolarity, pos)
			}
		case KindStock:
			for _, in := range v.InitialInputs {
				if in < 0 || in >= len(m.variables) {
					return nil, fmt.Errorf("%w: stock %q initial input index %d", ErrDanglingEdge, v.ID, in)
				}
			}
			for _, f := range v.Inflows {
				if f < 0 || f >= len(m.variables) || m.variables[f].Kind != KindFlow {
					return nil, fmt.Errorf("%w: stock %q inflow index %d", ErrNotAFlow, v.ID, f)
				}
				m.addFlowEdge(f, v.Index, false)
			}
			for _, f := range v.Outflows {
				if f < 0 || f >= len(m.variables) || m.variables[f].Kind != KindFlow {
					return nil, fmt.Errorf("%w: stock %q outflow index %d", ErrNotAFlow, v.ID, f)
				}
				m.addFlowEdge(f, v.Index, true)
			}
		}
	}

	m.buildAdjacency()
	return m, nil
}

// addEdge appends an ordinary dependency edge source->target, applying any
// polarity override recorded for that input position.
func (m *Model) addEdge(source, target int, overrides map[int]Polarity, pos int) {
	polarity := PolarityUnknown
	if overrides != nil {
		if p, ok := overrides[pos]; ok {
			polarity = p
		}
	}
	e := &Edge{Index: len(m.edges), Source: source, Target: target, Polarity: polarity}
	m.edges = append(m.edges, e)
}

// addFlowEdge appends an implicit flow-to-stock edge (§3), scored by the
// flow-to-stock formula rather than the instantaneous one.
func (m *Model) addFlowEdge(flow, stock int, outflow bool) {
	polarity := PolarityPositive
	if outflow {
		polarity = PolarityNegative
	}
	e := &Edge{
		Index:       len(m.edges),
		Source:      flow,
		Target:      stock,
		Polarity:    polarity,
		FlowToStock: true,
		Outflow:     outflow,
	}
	m.edges = append(m.edges, e)
}
