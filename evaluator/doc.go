// Package evaluator implements the partial-change evaluator (§4.1): after
// the integrator advances one step, it re-evaluates every non-stock
// target's equation once per incoming edge, holding every input at its
// previous-step value except the one edge's source, which is held at its
// current-step value. The resulting scalar, minus the target's
// previous-step value, is Δx(z) — the partial change in z attributable to
// x alone.
//
// The evaluator never touches stocks, flows, or any memoization shared
// with the integrator (purity contract, §4.1): it only calls the
// compiled, already-pure model.EquationFunc values with freshly built
// input slices.
package evaluator
