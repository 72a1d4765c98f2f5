// Package integrator is a minimal fixed-step Euler simulation engine over
// a compiled model.Model: it computes every variable's value at each
// step and seals the result into a valuestore.Store for the partial-change
// evaluator and link scorer to read.
//
// The full specification treats "the integrator" as an external
// collaborator — a host simulation engine that calls into this analysis
// per step — and explicitly scopes non-Euler integrators as a save-step
// compatibility concern only (§9 design notes). This package supplies the
// reference Euler engine so the rest of the analysis can be built and
// tested end to end without a host; package runner drives it together
// with link scoring, loop discovery, and loop scoring each step.
//
// Within a step, flows and auxiliaries are evaluated in the dependency
// graph's topological order restricted to non-stock variables. That order
// exists only when every cycle in the graph passes through a stock; New
// rejects a model with a cycle among flows and auxiliaries alone
// (ErrAlgebraicLoop).
package integrator
