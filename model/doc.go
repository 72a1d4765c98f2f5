// Package model defines the compiled system-dynamics model that the LTM
// (Loops That Matter) core analyzes: Variables and the dependency Edges
// between them, stored in a stable-index arena rather than as owning
// pointers, so that the graph can be traversed and re-traversed by
// multiple analysis passes without aliasing concerns.
//
// A Model is built with a Builder, validated, and then frozen; once
// frozen it is immutable and may be shared read-only across concurrent
// runs (see runner.Run), each of which owns its own per-step storage.
//
// Variables are a tagged variant over Stock, Flow, and Auxiliary kinds.
// The kind-specific payload (initial equation and inflow/outflow lists
// for Stock; equation for Flow/Aux) lives on the Variable itself;
// structural polarity is attached to the Edge, never to the Variable, so
// that the same variable can participate in edges of different
// polarities.
package model
