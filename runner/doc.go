// Package runner drives one simulation end to end: integrator.Engine
// produces each step's values, evaluator computes partial changes,
// linkscore scores every edge, loopdiscovery finds each partition's loop
// set (Mode A once at construction, Mode B fresh every step), loopscore
// turns loop sets into raw/relative/dominant scores, and analysis.Analysis
// accumulates the result.
//
// Grounded on cryptorun's internal/backtest/smoke90.Runner for the
// Config/NewRunner/Run(ctx) shape, and on its internal/scheduler and
// internal/application/pipeline.Executor for the
// select { case <-ctx.Done(): ... } per-step cancellation idiom (§5
// "the only suspension point is between whole steps, where a host may
// cancel").
package runner
