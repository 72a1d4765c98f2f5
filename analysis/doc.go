// Package analysis is the Analysis API (§4.6): a read-only, per-step
// record of everything the runner computed — link scores, the loop set
// and its raw/relative scores per partition, each partition's
// normalization denominator, and the per-step dominant set — plus the
// dependency graph's fixed structural-polarity map.
//
// An *Analysis accumulates one StepSnapshot per simulation step via
// RecordStep, appended in order (§5's "produced in step order"
// guarantee). Every read method after that is a pure lookup into
// already-recorded data: nothing here re-evaluates an equation,
// re-scores a link, or re-discovers a loop. That split — write during
// the run, read-only afterward — is what lets the run store (§10.4)
// archive completed snapshots without ever calling back into the core,
// and what lets the HTTP/WebSocket transport (§10.6) serve a live
// dashboard from the same data the engine already produced.
package analysis
