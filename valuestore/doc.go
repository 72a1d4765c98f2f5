// Package valuestore records, for a single simulation run, the current
// value of every variable and the partial-change value of every incoming
// dependency at each time step (§2, §4.1). Records are appended once per
// step and never rewritten; the Store owns this history for the duration
// of the run, and package linkscore reads it at each step to score edges.
// The analysis API (package analysis) keeps its own per-step snapshots and
// does not read the Store.
package valuestore
