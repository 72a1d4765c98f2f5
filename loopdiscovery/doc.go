// Package loopdiscovery finds the simple cycles a loop-score normalizer
// needs, within a single cycle partition (package partition).
//
// Two discovery strategies are offered, matching the size/precision
// trade-off described for this analysis:
//
//   - DiscoverExhaustive enumerates every simple cycle in the partition
//     using Johnson's algorithm, restricted to the induced subgraph of
//     ever-shrinking strongly connected components the same way Johnson's
//     algorithm restricts itself over the whole graph. It is structural
//     only — it needs no link scores — and is meant to run once per
//     partition, not once per simulation step. If the loop count would
//     exceed a caller-supplied budget, it aborts early and reports that
//     the caller should fall back to DiscoverHeuristic for every step of
//     that partition.
//   - DiscoverHeuristic runs a pruned, greedy DFS that follows the
//     strongest-magnitude edge first from each stock, recording a loop
//     whenever it walks back onto its own path. It needs the current
//     step's link scores and is meant to run once per step (or a sampled
//     subset of steps) for partitions too large for exhaustive
//     enumeration. It is not guaranteed to find every loop, or even the
//     single strongest one, but in practice misses only close structural
//     siblings of the loops it does find.
//
// Both strategies canonicalize discovered cycles the same way: rotate the
// variable sequence so the smallest variable index comes first, then
// deduplicate by the resulting edge-index sequence. This keeps a loop's
// identity (its canonical variable and edge sequences) stable across
// repeated discovery calls and across the two strategies. A loop's ID, by
// contrast, is only its position within one discovery result.
//
// The traversal idiom is the teacher corpus's three-color DFS (see
// package dfs in the katalvlaran-lvlath reference): visited/on-stack
// bookkeeping in per-call scratch state, explicit push/pop of a path
// slice, canonical-rotation dedup of discovered cycles. Johnson's
// algorithm itself has no counterpart in the retrieved example pack and
// is implemented here from its textbook description, in that idiom.
package loopdiscovery
