// Package partition computes cycle partitions (§4.3, §3): maximal sets of
// variables in which every pair lies on a common directed cycle. Loops are
// only ever compared (normalized against each other, checked for
// dominance) within the same partition.
//
// Compute runs Tarjan's strongly-connected-components algorithm over the
// compiled model's dependency graph (including implicit flow-to-stock
// edges) and discards trivial components — singletons without a
// self-loop, and non-singleton components that contain no stock, since a
// cycle that never passes through a stock cannot host a Loop (§3 "Loop").
//
// The traversal itself follows the three-color (white/gray/black),
// explicit-stack idiom used for cycle detection in the teacher corpus,
// extended with Tarjan's index/lowlink bookkeeping; the teacher has no
// Tarjan implementation of its own to adapt directly.
package partition
