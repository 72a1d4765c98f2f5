// Package ltmmetrics exposes prometheus.Collector instances for a
// running analysis (§10.5): step duration, evaluation failures by
// variable id, dominant-loop-set size per partition, and Mode A
// cache hit/miss counts.
//
// Grounded on chidi150c-coinbase's metrics.go for metric naming and
// label-vector shape (bot_orders_total{mode,side} style), adapted from
// package-level globals registered in init() to a constructed Metrics
// value registered against a caller-supplied prometheus.Registerer, so
// more than one run (as in this module's own tests) can register
// independently instead of panicking on duplicate registration.
package ltmmetrics
