// Package scenarios builds the bundled demonstration models named in
// SPEC_FULL.md §10.8 and exercised literally in spec.md §8: Bass
// diffusion (S1), a single SMOOTH-style balancing loop (S2), and a
// three-party arms race (S4). cmd/ltmctl's run and serve subcommands
// select one by name; runner's scenario tests hold the same models to
// the literal expectations spec.md §8 states for them.
package scenarios
