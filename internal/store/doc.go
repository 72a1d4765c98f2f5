// Package store archives completed runs to Postgres (§10.4): one row per
// step, partition and loop, holding the loop's raw and relative scores and
// whether it was in that step's dominant set, tagged with a run id.
// Per-edge link scores are not archived. This is a pure write-behind archive —
// analysis.Analysis never reads through it mid-run, only a completed
// run's data is saved, preserving §4.6's "pure lookup, no recomputation"
// contract for the live Analysis API.
//
// Grounded on cryptorun's internal/infrastructure/db (sqlx.Open +
// connection-pool configuration shape) and
// internal/persistence/postgres.tradesRepo (the
// context.WithTimeout-per-call / prepared-statement-batch-insert idiom),
// adapted from trade rows to loop-score rows. Tested with
// github.com/DATA-DOG/go-sqlmock, already an indirect dependency of
// cryptorun's own test suite, promoted here to drive store_test.go without
// a live Postgres instance.
package store
