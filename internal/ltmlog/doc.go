// Package ltmlog configures the process-wide zerolog logger used by
// every other package in this module (§10.1), and attaches the
// run_id/step/variable_id/loop_id fields those packages log with.
//
// Grounded on cryptorun's cmd/cryptorun/main.go (the
// zerolog.ConsoleWriter-in-development setup) and
// application/analyst/run.go (the chained .Str/.Int/.Msg call style
// every log line in this module follows).
package ltmlog
