package ltmlog

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger. pretty selects a
// human-readable console writer (development); false emits line-delimited
// JSON (production), matching the split cryptorun's cmd/cryptorun makes
// between interactive and deployed runs.
func Init(level zerolog.Level, pretty bool) {
	zerolog.SetGlobalLevel(level)
	if pretty {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
		return
	}
	log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
}

// Run returns a logger with run_id bound to every subsequent field,
// passed down to Step for each simulation step within that run.
func Run(runID string) zerolog.Logger {
	return log.With().Str("run_id", runID).Logger()
}

// Step returns runLogger with step bound, the granularity at which §10.1
// asks routine completion to log at Debug.
func Step(runLogger zerolog.Logger, step int) zerolog.Logger {
	return runLogger.With().Int("step", step).Logger()
}

// EvaluationFailure logs a variable evaluation failure at Warn with the
// offending variable id and step, per §7's "surfaced failures carry the
// offending variable id and step".
func EvaluationFailure(stepLogger zerolog.Logger, variableID string, err error) {
	stepLogger.Warn().Str("variable_id", variableID).Err(err).Msg("variable evaluation failed")
}

// AlgebraicLoop logs a rejected model at Error with the involved
// variable, since this failure prevents a run from starting at all.
func AlgebraicLoop(variableID string, err error) {
	log.Error().Str("variable_id", variableID).Err(err).Msg("algebraic loop rejected")
}

// LoopDiscovered logs, at Debug, one loop entering a partition's dominant
// set — a dominance shift, the phenomenon this analysis exists to detect
// (§4.5 "Behavior at extremes").
func LoopDiscovered(stepLogger zerolog.Logger, partitionID int, loopID int) {
	stepLogger.Debug().Int("partition_id", partitionID).Int("loop_id", loopID).Msg("loop entered dominant set")
}
