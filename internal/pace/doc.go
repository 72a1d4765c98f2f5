// Package pace throttles a live-streamed run to a configurable
// steps-per-second rate (§10.7), for demonstrations where a dashboard
// should see each step roughly as it happens rather than as fast as the
// integrator can produce them. Disabled by default so batch runs (and
// the test suite) are unaffected.
//
// Grounded on cryptorun's internal/net/ratelimit.Limiter, a thin wrapper
// around golang.org/x/time/rate.Limiter; adapted from a per-host request
// limiter to a single per-run step limiter.
package pace
