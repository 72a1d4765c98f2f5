package pace

import (
	"context"

	"golang.org/x/time/rate"
)

// Pacer throttles successive steps to a fixed rate. A nil *Pacer (the
// zero value accessed through a nil pointer) is a valid no-op pacer, so
// callers can pass one through unconditionally without a separate
// "enabled" check.
type Pacer struct {
	limiter *rate.Limiter
}

// New returns a Pacer allowing at most stepsPerSecond steps per second,
// with a burst of 1 (each step must wait for its own token; no
// catching-up in bursts, since a demonstration's whole point is a steady
// visible cadence).
func New(stepsPerSecond float64) *Pacer {
	return &Pacer{limiter: rate.NewLimiter(rate.Limit(stepsPerSecond), 1)}
}

// Wait blocks until the next step is allowed, or ctx is cancelled first.
// Called on a nil *Pacer, it returns nil immediately — the disabled,
// run-as-fast-as-possible default (§10.7).
func (p *Pacer) Wait(ctx context.Context) error {
	if p == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
