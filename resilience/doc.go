// Package resilience provides the guards callbridge places around outgoing
// HTTP calls.
//
//   - CircuitBreaker fails fast while an upstream keeps failing
//   - Bulkhead limits how many calls run at once
//   - RateLimiter paces requests with a token bucket
//
// The dispatcher composes them per call:
//
//	err := bh.Execute(ctx, func() error {
//	    if err := rl.Wait(ctx); err != nil {
//	        return err
//	    }
//	    return cb.Execute(func() error { return send(ctx) })
//	})
//
// CircuitBreaker and RateLimiter read time from a clockwork.Clock so tests
// can drive state transitions with a fake clock.
package resilience
