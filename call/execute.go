package call

import (
	"context"

	"github.com/kbukum/callbridge/logger"
)

// Option configures a single Execute invocation.
type Option func(*options)

type options struct {
	cancelOnDone bool
	log          *logger.Logger
}

// WithCancelOnDone makes Execute call Cancel on the Call when ctx ends
// before the call resolves. Calls that do not implement Canceler are left
// running.
func WithCancelOnDone() Option {
	return func(o *options) { o.cancelOnDone = true }
}

// WithLogger sets the logger used to report callback contract violations.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Execute enqueues c and blocks until it resolves or ctx ends.
//
// On a response it returns the exact value handed to OnResponse. On a
// failure it returns the exact error handed to OnFailure, unwrapped. If ctx
// ends first it returns ctx.Err(); a response that arrives later is dropped.
func Execute[R any](ctx context.Context, c Call[R], opts ...Option) (R, error) {
	var zero R
	if c == nil {
		return zero, ErrNilCall
	}

	o := options{log: logger.Get("call")}
	for _, opt := range opts {
		opt(&o)
	}

	p := newPending[R](o.log)
	c.Enqueue(p)

	select {
	case res := <-p.done:
		return res.resp, res.err
	case <-ctx.Done():
		// Prefer an outcome that raced with cancellation.
		select {
		case res := <-p.done:
			return res.resp, res.err
		default:
		}
		if o.cancelOnDone {
			if cc, ok := c.(Canceler); ok {
				cc.Cancel()
			}
		}
		return zero, ctx.Err()
	}
}
