package call

import (
	"sync/atomic"

	"github.com/kbukum/callbridge/logger"
)

// outcome is the result-or-error union carried by a pending operation.
type outcome[R any] struct {
	resp R
	err  error
}

// pending is the single in-flight suspension of one Execute invocation.
// It accepts the first callback and drops every later one.
type pending[R any] struct {
	done     chan outcome[R]
	resolved atomic.Bool
	log      *logger.Logger
}

func newPending[R any](log *logger.Logger) *pending[R] {
	return &pending[R]{
		done: make(chan outcome[R], 1),
		log:  log,
	}
}

// OnResponse resolves the operation with resp.
func (p *pending[R]) OnResponse(_ Call[R], resp R) {
	p.resolve(outcome[R]{resp: resp}, "response")
}

// OnFailure resolves the operation with err.
func (p *pending[R]) OnFailure(_ Call[R], err error) {
	if err == nil {
		err = ErrNilFailure
	}
	p.resolve(outcome[R]{err: err}, "failure")
}

func (p *pending[R]) resolve(o outcome[R], kind string) {
	if !p.resolved.CompareAndSwap(false, true) {
		p.log.Warn("callback invoked after the call was resolved, dropping it", logger.Fields(
			"outcome", kind,
		))
		return
	}
	// done has capacity 1 and only the first resolver sends.
	p.done <- o
}

// isResolved reports whether a callback has already fired.
func (p *pending[R]) isResolved() bool {
	return p.resolved.Load()
}
