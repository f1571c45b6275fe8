package httpclient

import (
	"context"
	"sync"

	"github.com/kbukum/callbridge/call"
)

// Call is one enqueue-style HTTP request created by a Dispatcher.
// It may be enqueued once; a second Enqueue reports ErrAlreadyExecuted.
type Call struct {
	id         string
	req        Request
	parent     context.Context
	dispatcher *Dispatcher

	mu       sync.Mutex
	executed bool
	canceled bool
	cancel   context.CancelFunc
}

var (
	_ call.Call[*Response] = (*Call)(nil)
	_ call.Canceler        = (*Call)(nil)
)

// ID returns the call's unique identifier.
func (c *Call) ID() string { return c.id }

// Request returns the request this call sends.
func (c *Call) Request() Request { return c.req }

// Enqueue schedules the call on its dispatcher. Exactly one of the
// callback's methods is invoked, on a dispatcher goroutine.
func (c *Call) Enqueue(cb call.Callback[*Response]) {
	c.mu.Lock()
	if c.executed {
		c.mu.Unlock()
		go cb.OnFailure(c, ErrAlreadyExecuted)
		return
	}
	c.executed = true
	ctx, cancel := context.WithCancel(c.parent)
	c.cancel = cancel
	if c.canceled {
		cancel()
	}
	c.mu.Unlock()

	c.dispatcher.dispatch(ctx, c, cb)
}

// Cancel aborts the call. A call canceled before or during execution
// fails with an ErrCodeCanceled error. Cancel is safe to call repeatedly.
func (c *Call) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.canceled = true
	if c.cancel != nil {
		c.cancel()
	}
}

// IsExecuted reports whether the call has been enqueued.
func (c *Call) IsExecuted() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.executed
}

// IsCanceled reports whether Cancel has been called.
func (c *Call) IsCanceled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.canceled
}

// release frees the call's context once its outcome is delivered.
func (c *Call) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cancel != nil {
		c.cancel()
	}
}
