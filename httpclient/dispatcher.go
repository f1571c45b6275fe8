package httpclient

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/callbridge/call"
	"github.com/kbukum/callbridge/logger"
	"github.com/kbukum/callbridge/observability"
	"github.com/kbukum/callbridge/resilience"
)

// Dispatcher creates Calls and runs them on background goroutines.
type Dispatcher struct {
	adapter  *Adapter
	config   DispatcherConfig
	bulkhead *resilience.Bulkhead
	metrics  *observability.CallMetrics
	clock    clockwork.Clock
	log      *logger.Logger

	mu       sync.RWMutex
	closed   bool
	wg       sync.WaitGroup
	inFlight atomic.Int64
}

// DispatcherOption customizes a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock sets the clock used to time calls.
func WithClock(c clockwork.Clock) DispatcherOption {
	return func(d *Dispatcher) { d.clock = c }
}

// WithMetrics records call metrics on m.
func WithMetrics(m *observability.CallMetrics) DispatcherOption {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithLogger sets the dispatcher logger.
func WithLogger(l *logger.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.log = l }
}

// NewDispatcher creates a dispatcher that sends calls through adapter.
func NewDispatcher(adapter *Adapter, cfg DispatcherConfig, opts ...DispatcherOption) *Dispatcher {
	cfg.ApplyDefaults()

	wait := cfg.MaxWait
	if wait == 0 {
		wait = resilience.WaitForContext
	}

	d := &Dispatcher{
		adapter: adapter,
		config:  cfg,
		bulkhead: resilience.NewBulkhead(resilience.BulkheadConfig{
			Name:          adapter.Name(),
			MaxConcurrent: cfg.MaxConcurrent,
			MaxWait:       wait,
		}),
		clock: clockwork.NewRealClock(),
		log:   logger.Get("httpclient"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewCall prepares req as a Call bound to ctx. Nothing is sent until the
// call is enqueued.
func (d *Dispatcher) NewCall(ctx context.Context, req Request) *Call {
	id := uuid.NewString()
	return &Call{
		id:         id,
		req:        req,
		parent:     logger.ContextWithCallID(ctx, id),
		dispatcher: d,
	}
}

// InFlight returns the number of calls enqueued and not yet resolved.
func (d *Dispatcher) InFlight() int {
	return int(d.inFlight.Load())
}

// Adapter returns the adapter calls are sent through.
func (d *Dispatcher) Adapter() *Adapter {
	return d.adapter
}

// MaxConcurrent returns the dispatcher's concurrency limit.
func (d *Dispatcher) MaxConcurrent() int {
	return d.config.MaxConcurrent
}

// Shutdown rejects new calls and waits for in-flight calls to resolve or
// for ctx to end.
func (d *Dispatcher) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// dispatch starts c on a new goroutine.
func (d *Dispatcher) dispatch(ctx context.Context, c *Call, cb call.Callback[*Response]) {
	d.mu.RLock()
	if d.closed {
		d.mu.RUnlock()
		c.release()
		go cb.OnFailure(c, ErrDispatcherClosed)
		return
	}
	d.wg.Add(1)
	d.mu.RUnlock()

	d.inFlight.Add(1)
	go d.run(ctx, c, cb)
}

// run executes c and delivers exactly one outcome to cb.
func (d *Dispatcher) run(ctx context.Context, c *Call, cb call.Callback[*Response]) {
	defer d.wg.Done()
	defer c.release()

	method := c.req.method()
	ctx, span := observability.StartSpan(ctx, observability.SpanHTTPCall,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String(observability.AttrCallID, c.id),
			attribute.String(observability.AttrHTTPMethod, method),
			attribute.String(observability.AttrHTTPPath, c.req.Path),
		),
	)

	log := d.log.WithContext(ctx)
	start := d.clock.Now()
	d.metrics.RecordStart(ctx, method)

	var resp *Response
	err := d.bulkhead.Execute(ctx, func() error {
		var sendErr error
		resp, sendErr = d.adapter.send(ctx, c.req, false)
		return sendErr
	})
	elapsed := d.clock.Since(start)

	// Bookkeeping finishes before the callback so a caller resumed by it
	// observes the final in-flight count, metrics and span.
	d.inFlight.Add(-1)

	if err != nil {
		err = classifyTransport(ctx, err)
		observability.SetSpanError(ctx, err)
		d.metrics.RecordEnd(ctx, method, observability.OutcomeFailure, 0, elapsed)
		log.Debug("call failed", logger.Fields(
			logger.FieldMethod, method,
			logger.FieldURL, c.req.Path,
			logger.FieldError, err.Error(),
			logger.FieldDuration, elapsed.Milliseconds(),
		))
		span.End()
		cb.OnFailure(c, err)
		return
	}

	span.SetAttributes(attribute.Int(observability.AttrHTTPStatus, resp.StatusCode))
	d.metrics.RecordEnd(ctx, method, observability.OutcomeResponse, resp.StatusCode, elapsed)
	log.Debug("call completed", logger.Fields(
		logger.FieldMethod, method,
		logger.FieldURL, c.req.Path,
		logger.FieldStatus, resp.StatusCode,
		logger.FieldDuration, elapsed.Milliseconds(),
	))
	span.End()
	cb.OnResponse(c, resp)
}
