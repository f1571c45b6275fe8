package httpclient

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/callbridge/call"
	"github.com/kbukum/callbridge/logger"
	"github.com/kbukum/callbridge/observability"
)

func newTestDispatcher(t *testing.T, cfg Config, opts ...DispatcherOption) *Dispatcher {
	t.Helper()
	a := newTestAdapter(t, cfg)
	d := NewDispatcher(a, a.Config().Dispatcher, opts...)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = d.Shutdown(ctx)
	})
	return d
}

// recorder captures the single outcome delivered to a callback.
type recorder struct {
	done chan struct{}
	once sync.Once
	call call.Call[*Response]
	resp *Response
	err  error
}

func newRecorder() *recorder { return &recorder{done: make(chan struct{})} }

func (r *recorder) OnResponse(c call.Call[*Response], resp *Response) {
	r.once.Do(func() { r.call, r.resp = c, resp; close(r.done) })
}

func (r *recorder) OnFailure(c call.Call[*Response], err error) {
	r.once.Do(func() { r.call, r.err = c, err; close(r.done) })
}

func (r *recorder) wait(t *testing.T) {
	t.Helper()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was never invoked")
	}
}

func TestDispatcher_DeliversResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pong"))
	}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL})
	c := d.NewCall(context.Background(), Request{Path: "/ping"})
	assert.NotEmpty(t, c.ID())
	assert.Equal(t, "/ping", c.Request().Path)
	assert.False(t, c.IsExecuted())

	rec := newRecorder()
	c.Enqueue(rec)
	rec.wait(t)

	require.NoError(t, rec.err)
	assert.Equal(t, "pong", string(rec.resp.Body))
	assert.Same(t, c, rec.call, "the callback receives the call it was enqueued on")
	assert.True(t, c.IsExecuted())
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatcher_ErrorStatusIsAResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL})
	resp, err := call.Execute(context.Background(), d.NewCall(context.Background(), Request{Path: "/"}))

	require.NoError(t, err)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.True(t, IsServerError(resp.Err()))
}

func TestDispatcher_TransportFailure(t *testing.T) {
	d := newTestDispatcher(t, Config{BaseURL: "http://127.0.0.1:1"})
	resp, err := call.Execute(context.Background(), d.NewCall(context.Background(), Request{Path: "/"}))

	assert.Nil(t, resp)
	assert.True(t, IsConnection(err), "got %v", err)
}

func TestCall_EnqueueTwice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL})
	c := d.NewCall(context.Background(), Request{Path: "/"})

	_, err := call.Execute(context.Background(), c)
	require.NoError(t, err)

	_, err = call.Execute(context.Background(), c)
	assert.ErrorIs(t, err, ErrAlreadyExecuted)
}

func TestCall_CancelBeforeEnqueue(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL})
	c := d.NewCall(context.Background(), Request{Path: "/"})
	c.Cancel()
	c.Cancel()
	assert.True(t, c.IsCanceled())

	_, err := call.Execute(context.Background(), c)
	assert.True(t, IsCanceled(err), "got %v", err)
	assert.Zero(t, hits.Load())
}

func TestCall_CancelOnDone(t *testing.T) {
	aborted := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		close(aborted)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL})
	c := d.NewCall(context.Background(), Request{Path: "/hang"})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	_, err := call.Execute(ctx, c, call.WithCancelOnDone())

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, c.IsCanceled())
	select {
	case <-aborted:
	case <-time.After(2 * time.Second):
		t.Fatal("canceling the call should abort the in-flight request")
	}
	require.Eventually(t, func() bool { return d.InFlight() == 0 }, time.Second, 5*time.Millisecond)
}

func TestDispatcher_BoundsConcurrency(t *testing.T) {
	var running, peak atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := running.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		running.Add(-1)
	}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL, Dispatcher: DispatcherConfig{MaxConcurrent: 2}})
	assert.Equal(t, 2, d.MaxConcurrent())

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := call.Execute(context.Background(), d.NewCall(context.Background(), Request{Path: "/"}))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(2))
	assert.Equal(t, 0, d.InFlight())
}

func TestDispatcher_MaxWait(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()
	defer close(release)

	d := newTestDispatcher(t, Config{
		BaseURL:    srv.URL,
		Dispatcher: DispatcherConfig{MaxConcurrent: 1, MaxWait: 10 * time.Millisecond},
	})

	first := newRecorder()
	d.NewCall(context.Background(), Request{Path: "/"}).Enqueue(first)
	require.Eventually(t, func() bool { return d.InFlight() == 1 }, time.Second, time.Millisecond)

	_, err := call.Execute(context.Background(), d.NewCall(context.Background(), Request{Path: "/"}))
	assert.True(t, IsConnection(err), "a call that cannot get a slot fails, got %v", err)
}

func TestDispatcher_Shutdown(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	defer srv.Close()

	d := newTestDispatcher(t, Config{BaseURL: srv.URL})
	running := newRecorder()
	d.NewCall(context.Background(), Request{Path: "/"}).Enqueue(running)
	require.Eventually(t, func() bool { return d.InFlight() == 1 }, time.Second, time.Millisecond)

	short, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, d.Shutdown(short), context.DeadlineExceeded)

	_, err := call.Execute(context.Background(), d.NewCall(context.Background(), Request{Path: "/"}))
	assert.ErrorIs(t, err, ErrDispatcherClosed)

	close(release)
	running.wait(t)
	require.NoError(t, running.err)
	assert.NoError(t, d.Shutdown(context.Background()))
}

func TestDispatcher_Observability(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	spans := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(spans))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })
	metrics, err := observability.NewCallMetrics(mp.Meter("test"))
	require.NoError(t, err)

	var logs bytes.Buffer
	var logsMu sync.Mutex
	log := logger.NewWithWriter(logger.Config{Level: "debug", Format: logger.FormatJSON},
		"test", writerFunc(func(p []byte) (int, error) {
			logsMu.Lock()
			defer logsMu.Unlock()
			return logs.Write(p)
		}))

	d := newTestDispatcher(t, Config{BaseURL: srv.URL}, WithMetrics(metrics), WithLogger(log))

	ok := d.NewCall(context.Background(), Request{Path: "/ok"})
	_, err = call.Execute(context.Background(), ok)
	require.NoError(t, err)
	_, err = call.Execute(context.Background(), d.NewCall(context.Background(), Request{Path: "/missing"}))
	require.NoError(t, err)

	ended := spans.GetSpans()
	require.Len(t, ended, 2)
	assert.Equal(t, observability.SpanHTTPCall, ended[0].Name)
	attrs := attribute.NewSet(ended[0].Attributes...)
	id, found := attrs.Value(attribute.Key(observability.AttrCallID))
	require.True(t, found)
	assert.Equal(t, ok.ID(), id.AsString())
	status, found := attrs.Value(attribute.Key(observability.AttrHTTPStatus))
	require.True(t, found)
	assert.Equal(t, int64(http.StatusOK), status.AsInt64())

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))
	var calls int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, isSum := m.Data.(metricdata.Sum[int64]); isSum && m.Name == "call.total" {
				for _, dp := range sum.DataPoints {
					calls += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), calls)

	logsMu.Lock()
	defer logsMu.Unlock()
	assert.Contains(t, logs.String(), `"call_id":"`+ok.ID()+`"`)
	assert.Contains(t, logs.String(), "call completed")
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }
