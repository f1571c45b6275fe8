package observability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()
	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &rm))

	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func newTestMetrics(t *testing.T) (*CallMetrics, *sdkmetric.ManualReader) {
	t.Helper()
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	m, err := NewCallMetrics(mp.Meter("test"))
	require.NoError(t, err)
	return m, reader
}

func TestCallMetrics_RecordsOutcomes(t *testing.T) {
	m, reader := newTestMetrics(t)
	ctx := context.Background()

	m.RecordStart(ctx, "GET")
	m.RecordEnd(ctx, "GET", OutcomeResponse, 200, 50*time.Millisecond)
	m.RecordStart(ctx, "GET")
	m.RecordEnd(ctx, "GET", OutcomeFailure, 0, 10*time.Millisecond)
	m.RecordStart(ctx, "POST")

	metrics := collect(t, reader)

	total, ok := metrics["call.total"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "call.total should be an int64 sum")
	require.Len(t, total.DataPoints, 2)
	for _, dp := range total.DataPoints {
		outcome, _ := dp.Attributes.Value(attribute.Key(AttrOutcome))
		_, hasStatus := dp.Attributes.Value(attribute.Key(AttrHTTPStatus))
		switch outcome.AsString() {
		case OutcomeResponse:
			assert.True(t, hasStatus, "responses carry the status code")
		case OutcomeFailure:
			assert.False(t, hasStatus, "failures have no status code")
		default:
			t.Errorf("unexpected outcome %q", outcome.AsString())
		}
		assert.Equal(t, int64(1), dp.Value)
	}

	inflight, ok := metrics["call.inflight"].Data.(metricdata.Sum[int64])
	require.True(t, ok, "call.inflight should be an int64 sum")
	var open int64
	for _, dp := range inflight.DataPoints {
		open += dp.Value
	}
	assert.Equal(t, int64(1), open, "only the POST is still in flight")

	duration, ok := metrics["call.duration"].Data.(metricdata.Histogram[float64])
	require.True(t, ok, "call.duration should be a float64 histogram")
	var count uint64
	for _, dp := range duration.DataPoints {
		count += dp.Count
	}
	assert.Equal(t, uint64(2), count)
}

func TestCallMetrics_NilIsNoop(t *testing.T) {
	var m *CallMetrics
	assert.NotPanics(t, func() {
		m.RecordStart(context.Background(), "GET")
		m.RecordEnd(context.Background(), "GET", OutcomeResponse, 200, time.Second)
	})
}

func TestStartSpan_SetSpanError(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})

	ctx, span := StartSpan(context.Background(), SpanHTTPCall)
	SetSpanError(ctx, errors.New("connection refused"))
	SetSpanError(ctx, nil)
	span.End()

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, SpanHTTPCall, spans[0].Name)
	assert.Equal(t, codes.Error, spans[0].Status.Code)
	assert.Equal(t, "connection refused", spans[0].Status.Description)
	assert.Len(t, spans[0].Events, 1, "one recorded error event")
}

func TestSetSpanError_NoSpan(t *testing.T) {
	assert.NotPanics(t, func() {
		SetSpanError(context.Background(), errors.New("boom"))
	})
}

func TestSampler(t *testing.T) {
	tests := []struct {
		rate float64
		want string
	}{
		{1.0, "AlwaysOnSampler"},
		{2.0, "AlwaysOnSampler"},
		{0, "AlwaysOffSampler"},
		{-1, "AlwaysOffSampler"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sampler(tt.rate).Description(), "rate %v", tt.rate)
	}
	assert.Contains(t, sampler(0.5).Description(), "TraceIDRatioBased")
}

func TestNewResource(t *testing.T) {
	res, err := newResource("callbridge", "1.2.3", "test")
	require.NoError(t, err)

	attrs := res.Set()
	name, ok := attrs.Value(attribute.Key("service.name"))
	require.True(t, ok)
	assert.Equal(t, "callbridge", name.AsString())

	version, ok := attrs.Value(attribute.Key("service.version"))
	require.True(t, ok)
	assert.Equal(t, "1.2.3", version.AsString())
}

func TestDefaultConfigs(t *testing.T) {
	tc := DefaultTracerConfig("svc")
	assert.Equal(t, "svc", tc.ServiceName)
	assert.Equal(t, "localhost:4318", tc.Endpoint)
	assert.Equal(t, 1.0, tc.SampleRate)
	assert.True(t, tc.Insecure)

	mc := DefaultMeterConfig("svc")
	assert.Equal(t, "svc", mc.ServiceName)
	assert.Equal(t, 15*time.Second, mc.Interval)
}
