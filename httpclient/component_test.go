package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/callbridge/call"
	"github.com/kbukum/callbridge/component"
)

func TestComponent_Lifecycle(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	comp := NewComponent(Config{Name: "test-http", BaseURL: srv.URL})
	assert.Nil(t, comp.Adapter(), "adapter is built on Start")
	assert.Nil(t, comp.Dispatcher(), "dispatcher is built on Start")

	ctx := context.Background()
	require.NoError(t, comp.Start(ctx))
	require.NotNil(t, comp.Dispatcher())

	health := comp.Health(ctx)
	assert.Equal(t, component.StatusHealthy, health.Status)
	assert.Equal(t, "test-http", health.Name)

	resp, err := call.Execute(ctx, comp.Dispatcher().NewCall(ctx, Request{Path: "/"}))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	require.NoError(t, comp.Stop(ctx))
}

func TestComponent_StartTwiceKeepsAdapter(t *testing.T) {
	comp := NewComponent(Config{BaseURL: "http://localhost"})
	require.NoError(t, comp.Start(context.Background()))
	first := comp.Adapter()
	require.NoError(t, comp.Start(context.Background()))
	assert.Same(t, first, comp.Adapter())
}

func TestComponent_StartInvalidConfig(t *testing.T) {
	comp := NewComponent(Config{Dispatcher: DispatcherConfig{MaxWait: -time.Second}})
	assert.Error(t, comp.Start(context.Background()))
	assert.Nil(t, comp.Adapter())
}

func TestComponent_StopDrainsCalls(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	comp := NewComponent(Config{BaseURL: srv.URL})
	ctx := context.Background()
	require.NoError(t, comp.Start(ctx))

	done := make(chan error, 1)
	go func() {
		_, err := call.Execute(ctx, comp.Dispatcher().NewCall(ctx, Request{Path: "/slow"}))
		done <- err
	}()
	require.Eventually(t, func() bool { return comp.Dispatcher().InFlight() == 1 }, time.Second, 5*time.Millisecond)

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, comp.Stop(short), context.DeadlineExceeded, "stop gives up while the call is running")

	close(release)
	require.NoError(t, <-done)
	require.NoError(t, comp.Stop(ctx))
}

func TestComponent_NameAndDescribe(t *testing.T) {
	assert.Equal(t, "http", NewComponent(Config{}).Name())

	comp := NewComponent(Config{Name: "my-api", BaseURL: "https://example.com", HTTP2: true})
	assert.Equal(t, "my-api", comp.Name())

	desc := comp.Describe()
	assert.Equal(t, "http-client", desc.Type)
	assert.Equal(t, "https://example.com h2", desc.Details)
}

func TestComponent_Health(t *testing.T) {
	comp := NewComponent(Config{BaseURL: "http://localhost"})
	h := comp.Health(context.Background())
	assert.Equal(t, component.StatusUnhealthy, h.Status)
	assert.Equal(t, "not started", h.Message)

	cb := DefaultCircuitBreakerConfig("http")
	cb.MaxFailures = 1
	open := NewComponent(Config{BaseURL: "http://127.0.0.1:1", CircuitBreaker: cb})
	require.NoError(t, open.Start(context.Background()))
	_, err := open.Adapter().Do(context.Background(), Request{Path: "/"})
	require.Error(t, err)

	h = open.Health(context.Background())
	assert.Equal(t, component.StatusUnhealthy, h.Status)
	assert.Equal(t, "circuit open", h.Message)
}
