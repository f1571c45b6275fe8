package httpclient

import (
	"context"
	"fmt"
	"sync"

	"github.com/kbukum/callbridge/component"
)

// Component manages an Adapter and its Dispatcher as one lifecycle unit.
// Stop drains in-flight calls before closing idle connections.
type Component struct {
	config       Config
	opts         []Option
	dispatchOpts []DispatcherOption

	mu         sync.RWMutex
	adapter    *Adapter
	dispatcher *Dispatcher
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates an HTTP client component. The adapter and
// dispatcher are built in Start.
func NewComponent(cfg Config, opts ...Option) *Component {
	return &Component{config: cfg, opts: opts}
}

// WithDispatcherOptions sets options applied to the dispatcher on Start.
func (c *Component) WithDispatcherOptions(opts ...DispatcherOption) *Component {
	c.dispatchOpts = append(c.dispatchOpts, opts...)
	return c
}

// Name returns the component name.
func (c *Component) Name() string {
	if c.config.Name == "" {
		return "http"
	}
	return c.config.Name
}

// Start builds the adapter and dispatcher.
func (c *Component) Start(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adapter != nil {
		return nil
	}
	a, err := New(c.config, c.opts...)
	if err != nil {
		return err
	}
	c.adapter = a
	c.dispatcher = NewDispatcher(a, a.Config().Dispatcher, c.dispatchOpts...)
	return nil
}

// Stop shuts the dispatcher down, waiting for in-flight calls until ctx
// ends, then closes the adapter.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.adapter == nil {
		return nil
	}
	if err := c.dispatcher.Shutdown(ctx); err != nil {
		return fmt.Errorf("httpclient: drain %d in-flight calls: %w", c.dispatcher.InFlight(), err)
	}
	return c.adapter.Close(ctx)
}

// Health reports unhealthy before Start and while the circuit is open.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	switch {
	case c.adapter == nil:
		h.Status, h.Message = component.StatusUnhealthy, "not started"
	case !c.adapter.IsAvailable(ctx):
		h.Status, h.Message = component.StatusUnhealthy, "circuit open"
	case c.dispatcher.InFlight() >= c.dispatcher.MaxConcurrent():
		h.Status, h.Message = component.StatusDegraded, "dispatcher saturated"
	}
	return h
}

// Describe summarizes the client configuration.
func (c *Component) Describe() component.Description {
	details := c.config.BaseURL
	if c.config.HTTP2 {
		details += " h2"
	}
	return component.Description{
		Name:    c.Name(),
		Type:    "http-client",
		Details: details,
	}
}

// Adapter returns the adapter. Nil before Start.
func (c *Component) Adapter() *Adapter {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.adapter
}

// Dispatcher returns the dispatcher. Nil before Start.
func (c *Component) Dispatcher() *Dispatcher {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dispatcher
}
