package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/kbukum/callbridge/call"
	"github.com/kbukum/callbridge/httpclient"
)

// Client is a JSON-focused REST client. All requests send
// Content-Type and Accept headers of application/json unless configured
// otherwise.
type Client struct {
	adapter    *httpclient.Adapter
	dispatcher *httpclient.Dispatcher
	owned      bool
}

// New creates an adapter and dispatcher from cfg.
func New(cfg httpclient.Config, opts ...httpclient.DispatcherOption) (*Client, error) {
	headers := make(map[string]string, len(cfg.Headers)+2)
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	if _, ok := headers["Content-Type"]; !ok {
		headers["Content-Type"] = "application/json"
	}
	if _, ok := headers["Accept"]; !ok {
		headers["Accept"] = "application/json"
	}
	cfg.Headers = headers

	a, err := httpclient.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Client{
		adapter:    a,
		dispatcher: httpclient.NewDispatcher(a, a.Config().Dispatcher, opts...),
		owned:      true,
	}, nil
}

// NewFromDispatcher creates a client sharing d and its adapter. Close
// leaves d running.
func NewFromDispatcher(d *httpclient.Dispatcher) *Client {
	return &Client{adapter: d.Adapter(), dispatcher: d}
}

// Dispatcher returns the dispatcher requests are enqueued on.
func (c *Client) Dispatcher() *httpclient.Dispatcher {
	return c.dispatcher
}

// Name returns the adapter name.
func (c *Client) Name() string {
	return c.adapter.Name()
}

// IsAvailable reports false while the adapter's circuit is open.
func (c *Client) IsAvailable(ctx context.Context) bool {
	return c.adapter.IsAvailable(ctx)
}

// Close drains in-flight requests and releases connections. It is a no-op
// for clients built with NewFromDispatcher.
func (c *Client) Close(ctx context.Context) error {
	if !c.owned {
		return nil
	}
	if err := c.dispatcher.Shutdown(ctx); err != nil {
		return err
	}
	return c.adapter.Close(ctx)
}

// RequestOption configures a single REST request.
type RequestOption func(*httpclient.Request)

// WithQuery sets query parameters on the request.
func WithQuery(params map[string]string) RequestOption {
	return func(r *httpclient.Request) {
		r.Query = params
	}
}

// WithHeaders sets request headers.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *httpclient.Request) {
		r.Headers = headers
	}
}

// WithAuth overrides authentication for the request.
func WithAuth(auth *httpclient.AuthConfig) RequestOption {
	return func(r *httpclient.Request) {
		r.Auth = auth
	}
}

// Response wraps a typed REST response.
type Response[T any] struct {
	StatusCode int
	Headers    map[string]string
	// Data is the decoded response body.
	Data T
}

// Get performs a GET request and decodes the JSON response into type T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post sends body as JSON and decodes the response into type T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

// Put sends body as JSON and decodes the response into type T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPut, path, body, opts...)
}

// Patch sends body as JSON and decodes the response into type T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE request and decodes the response into type T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Response[T], error) {
	return do[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

func do[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*Response[T], error) {
	req := httpclient.Request{
		Method: method,
		Path:   path,
		Body:   body,
	}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := call.Execute(ctx, c.dispatcher.NewCall(ctx, req), call.WithCancelOnDone())
	if err != nil {
		return nil, err
	}

	out := &Response[T]{StatusCode: resp.StatusCode, Headers: resp.Headers}

	if statusErr := httpclient.ClassifyStatusCode(resp.StatusCode, resp.Body); statusErr != nil {
		if json.Unmarshal(resp.Body, &out.Data) == nil {
			return out, statusErr
		}
		return nil, statusErr
	}

	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &out.Data); err != nil {
			return nil, fmt.Errorf("httpclient/rest: decode response: %w", err)
		}
	}
	return out, nil
}
