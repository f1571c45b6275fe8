// Package httpclient is the HTTP transport behind callbridge.
//
// Adapter performs requests synchronously and carries the transport
// concerns: URL resolution, body encoding, default headers, authentication,
// TLS, HTTP/2, circuit breaking and rate limiting.
//
// Dispatcher turns requests into enqueue-style calls. Each Call runs on its
// own goroutine, bounded by a bulkhead, and reports exactly one outcome to
// its callback. Calls satisfy call.Call[*Response], so they can be awaited
// with call.Execute:
//
//	adapter, _ := httpclient.New(httpclient.Config{BaseURL: "https://api.example.com"})
//	d := httpclient.NewDispatcher(adapter, httpclient.DispatcherConfig{MaxConcurrent: 16})
//
//	resp, err := call.Execute(ctx, d.NewCall(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/users/123",
//	}))
//
// A Call delivers any HTTP response, including 4xx and 5xx, through
// OnResponse. OnFailure is reserved for requests that produced no response.
// Use ClassifyStatusCode to turn an error status into an *Error.
package httpclient
