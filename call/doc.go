// Package call bridges enqueue-style asynchronous calls into a single
// blocking, context-aware function call.
//
// A Call schedules work and reports its outcome through exactly one of two
// callbacks. Execute registers a one-shot pending operation as the callback,
// parks the calling goroutine, and returns whichever outcome arrives first:
//
//	resp, err := call.Execute(ctx, dispatcher.NewCall(ctx, req))
//	if err != nil {
//	    // err is the exact failure the call reported, or ctx.Err()
//	}
//
// Execute never invokes a callback itself and never cancels the call unless
// WithCancelOnDone is given and the call implements Canceler.
//
// Func adapts a plain function to a Call, which is convenient for wrapping
// third-party callback APIs:
//
//	c := call.Func[*Reply](func(cb call.Callback[*Reply]) {
//	    legacy.Send(msg, func(r *Reply, err error) {
//	        if err != nil {
//	            cb.OnFailure(nil, err)
//	            return
//	        }
//	        cb.OnResponse(nil, r)
//	    })
//	})
package call
