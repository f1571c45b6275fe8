package call

import "errors"

// ErrNilCall is returned by Execute when it is given a nil Call.
var ErrNilCall = errors.New("call: nil call")

// ErrNilFailure is returned by Execute when a Call reports a failure
// without an error value.
var ErrNilFailure = errors.New("call: failure reported without an error")

// Call is one pending asynchronous request of response type R.
//
// Enqueue schedules the request and must invoke exactly one of the
// callback's methods exactly once, on any goroutine.
type Call[R any] interface {
	Enqueue(cb Callback[R])
}

// Callback receives the outcome of a Call.
type Callback[R any] interface {
	// OnResponse is invoked when the call produced a response.
	OnResponse(c Call[R], resp R)
	// OnFailure is invoked when the call could not produce a response.
	OnFailure(c Call[R], err error)
}

// Canceler is implemented by calls that can abort their in-flight work.
type Canceler interface {
	Cancel()
}

// Func adapts an enqueue function to the Call interface.
type Func[R any] func(cb Callback[R])

// Enqueue calls f(cb).
func (f Func[R]) Enqueue(cb Callback[R]) {
	f(cb)
}

// CallbackFuncs adapts a pair of functions to the Callback interface.
// Nil fields are ignored.
type CallbackFuncs[R any] struct {
	Response func(c Call[R], resp R)
	Failure  func(c Call[R], err error)
}

// OnResponse calls f.Response if set.
func (f CallbackFuncs[R]) OnResponse(c Call[R], resp R) {
	if f.Response != nil {
		f.Response(c, resp)
	}
}

// OnFailure calls f.Failure if set.
func (f CallbackFuncs[R]) OnFailure(c Call[R], err error) {
	if f.Failure != nil {
		f.Failure(c, err)
	}
}
