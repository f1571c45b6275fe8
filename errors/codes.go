package errors

import "net/http"

// ErrorCode is a machine-readable error code.
type ErrorCode string

// Upstream availability. Retryable.
const (
	// ErrCodeServiceUnavailable means the upstream refused work for now.
	ErrCodeServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	// ErrCodeConnectionFailed means the upstream could not be reached.
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeTimeout means the call ran out of time.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeRateLimited means the upstream asked us to slow down.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeExternalService means the upstream answered with a server error.
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
)

// Caller-side outcomes.
const (
	// ErrCodeCanceled means the caller gave up on the call.
	ErrCodeCanceled ErrorCode = "CANCELED"
	// ErrCodeNotFound means the requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeInvalidInput means the request was rejected as malformed.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeUnauthorized means credentials were missing or wrong.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeForbidden means the credentials lack permission.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
)

// ErrCodeInternal is anything we could not classify.
const ErrCodeInternal ErrorCode = "INTERNAL_ERROR"

// codeInfo is what a code implies for presentation.
type codeInfo struct {
	status    int
	retryable bool
}

var codeTable = map[ErrorCode]codeInfo{
	ErrCodeServiceUnavailable: {http.StatusServiceUnavailable, true},
	ErrCodeConnectionFailed:   {http.StatusServiceUnavailable, true},
	ErrCodeTimeout:            {http.StatusGatewayTimeout, true},
	ErrCodeRateLimited:        {http.StatusTooManyRequests, true},
	ErrCodeExternalService:    {http.StatusBadGateway, true},
	ErrCodeCanceled:           {statusClientClosedRequest, false},
	ErrCodeNotFound:           {http.StatusNotFound, false},
	ErrCodeInvalidInput:       {http.StatusBadRequest, false},
	ErrCodeUnauthorized:       {http.StatusUnauthorized, false},
	ErrCodeForbidden:          {http.StatusForbidden, false},
	ErrCodeInternal:           {http.StatusInternalServerError, false},
}

// statusClientClosedRequest is nginx's 499, used for calls the caller
// abandoned.
const statusClientClosedRequest = 499

// HTTPStatus is the status an error with this code maps to. Unknown codes
// map to 500.
func (c ErrorCode) HTTPStatus() int {
	if info, ok := codeTable[c]; ok {
		return info.status
	}
	return http.StatusInternalServerError
}

// IsRetryableCode reports whether a failure with this code may succeed
// when tried again.
func IsRetryableCode(code ErrorCode) bool {
	return codeTable[code].retryable
}
