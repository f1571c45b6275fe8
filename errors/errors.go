package errors

import (
	"fmt"
)

// AppError is the presentation form of a failed call.
type AppError struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`

	// HTTPStatus is the status a server relaying this error would use.
	HTTPStatus int `json:"-"`
	// Cause is the error that was classified.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates an AppError whose status and retryability follow from code.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		Retryable:  IsRetryableCode(code),
		HTTPStatus: code.HTTPStatus(),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return New(code, fmt.Sprintf(format, args...))
}

// ServiceUnavailable reports an upstream that is not taking calls.
func ServiceUnavailable(service string) *AppError {
	return Newf(ErrCodeServiceUnavailable, "%s is not accepting calls right now", service).
		WithDetail("service", service)
}

// ConnectionFailed reports an upstream that could not be reached.
func ConnectionFailed(service string) *AppError {
	return Newf(ErrCodeConnectionFailed, "could not connect to %s", service).
		WithDetail("service", service)
}

// Timeout reports a call that ran out of time.
func Timeout(operation string) *AppError {
	return Newf(ErrCodeTimeout, "%s timed out", operation).
		WithDetail("operation", operation)
}

// Canceled reports a call the caller abandoned.
func Canceled(operation string) *AppError {
	return Newf(ErrCodeCanceled, "%s was canceled", operation).
		WithDetail("operation", operation)
}

// RateLimited reports that the upstream asked us to slow down.
func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "rate limited by upstream")
}

// NotFound reports a missing resource. id is left out when empty.
func NotFound(resource, id string) *AppError {
	e := Newf(ErrCodeNotFound, "%s not found", resource).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

// Validation reports input rejected as malformed.
func Validation(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

// Unauthorized reports missing or wrong credentials.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "authentication required"
	}
	return New(ErrCodeUnauthorized, reason)
}

// Forbidden reports credentials without permission.
func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "permission denied"
	}
	return New(ErrCodeForbidden, reason)
}

// Internal wraps an error nothing else could classify.
func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "unexpected error").WithCause(cause)
}

// ExternalServiceError reports a server-side failure upstream.
func ExternalServiceError(service string, cause error) *AppError {
	return Newf(ErrCodeExternalService, "%s returned a server error", service).
		WithDetail("service", service).
		WithCause(cause)
}
