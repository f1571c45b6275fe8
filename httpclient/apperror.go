package httpclient

import (
	"context"
	"errors"

	apperrors "github.com/kbukum/callbridge/errors"
)

// ToAppError maps a call failure or status error to an AppError for
// presentation. service names the upstream in the error details.
func ToAppError(service string, err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}

	if errors.Is(err, ErrDispatcherClosed) {
		return apperrors.ServiceUnavailable(service).WithCause(err)
	}

	var e *Error
	if !errors.As(err, &e) {
		switch {
		case errors.Is(err, context.DeadlineExceeded):
			return apperrors.Timeout(service).WithCause(err)
		case errors.Is(err, context.Canceled):
			return apperrors.Canceled(service).WithCause(err)
		}
		return apperrors.Internal(err)
	}

	var appErr *apperrors.AppError
	switch e.Code {
	case ErrCodeTimeout:
		appErr = apperrors.Timeout(service)
	case ErrCodeConnection:
		appErr = apperrors.ConnectionFailed(service)
	case ErrCodeCanceled:
		appErr = apperrors.Canceled(service)
	case ErrCodeAuth:
		appErr = apperrors.Unauthorized("")
	case ErrCodeNotFound:
		appErr = apperrors.NotFound(service, "")
	case ErrCodeRateLimit:
		appErr = apperrors.RateLimited()
	case ErrCodeValidation:
		appErr = apperrors.Validation(e.Message)
	default:
		appErr = apperrors.ExternalServiceError(service, nil)
	}
	if e.StatusCode > 0 {
		appErr.WithDetail("status_code", e.StatusCode)
	}
	return appErr.WithCause(err)
}
