package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	apperrors "github.com/kbukum/callbridge/errors"
)

func TestToAppError(t *testing.T) {
	preset := apperrors.RateLimited()

	tests := []struct {
		name       string
		err        error
		wantCode   apperrors.ErrorCode
		wantStatus int
	}{
		{"timeout", NewTimeoutError(context.DeadlineExceeded), apperrors.ErrCodeTimeout, 0},
		{"connection", NewConnectionError(errors.New("refused")), apperrors.ErrCodeConnectionFailed, 0},
		{"canceled", NewCanceledError(context.Canceled), apperrors.ErrCodeCanceled, 0},
		{"unauthorized", ClassifyStatusCode(401, nil), apperrors.ErrCodeUnauthorized, 401},
		{"not found", ClassifyStatusCode(404, nil), apperrors.ErrCodeNotFound, 404},
		{"rate limited", ClassifyStatusCode(429, nil), apperrors.ErrCodeRateLimited, 429},
		{"bad request", ClassifyStatusCode(422, nil), apperrors.ErrCodeInvalidInput, 422},
		{"server", ClassifyStatusCode(502, nil), apperrors.ErrCodeExternalService, 502},
		{"dispatcher closed", ErrDispatcherClosed, apperrors.ErrCodeServiceUnavailable, 0},
		{"caller deadline", context.DeadlineExceeded, apperrors.ErrCodeTimeout, 0},
		{"caller canceled", fmt.Errorf("wait: %w", context.Canceled), apperrors.ErrCodeCanceled, 0},
		{"plain", errors.New("boom"), apperrors.ErrCodeInternal, 0},
		{"wrapped app error", fmt.Errorf("x: %w", preset), apperrors.ErrCodeRateLimited, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToAppError("upstream", tt.err)
			if got == nil {
				t.Fatal("expected an AppError")
			}
			if got.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", got.Code, tt.wantCode)
			}
			status, ok := got.Details["status_code"]
			if tt.wantStatus == 0 && ok {
				t.Errorf("unexpected status_code detail %v", status)
			}
			if tt.wantStatus != 0 && status != tt.wantStatus {
				t.Errorf("status_code = %v, want %d", status, tt.wantStatus)
			}
			if !errors.Is(got, tt.err) && got != preset {
				t.Errorf("AppError should keep the original as cause")
			}
		})
	}

	if ToAppError("upstream", nil) != nil {
		t.Error("nil error maps to nil")
	}
}
