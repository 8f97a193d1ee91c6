package httpclient

import (
	"errors"
	"testing"

	apperrors "github.com/kbukum/transcribe-mcp/errors"
)

func TestErrorCode_String(t *testing.T) {
	if ErrCodeNotFound.String() != "not_found" || ErrorCode(99).String() != "unknown" {
		t.Errorf("unexpected names %q %q", ErrCodeNotFound, ErrorCode(99))
	}
}

func TestError_Error(t *testing.T) {
	e := &Error{StatusCode: 404, Code: ErrCodeNotFound, Message: "HTTP 404"}
	if got, want := e.Error(), "httpclient: not_found (HTTP 404): HTTP 404"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
	e2 := &Error{Code: ErrCodeConnection, Message: "connection refused"}
	if got, want := e2.Error(), "httpclient: connection: connection refused"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		code    int
		wantNil bool
		errCode ErrorCode
	}{
		{200, true, 0},
		{204, true, 0},
		{400, false, ErrCodeValidation},
		{401, false, ErrCodeAuth},
		{403, false, ErrCodeAuth},
		{404, false, ErrCodeNotFound},
		{422, false, ErrCodeValidation},
		{429, false, ErrCodeRateLimit},
		{500, false, ErrCodeServer},
		{302, false, ErrCodeServer},
	}
	for _, tt := range tests {
		err := ClassifyStatusCode(tt.code, nil)
		if tt.wantNil {
			if err != nil {
				t.Errorf("ClassifyStatusCode(%d) = %v, want nil", tt.code, err)
			}
			continue
		}
		if err == nil || err.Code != tt.errCode || err.StatusCode != tt.code {
			t.Errorf("ClassifyStatusCode(%d) = %+v, want code %s", tt.code, err, tt.errCode)
		}
	}
}

func TestToAppError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want apperrors.ErrorCode
	}{
		{"timeout", NewTimeoutError(errors.New("deadline")), apperrors.ErrCodeTimeout},
		{"connection", NewConnectionError(errors.New("refused")), apperrors.ErrCodeConnectionFailed},
		{"status", ClassifyStatusCode(401, []byte("bad key")), apperrors.ErrCodeExternalService},
		{"app error passthrough", apperrors.Mapping("id"), apperrors.ErrCodeMapping},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ToAppError("assemblyai", tc.err)
			if got == nil || got.Code != tc.want {
				t.Errorf("expected %s, got %v", tc.want, got)
			}
		})
	}
	if ToAppError("x", nil) != nil {
		t.Error("nil error should map to nil")
	}
}
