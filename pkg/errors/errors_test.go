package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "validation failed: name - required", NewValidationError("name", "required").Error())
	assert.Equal(t, "validation failed: bad input", NewValidationError("", "bad input").Error())
	assert.Equal(t, "user not found", ErrUserNotFound.Error())
	assert.Equal(t, "user not found: name=X", NewNotFoundError("user", "user not found: name=X").Error())
	assert.Equal(t, "failed to open test.txt: no such file", NewInternalError("failed to open test.txt", errors.New("no such file")).Error())
	assert.Equal(t, "boom", NewInternalError("boom", nil).Error())
}

func TestNotFoundError_Is(t *testing.T) {
	err := fmt.Errorf("lookup: %w", NewNotFoundError("user", "user not found: name=X"))

	assert.ErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, NewNotFoundError("key", ""))
}

func TestInternalError_Unwrap(t *testing.T) {
	cause := errors.New("disk gone")
	err := NewInternalError("failed to open", cause)

	assert.ErrorIs(t, err, cause)
}

func TestGRPCStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code codes.Code
		msg  string
	}{
		{name: "validation", err: NewValidationError("name", "required"), code: codes.InvalidArgument, msg: "validation failed: name - required"},
		{name: "not found", err: ErrUserNotFound, code: codes.NotFound, msg: "user not found"},
		{name: "internal hides cause", err: NewInternalError("failed to list users", errors.New("password=secret")), code: codes.Internal, msg: "failed to list users"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st, ok := status.FromError(tt.err)
			assert.True(t, ok)
			assert.Equal(t, tt.code, st.Code())
			assert.Equal(t, tt.msg, st.Message())
		})
	}
}

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
		msg  string
	}{
		{name: "validation", err: NewValidationError("query", "too long"), code: http.StatusBadRequest, kind: KindValidation, msg: "validation failed: query - too long"},
		{name: "wrapped not found", err: fmt.Errorf("x: %w", ErrUserNotFound), code: http.StatusNotFound, kind: KindNotFound, msg: "user not found"},
		{name: "internal", err: NewInternalError("failed", errors.New("db down")), code: http.StatusInternalServerError, kind: KindInternal, msg: "An internal error occurred"},
		{name: "foreign", err: errors.New("boom"), code: http.StatusInternalServerError, kind: KindInternal, msg: "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, kind, msg := Describe(tt.err)
			assert.Equal(t, tt.code, code)
			assert.Equal(t, tt.kind, kind)
			assert.Equal(t, tt.msg, msg)
		})
	}
}
