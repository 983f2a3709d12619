package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcademyError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AcademyError
		expected string
	}{
		{
			name:     "code and message",
			err:      NewValidationError("ERR_X", "bad input"),
			expected: "[ERR_X] bad input",
		},
		{
			name:     "with component",
			err:      NewValidationError("ERR_X", "bad input").WithComponent("contact"),
			expected: "[ERR_X] component:contact bad input",
		},
		{
			name:     "with cause",
			err:      ErrSendFailed(fmt.Errorf("dial tcp: refused")),
			expected: "[ERR_SEND_FAILED] email delivery failed: dial tcp: refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAcademyError_IsAndUnwrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := fmt.Errorf("submit: %w", ErrSendFailed(cause))

	assert.True(t, errors.Is(err, ErrSendFailed(nil)))
	assert.False(t, errors.Is(err, ErrCSRF()))
	assert.True(t, errors.Is(err, cause))
	assert.True(t, IsType(err, ErrorTypeTransport))
	assert.True(t, IsRecoverable(err))
	assert.False(t, IsSecurityError(err))
	assert.True(t, IsSecurityError(ErrCSRF()))
}

func TestUserMessage(t *testing.T) {
	vec := &ValidationErrorCollection{}
	vec.AddField("email", "nope", "Please enter a valid email address")
	vec.AddField("message", "", "too short")

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"nil", nil, ""},
		{"field", NewFieldValidationError("name", "J", "Please enter your name"), "Please enter your name"},
		{"collection reports first", vec, "Please enter a valid email address"},
		{"csrf is generic", ErrCSRF(), MsgSecurityFailed},
		{"transport hides cause", ErrSendFailed(fmt.Errorf("HTTP 500 provider secret")), MsgSendFailed},
		{"rate limit", ErrRateLimited(), MsgRateLimited},
		{"in flight", ErrInFlight(), MsgInFlight},
		{"plain error", fmt.Errorf("whatever"), MsgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, UserMessage(tt.err))
		})
	}
}

func TestValidationErrorCollection(t *testing.T) {
	vec := &ValidationErrorCollection{}
	assert.False(t, vec.HasErrors())
	assert.Nil(t, vec.ToAcademyError())
	assert.Nil(t, vec.First())
	assert.Equal(t, "no validation errors", vec.Error())

	vec.AddField("name", "", "name required")
	vec.AddField("email", "x", "email invalid")

	require.True(t, vec.HasErrors())
	assert.Equal(t, "validation failed with 2 errors", vec.Error())

	ae := vec.ToAcademyError()
	require.NotNil(t, ae)
	assert.Equal(t, ErrorTypeValidation, ae.Type)
	assert.Equal(t, "name required; email invalid", ae.Message)
	assert.Contains(t, ae.Context, "email")
}

type recordingLogger struct {
	warns  []string
	errors []string
}

func (r *recordingLogger) Error(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.errors = append(r.errors, msg)
}

func (r *recordingLogger) Warn(_ context.Context, _ error, msg string, _ ...interface{}) {
	r.warns = append(r.warns, msg)
}

func TestErrorHandler_Handle(t *testing.T) {
	logger := &recordingLogger{}
	h := NewErrorHandler(logger)
	ctx := context.Background()

	h.Handle(ctx, nil)
	h.Handle(ctx, ErrRateLimited())
	h.Handle(ctx, ErrCSRF())
	h.Handle(ctx, ErrSendFailed(nil))
	h.Handle(ctx, NewInternalError(ErrCodeInternalError, "boom", nil))
	h.Handle(ctx, fmt.Errorf("plain"))

	assert.Equal(t, []string{"Request rejected", "Security check failed", "Recoverable error occurred"}, logger.warns)
	assert.Equal(t, []string{"Error occurred", "Unhandled error occurred"}, logger.errors)
}

func TestSeverityFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, "success"},
		{"field", NewFieldValidationError("name", "", "too short"), "warning"},
		{"csrf", ErrCSRF(), "warning"},
		{"rate limit", ErrRateLimited(), "warning"},
		{"in flight", ErrInFlight(), "warning"},
		{"transport", ErrSendFailed(fmt.Errorf("boom")), "error"},
		{"internal", NewInternalError(ErrCodeInternalError, "x", nil), "error"},
		{"plain", fmt.Errorf("plain"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SeverityFor(tt.err))
		})
	}
}
