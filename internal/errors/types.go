package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors.
type ErrorType string

const (
	ErrorTypeValidation ErrorType = "validation"
	ErrorTypeSecurity   ErrorType = "security"
	ErrorTypeTransport  ErrorType = "transport"
	ErrorTypeRateLimit  ErrorType = "rate_limit"
	ErrorTypeConfig     ErrorType = "config"
	ErrorTypeContent    ErrorType = "content"
	ErrorTypeInternal   ErrorType = "internal"
)

// AcademyError is a structured error type with context.
type AcademyError struct {
	Type        ErrorType
	Code        string
	Message     string
	Cause       error
	Context     map[string]interface{}
	Component   string
	Recoverable bool
}

// Error implements the error interface.
func (e *AcademyError) Error() string {
	var parts []string

	if e.Code != "" {
		parts = append(parts, fmt.Sprintf("[%s]", e.Code))
	}

	if e.Component != "" {
		parts = append(parts, "component:"+e.Component)
	}

	parts = append(parts, e.Message)

	result := strings.Join(parts, " ")

	if e.Cause != nil {
		result += fmt.Sprintf(": %v", e.Cause)
	}

	return result
}

// Unwrap returns the underlying cause error.
func (e *AcademyError) Unwrap() error {
	return e.Cause
}

// Is implements error comparison.
func (e *AcademyError) Is(target error) bool {
	var t *AcademyError
	if errors.As(target, &t) {
		return e.Type == t.Type && e.Code == t.Code
	}

	return false
}

// WithContext adds context information to the error.
func (e *AcademyError) WithContext(key string, value interface{}) *AcademyError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value

	return e
}

// WithComponent adds component context.
func (e *AcademyError) WithComponent(component string) *AcademyError {
	e.Component = component

	return e
}

// Error creation functions

// NewValidationError creates a validation error.
func NewValidationError(code, message string) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeValidation,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewSecurityError creates a security error.
func NewSecurityError(code, message string) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeSecurity,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewTransportError creates an error for a failed call to an outside service.
func NewTransportError(code, message string, cause error) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeTransport,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: true,
	}
}

// NewRateLimitError creates a rate limit rejection.
func NewRateLimitError(code, message string) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeRateLimit,
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// NewConfigError creates a configuration error.
func NewConfigError(code, message string) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeConfig,
		Code:        code,
		Message:     message,
		Recoverable: false,
	}
}

// NewContentError creates a catalog error.
func NewContentError(code, message string, cause error) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeContent,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// NewInternalError creates an internal error.
func NewInternalError(code, message string, cause error) *AcademyError {
	return &AcademyError{
		Type:        ErrorTypeInternal,
		Code:        code,
		Message:     message,
		Cause:       cause,
		Recoverable: false,
	}
}

// Error recovery and handling utilities

// IsRecoverable checks if an error is recoverable.
func IsRecoverable(err error) bool {
	var ae *AcademyError
	if errors.As(err, &ae) {
		return ae.Recoverable
	}

	return false
}

// IsType reports whether err is an AcademyError of the given type.
func IsType(err error, t ErrorType) bool {
	var ae *AcademyError
	if errors.As(err, &ae) {
		return ae.Type == t
	}

	return false
}

// IsSecurityError checks if an error is security-related.
func IsSecurityError(err error) bool {
	return IsType(err, ErrorTypeSecurity)
}

// ErrorHandler provides centralized error handling.
type ErrorHandler struct {
	logger Logger
}

// Logger interface for error logging.
type Logger interface {
	Error(ctx context.Context, err error, msg string, fields ...interface{})
	Warn(ctx context.Context, err error, msg string, fields ...interface{})
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// Handle logs an error at a level matching its type.
func (h *ErrorHandler) Handle(ctx context.Context, err error) {
	if err == nil || h.logger == nil {
		return
	}

	var ae *AcademyError
	if !errors.As(err, &ae) {
		h.logger.Error(ctx, err, "Unhandled error occurred")
		return
	}

	switch ae.Type {
	case ErrorTypeValidation, ErrorTypeRateLimit:
		h.logger.Warn(ctx, err, "Request rejected",
			"type", ae.Type,
			"code", ae.Code,
			"component", ae.Component)
	case ErrorTypeSecurity:
		h.logger.Warn(ctx, err, "Security check failed",
			"type", ae.Type,
			"code", ae.Code,
			"component", ae.Component)
	default:
		if IsRecoverable(err) {
			h.logger.Warn(ctx, err, "Recoverable error occurred",
				"type", ae.Type,
				"code", ae.Code,
				"component", ae.Component)
			return
		}
		h.logger.Error(ctx, err, "Error occurred",
			"type", ae.Type,
			"code", ae.Code,
			"component", ae.Component)
	}
}

// Common error codes.
const (
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
	ErrCodeCSRFMismatch     = "ERR_CSRF"
	ErrCodeInvalidOrigin    = "ERR_INVALID_ORIGIN"
	ErrCodeSubmitInFlight   = "ERR_SUBMIT_IN_FLIGHT"
	ErrCodeRateLimited      = "ERR_RATE_LIMITED"
	ErrCodeSendFailed       = "ERR_SEND_FAILED"
	ErrCodeConfigInvalid    = "ERR_CONFIG_INVALID"
	ErrCodeCatalogInvalid   = "ERR_CATALOG_INVALID"
	ErrCodeNotFound         = "ERR_NOT_FOUND"
	ErrCodeInternalError    = "ERR_INTERNAL"
)

// ValidationError interface for field-specific validation errors.
type ValidationError interface {
	error
	Field() string
	Value() interface{}
}

// FieldValidationError implements ValidationError for specific field errors.
type FieldValidationError struct {
	FieldName    string
	FieldValue   interface{}
	ErrorMessage string
}

// Error implements the error interface.
func (fve *FieldValidationError) Error() string {
	return fve.ErrorMessage
}

// Field returns the field name that failed validation.
func (fve *FieldValidationError) Field() string {
	return fve.FieldName
}

// Value returns the invalid value.
func (fve *FieldValidationError) Value() interface{} {
	return fve.FieldValue
}

// ToAcademyError converts the field validation error to an AcademyError.
func (fve *FieldValidationError) ToAcademyError() *AcademyError {
	return NewValidationError(
		"ERR_FIELD_"+strings.ToUpper(fve.FieldName),
		fve.ErrorMessage,
	).WithContext("field", fve.FieldName)
}

// NewFieldValidationError creates a new field validation error.
func NewFieldValidationError(field string, value interface{}, message string) *FieldValidationError {
	return &FieldValidationError{
		FieldName:    field,
		FieldValue:   value,
		ErrorMessage: message,
	}
}

// ValidationErrorCollection represents a collection of validation errors.
type ValidationErrorCollection struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (vec *ValidationErrorCollection) Error() string {
	if len(vec.Errors) == 0 {
		return "no validation errors"
	}
	if len(vec.Errors) == 1 {
		return vec.Errors[0].Error()
	}

	return fmt.Sprintf("validation failed with %d errors", len(vec.Errors))
}

// Add adds a validation error to the collection.
func (vec *ValidationErrorCollection) Add(err ValidationError) {
	vec.Errors = append(vec.Errors, err)
}

// AddField adds a field validation error to the collection.
func (vec *ValidationErrorCollection) AddField(field string, value interface{}, message string) {
	vec.Add(NewFieldValidationError(field, value, message))
}

// HasErrors returns true if there are any validation errors.
func (vec *ValidationErrorCollection) HasErrors() bool {
	return len(vec.Errors) > 0
}

// First returns the first collected error, or nil.
func (vec *ValidationErrorCollection) First() ValidationError {
	if len(vec.Errors) == 0 {
		return nil
	}
	return vec.Errors[0]
}

// ToAcademyError converts the validation collection to an AcademyError.
func (vec *ValidationErrorCollection) ToAcademyError() *AcademyError {
	if !vec.HasErrors() {
		return nil
	}

	var messages []string
	context := make(map[string]interface{})

	for _, err := range vec.Errors {
		messages = append(messages, err.Error())
		context[err.Field()] = err.Error()
	}

	return &AcademyError{
		Type:        ErrorTypeValidation,
		Code:        ErrCodeValidationFailed,
		Message:     strings.Join(messages, "; "),
		Context:     context,
		Recoverable: true,
	}
}

// Helper functions for common errors

// ErrCSRF is returned for a missing or mismatched form token. The two cases
// are deliberately indistinguishable.
func ErrCSRF() *AcademyError {
	return NewSecurityError(ErrCodeCSRFMismatch, "form token rejected")
}

// ErrInvalidOrigin creates an invalid origin security error.
func ErrInvalidOrigin(origin string) *AcademyError {
	return NewSecurityError(ErrCodeInvalidOrigin, "invalid origin: "+origin)
}

// ErrNotFound creates a lookup miss.
func ErrNotFound(kind, slug string) *AcademyError {
	return NewValidationError(ErrCodeNotFound, kind+" not found: "+slug)
}

// ErrSendFailed wraps a failed email delivery.
func ErrSendFailed(cause error) *AcademyError {
	return NewTransportError(ErrCodeSendFailed, "email delivery failed", cause)
}
