package errors

import "errors"

// User-facing texts. Security and transport failures never expose detail.
const (
	MsgSecurityFailed = "Security validation failed. Please refresh the page and try again."
	MsgSendFailed     = "Failed to send message. Please try again later."
	MsgRateLimited    = "Please wait a moment before submitting again."
	MsgInFlight       = "Your previous submission is still being sent."
	MsgInternal       = "Something went wrong. Please try again later."
)

// UserMessage returns the text safe to show an end user for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var fve *FieldValidationError
	if errors.As(err, &fve) {
		return fve.ErrorMessage
	}

	var vec *ValidationErrorCollection
	if errors.As(err, &vec) {
		if first := vec.First(); first != nil {
			return first.Error()
		}
	}

	var ae *AcademyError
	if !errors.As(err, &ae) {
		return MsgInternal
	}

	switch ae.Type {
	case ErrorTypeValidation:
		if ae.Code == ErrCodeSubmitInFlight {
			return MsgInFlight
		}
		return ae.Message
	case ErrorTypeSecurity:
		return MsgSecurityFailed
	case ErrorTypeRateLimit:
		return MsgRateLimited
	case ErrorTypeTransport:
		return MsgSendFailed
	default:
		return MsgInternal
	}
}

// ErrInFlight rejects a duplicate submission while one is being sent.
func ErrInFlight() *AcademyError {
	return NewValidationError(ErrCodeSubmitInFlight, MsgInFlight)
}

// ErrRateLimited rejects a submission that arrives too soon after the last.
func ErrRateLimited() *AcademyError {
	return NewRateLimitError(ErrCodeRateLimited, MsgRateLimited)
}

// SeverityFor names the notification severity used to report err. Problems
// the visitor can fix are warnings; everything else is an error.
func SeverityFor(err error) string {
	if err == nil {
		return "success"
	}

	var ae *AcademyError
	if errors.As(err, &ae) {
		switch ae.Type {
		case ErrorTypeValidation, ErrorTypeSecurity, ErrorTypeRateLimit:
			return "warning"
		}
		return "error"
	}

	var ve ValidationError
	if errors.As(err, &ve) {
		return "warning"
	}
	return "error"
}
