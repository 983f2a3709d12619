package validation

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/bytehatacademy/academy/internal/errors"
)

// Form limits. Minimums match the contact form copy shown to visitors.
const (
	MinNameLength    = 2
	MaxNameLength    = 100
	MinMessageLength = 10
	MaxMessageLength = 5000
	MaxEmailLength   = 254
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail checks an address against the site's accepted email shape.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" || len(email) > MaxEmailLength {
		return false
	}
	return emailPattern.MatchString(email)
}

// ValidateName checks a visitor name after trimming.
func ValidateName(name string) *errors.FieldValidationError {
	trimmed := strings.TrimSpace(name)
	n := utf8.RuneCountInString(trimmed)
	if n < MinNameLength {
		return errors.NewFieldValidationError("name", name, "Please enter your name (minimum 2 characters)")
	}
	if n > MaxNameLength {
		return errors.NewFieldValidationError("name", name, "Please shorten your name (maximum 100 characters)")
	}
	return nil
}

// ValidateEmail checks a visitor email address.
func ValidateEmail(email string) *errors.FieldValidationError {
	if !IsValidEmail(email) {
		return errors.NewFieldValidationError("email", email, "Please enter a valid email address")
	}
	return nil
}

// ValidateMessage checks a message body after trimming.
func ValidateMessage(message string) *errors.FieldValidationError {
	trimmed := strings.TrimSpace(message)
	n := utf8.RuneCountInString(trimmed)
	if n < MinMessageLength {
		return errors.NewFieldValidationError("message", message, "Please enter a detailed message (minimum 10 characters)")
	}
	if n > MaxMessageLength {
		return errors.NewFieldValidationError("message", message, "Please shorten your message (maximum 5000 characters)")
	}
	return nil
}
