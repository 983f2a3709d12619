// Package validation provides input validation and sanitization for visitor
// submitted form data and operator supplied configuration.
package validation

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripMarkup removes every HTML element from s and unescapes the entities
// the policy produced, leaving plain text suitable for an email body.
func StripMarkup(s string) string {
	return html.UnescapeString(strictPolicy.Sanitize(s))
}

// CleanField trims s, strips markup, and collapses control characters other
// than newlines and tabs.
func CleanField(s string) string {
	s = StripMarkup(strings.TrimSpace(s))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
}
