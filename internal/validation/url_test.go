package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		expectErr bool
	}{
		{name: "valid http URL", url: "http://localhost:8080", expectErr: false},
		{name: "valid https URL", url: "https://bytehatacademy.com", expectErr: false},
		{name: "provider endpoint", url: "https://api.emailjs.com/api/v1.0/email/send", expectErr: false},
		{name: "query params", url: "https://example.com/search?q=cloud&page=2", expectErr: false},

		{name: "javascript scheme", url: "javascript:alert('xss')", expectErr: true},
		{name: "file scheme", url: "file:///etc/passwd", expectErr: true},
		{name: "data scheme", url: "data:text/html,<script>alert(1)</script>", expectErr: true},
		{name: "no scheme", url: "example.com", expectErr: true},
		{name: "shell metacharacter", url: "http://example.com/;rm", expectErr: true},
		{name: "backtick", url: "http://example.com/`id`", expectErr: true},
		{name: "space", url: "http://example.com/a b", expectErr: true},
		{name: "newline", url: "http://example.com/\nHost: x", expectErr: true},
		{name: "missing host", url: "http:///path", expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if tt.expectErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
