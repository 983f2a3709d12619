package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStripMarkup(t *testing.T) {
	assert.Equal(t, "Hello world", StripMarkup("<b>Hello</b> <i>world</i>"))
	assert.Equal(t, "R&D team", StripMarkup("R&D team"))
	assert.Equal(t, "no tags here", StripMarkup("no tags here"))
}

func TestCleanField(t *testing.T) {
	assert.Equal(t, "Hello", CleanField("  <em>Hello</em>  "))
	assert.Equal(t, "line one\nline two", CleanField("line one\r\nline two"))
	assert.Equal(t, "bell", CleanField("be\x07ll"))
}
