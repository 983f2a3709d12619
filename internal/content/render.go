package content

import (
	"bytes"
	"html/template"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"golang.org/x/net/html"
)

// WordsPerMinute is the reading speed used for reading time estimates.
const WordsPerMinute = 200

var (
	markdown = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	)
	bodyPolicy = newBodyPolicy()
)

func newBodyPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("id").OnElements("h1", "h2", "h3", "h4", "h5", "h6")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// RenderMarkdown converts an article body to sanitized HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", err
	}
	return template.HTML(bodyPolicy.SanitizeBytes(buf.Bytes())), nil
}

// ReadingTime estimates how long the text content of an HTML fragment takes
// to read. Words inside script and style elements are not counted.
func ReadingTime(fragment string) time.Duration {
	words := CountWords(fragment)
	return time.Duration(words) * time.Minute / WordsPerMinute
}

// CountWords counts whitespace separated words in the text nodes of fragment.
func CountWords(fragment string) int {
	z := html.NewTokenizer(strings.NewReader(fragment))
	words := 0
	skip := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return words
		case html.StartTagToken:
			if name, _ := z.TagName(); isRawText(name) {
				skip++
			}
		case html.EndTagToken:
			if name, _ := z.TagName(); isRawText(name) && skip > 0 {
				skip--
			}
		case html.TextToken:
			if skip == 0 {
				words += len(strings.Fields(string(z.Text())))
			}
		}
	}
}

func isRawText(name []byte) bool {
	switch string(name) {
	case "script", "style":
		return true
	}
	return false
}
