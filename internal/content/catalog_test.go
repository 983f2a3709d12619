package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/bytehatacademy/academy/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	courses := c.Courses()
	require.Len(t, courses, 6)
	assert.Equal(t, "ethical-hacking", courses[0].Slug)
	assert.Equal(t, "/courses/ethical-hacking", courses[0].Path())

	iot, ok := c.Course("iot-hacking")
	require.True(t, ok)
	assert.False(t, iot.Enrollable())
	assert.Equal(t, "Coming Soon", iot.Status.Label())

	articles := c.Articles()
	require.Len(t, articles, 4)
	for _, a := range articles {
		assert.NotEmpty(t, a.HTML, a.Slug)
		assert.False(t, a.Published.IsZero(), a.Slug)
		assert.GreaterOrEqual(t, a.ReadingMinutes(), 1, a.Slug)
	}
}

func TestCatalogAccessorsReturnCopies(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	courses := c.Courses()
	courses[0].Title = "changed"

	again, ok := c.Course(courses[0].Slug)
	require.True(t, ok)
	assert.NotEqual(t, "changed", again.Title)
}

func TestCatalogLookupMiss(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	_, ok := c.Course("nope")
	assert.False(t, ok)
	_, ok = c.Article("nope")
	assert.False(t, ok)
	assert.Nil(t, c.RelatedTo("nope"))
}

func TestRelatedTo(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	related := c.RelatedTo("top-5-cloud-security-tips-for-2025")
	require.Len(t, related, 3)
	assert.Equal(t, "why-learn-ethical-hacking-in-2025", related[0].Slug)
}

func TestLatest(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	latest := c.Latest(2)
	require.Len(t, latest, 2)
	assert.False(t, latest[0].Published.Before(latest[1].Published))

	assert.Len(t, c.Latest(-1), len(c.Articles()))
}

func TestCategoryLabel(t *testing.T) {
	a := Article{Category: "cloud security"}
	assert.Equal(t, "Cloud Security", a.CategoryLabel())

	a.Category = "AI security"
	assert.Equal(t, "AI Security", a.CategoryLabel())
}

func TestParseRejectsInvalidCatalogs(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantMsg string
	}{
		{
			name: "duplicate course slug",
			doc: `
courses:
  - {slug: a, title: A, status: open}
  - {slug: a, title: B, status: open}
`,
			wantMsg: "duplicate course slug a",
		},
		{
			name: "missing title",
			doc: `
courses:
  - {slug: a, status: open}
`,
			wantMsg: "needs a slug and a title",
		},
		{
			name: "unknown status",
			doc: `
courses:
  - {slug: a, title: A, status: archived}
`,
			wantMsg: "unknown status",
		},
		{
			name: "dangling related",
			doc: `
articles:
  - {slug: a, title: A, date: "March 15, 2025", related: [b]}
`,
			wantMsg: "unknown related article b",
		},
		{
			name: "bad date",
			doc: `
articles:
  - {slug: a, title: A, date: "2025-03-15"}
`,
			wantMsg: "unparseable date",
		},
		{
			name:    "not yaml",
			doc:     "courses: [",
			wantMsg: "cannot decode catalog",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.True(t, errors.IsType(err, errors.ErrorTypeContent))
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	doc := `
courses:
  - {slug: web, title: Web Security, status: open}
articles:
  - slug: intro
    title: Intro
    date: "January 2, 2025"
    body: "# Hello\n\nsome words here"
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Len(t, c.Courses(), 1)

	a, ok := c.Article("intro")
	require.True(t, ok)
	assert.Contains(t, string(a.HTML), `<h1 id="hello">Hello</h1>`)
	assert.Equal(t, time.Date(2025, time.January, 2, 0, 0, 0, 0, time.UTC), a.Published)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadEmptyPathUsesEmbedded(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Len(t, c.Courses(), 6)
}

func TestRenderMarkdownSanitizes(t *testing.T) {
	out, err := RenderMarkdown("hello <script>alert(1)</script>\n\n[x](javascript:alert(1))")
	require.NoError(t, err)
	assert.NotContains(t, string(out), "<script")
	assert.NotContains(t, string(out), "javascript:")
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		fragment string
		want     int
	}{
		{"", 0},
		{"<p>one two three</p>", 3},
		{"<p>one</p><script>var a = 1;</script><p>two</p>", 2},
		{"<ul><li>a b</li><li>c</li></ul>", 3},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CountWords(tt.fragment), tt.fragment)
	}
}

func TestReadingTime(t *testing.T) {
	body := "<p>" + strings.Repeat("word ", 400) + "</p>"
	assert.Equal(t, 2*time.Minute, ReadingTime(body))

	a := Article{ReadingTime: 30 * time.Second}
	assert.Equal(t, 1, a.ReadingMinutes())
	a.ReadingTime = 61 * time.Second
	assert.Equal(t, 2, a.ReadingMinutes())
}
