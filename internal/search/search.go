// Package search implements the content search filter: a pure,
// case-insensitive substring match over the catalog's courses and articles.
package search

import (
	"strings"

	"github.com/bytehatacademy/academy/internal/content"
)

// Kind tags the variant of a SearchableItem.
type Kind string

const (
	KindCourse  Kind = "course"
	KindArticle Kind = "article"
)

// SearchableItem is implemented only by CourseItem and ArticleItem.
type SearchableItem interface {
	Kind() Kind
	Location() string
	sealed()
}

// CourseItem is a course as search sees it.
type CourseItem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Target      string `json:"target"`
}

func (CourseItem) Kind() Kind         { return KindCourse }
func (c CourseItem) Location() string { return c.Target }
func (CourseItem) sealed()            {}

// ArticleItem is an article as search sees it.
type ArticleItem struct {
	Title         string `json:"title"`
	Excerpt       string `json:"excerpt"`
	Author        string `json:"author"`
	PublishedDate string `json:"published_date"`
	Target        string `json:"target"`
}

func (ArticleItem) Kind() Kind         { return KindArticle }
func (a ArticleItem) Location() string { return a.Target }
func (ArticleItem) sealed()            {}

// Result is the outcome of a filter run. Active is false when the query was
// blank, which callers render differently from an active query with no
// matches.
type Result struct {
	Query    string        `json:"query"`
	Active   bool          `json:"active"`
	Courses  []CourseItem  `json:"courses"`
	Articles []ArticleItem `json:"articles"`
}

// Empty reports an active search that matched nothing.
func (r Result) Empty() bool {
	return r.Active && len(r.Courses) == 0 && len(r.Articles) == 0
}

// Total is the number of matched items.
func (r Result) Total() int {
	return len(r.Courses) + len(r.Articles)
}

// Items returns every match, courses first.
func (r Result) Items() []SearchableItem {
	out := make([]SearchableItem, 0, r.Total())
	for _, c := range r.Courses {
		out = append(out, c)
	}
	for _, a := range r.Articles {
		out = append(out, a)
	}
	return out
}

// Filter returns the courses whose title, and the articles whose title or
// excerpt, contain query case-insensitively. Input order is preserved.
func Filter(query string, courses []CourseItem, articles []ArticleItem) Result {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return Result{Courses: []CourseItem{}, Articles: []ArticleItem{}}
	}

	res := Result{
		Query:    strings.TrimSpace(query),
		Active:   true,
		Courses:  []CourseItem{},
		Articles: []ArticleItem{},
	}

	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Title), q) {
			res.Courses = append(res.Courses, c)
		}
	}
	for _, a := range articles {
		if strings.Contains(strings.ToLower(a.Title), q) ||
			strings.Contains(strings.ToLower(a.Excerpt), q) {
			res.Articles = append(res.Articles, a)
		}
	}

	return res
}

// Index holds the searchable projection of a catalog.
type Index struct {
	courses  []CourseItem
	articles []ArticleItem
}

// NewIndex projects the catalog into searchable items.
func NewIndex(catalog *content.Catalog) *Index {
	idx := &Index{}
	for _, c := range catalog.Courses() {
		idx.courses = append(idx.courses, CourseItem{
			Title:       c.Title,
			Description: c.Description,
			Target:      c.Path(),
		})
	}
	for _, a := range catalog.Articles() {
		idx.articles = append(idx.articles, ArticleItem{
			Title:         a.Title,
			Excerpt:       a.Excerpt,
			Author:        a.Author,
			PublishedDate: a.Date,
			Target:        a.Path(),
		})
	}
	return idx
}

// Search runs Filter over the index.
func (idx *Index) Search(query string) Result {
	return Filter(query, idx.courses, idx.articles)
}
