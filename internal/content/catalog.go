// Package content holds the canonical course and article tables. The catalog
// is loaded once at startup and never mutated; listing pages, detail pages,
// enrollment, and search all read from the same Catalog value.
package content

import (
	_ "embed"
	"fmt"
	"html/template"
	"os"
	"time"

	"github.com/bytehatacademy/academy/internal/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// DateLayout is the layout used for article dates in the catalog file.
const DateLayout = "January 2, 2006"

// CourseStatus is the enrollment state of a course.
type CourseStatus string

const (
	StatusOpen       CourseStatus = "open"
	StatusComingSoon CourseStatus = "coming_soon"
)

// Label returns the call-to-action text for the status.
func (s CourseStatus) Label() string {
	if s == StatusComingSoon {
		return "Coming Soon"
	}
	return "Enroll Now"
}

// Course is a catalog course offering.
type Course struct {
	Slug        string       `yaml:"slug"`
	Title       string       `yaml:"title"`
	Description string       `yaml:"description"`
	Duration    string       `yaml:"duration"`
	Level       string       `yaml:"level"`
	Status      CourseStatus `yaml:"status"`
	Image       string       `yaml:"image"`
}

// Path is the course detail location.
func (c *Course) Path() string {
	return "/courses/" + c.Slug
}

// SyllabusPath is where the downloadable syllabus is served.
func (c *Course) SyllabusPath() string {
	return "/syllabi/" + c.Slug + ".pdf"
}

// Enrollable reports whether the enrollment form is offered.
func (c *Course) Enrollable() bool {
	return c.Status == StatusOpen
}

// Article is a blog post. Fields tagged yaml:"-" are derived at load.
type Article struct {
	Slug     string   `yaml:"slug"`
	Title    string   `yaml:"title"`
	Excerpt  string   `yaml:"excerpt"`
	Author   string   `yaml:"author"`
	Date     string   `yaml:"date"`
	Category string   `yaml:"category"`
	Image    string   `yaml:"image"`
	Related  []string `yaml:"related"`
	Body     string   `yaml:"body"`

	Published   time.Time     `yaml:"-"`
	HTML        template.HTML `yaml:"-"`
	ReadingTime time.Duration `yaml:"-"`
}

// Path is the article detail location.
func (a *Article) Path() string {
	return "/blog/" + a.Slug
}

var titleCaser = cases.Title(language.English, cases.NoLower)

// CategoryLabel is the display form of the category.
func (a *Article) CategoryLabel() string {
	return titleCaser.String(a.Category)
}

// ReadingMinutes rounds the reading time up to whole minutes, minimum one.
func (a *Article) ReadingMinutes() int {
	m := int((a.ReadingTime + time.Minute - 1) / time.Minute)
	if m < 1 {
		return 1
	}
	return m
}

type catalogFile struct {
	Courses  []Course  `yaml:"courses"`
	Articles []Article `yaml:"articles"`
}

// Catalog is the immutable in-memory table of courses and articles.
type Catalog struct {
	courses      []Course
	articles     []Article
	courseIndex  map[string]int
	articleIndex map[string]int
}

// Default loads the catalog compiled into the binary.
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog from path, or the embedded catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewContentError(errors.ErrCodeCatalogInvalid, "cannot read catalog "+path, err)
	}
	return Parse(data)
}

// Parse decodes, renders, and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, errors.NewContentError(errors.ErrCodeCatalogInvalid, "cannot decode catalog", err)
	}

	c := &Catalog{
		courses:      file.Courses,
		articles:     file.Articles,
		courseIndex:  make(map[string]int, len(file.Courses)),
		articleIndex: make(map[string]int, len(file.Articles)),
	}

	for i := range c.articles {
		a := &c.articles[i]
		published, err := time.Parse(DateLayout, a.Date)
		if err != nil {
			return nil, errors.NewContentError(errors.ErrCodeCatalogInvalid,
				fmt.Sprintf("article %q has an unparseable date %q", a.Slug, a.Date), err)
		}
		a.Published = published

		rendered, err := RenderMarkdown(a.Body)
		if err != nil {
			return nil, errors.NewContentError(errors.ErrCodeCatalogInvalid,
				fmt.Sprintf("article %q body failed to render", a.Slug), err)
		}
		a.HTML = rendered
		a.ReadingTime = ReadingTime(string(rendered))
	}

	if err := c.validate(); err != nil {
		return nil, err
	}

	return c, nil
}

func (c *Catalog) validate() error {
	vec := &errors.ValidationErrorCollection{}

	for i, course := range c.courses {
		if course.Slug == "" || course.Title == "" {
			vec.AddField("courses", i, fmt.Sprintf("course %d needs a slug and a title", i))
			continue
		}
		if _, dup := c.courseIndex[course.Slug]; dup {
			vec.AddField("courses", course.Slug, "duplicate course slug "+course.Slug)
			continue
		}
		switch course.Status {
		case StatusOpen, StatusComingSoon:
		default:
			vec.AddField("courses", course.Slug, fmt.Sprintf("course %s has unknown status %q", course.Slug, course.Status))
		}
		c.courseIndex[course.Slug] = i
	}

	for i, article := range c.articles {
		if article.Slug == "" || article.Title == "" {
			vec.AddField("articles", i, fmt.Sprintf("article %d needs a slug and a title", i))
			continue
		}
		if _, dup := c.articleIndex[article.Slug]; dup {
			vec.AddField("articles", article.Slug, "duplicate article slug "+article.Slug)
			continue
		}
		c.articleIndex[article.Slug] = i
	}

	for _, article := range c.articles {
		for _, rel := range article.Related {
			if _, ok := c.articleIndex[rel]; !ok {
				vec.AddField("articles", article.Slug,
					fmt.Sprintf("article %s lists unknown related article %s", article.Slug, rel))
			}
		}
	}

	if vec.HasErrors() {
		ae := vec.ToAcademyError()
		ae.Type = errors.ErrorTypeContent
		ae.Code = errors.ErrCodeCatalogInvalid
		return ae
	}
	return nil
}

// Courses returns the courses in catalog order. The slice is a copy.
func (c *Catalog) Courses() []Course {
	out := make([]Course, len(c.courses))
	copy(out, c.courses)
	return out
}

// Articles returns the articles in catalog order. The slice is a copy.
func (c *Catalog) Articles() []Article {
	out := make([]Article, len(c.articles))
	copy(out, c.articles)
	return out
}

// Course looks up a course by slug.
func (c *Catalog) Course(slug string) (Course, bool) {
	i, ok := c.courseIndex[slug]
	if !ok {
		return Course{}, false
	}
	return c.courses[i], true
}

// Article looks up an article by slug.
func (c *Catalog) Article(slug string) (Article, bool) {
	i, ok := c.articleIndex[slug]
	if !ok {
		return Article{}, false
	}
	return c.articles[i], true
}

// RelatedTo returns the related articles of slug in listed order.
func (c *Catalog) RelatedTo(slug string) []Article {
	a, ok := c.Article(slug)
	if !ok {
		return nil
	}
	out := make([]Article, 0, len(a.Related))
	for _, rel := range a.Related {
		if r, ok := c.Article(rel); ok {
			out = append(out, r)
		}
	}
	return out
}

// Latest returns up to n articles, newest first.
func (c *Catalog) Latest(n int) []Article {
	out := c.Articles()
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Published.After(out[j-1].Published); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	if n >= 0 && n < len(out) {
		out = out[:n]
	}
	return out
}
