//go:build property

package search

import (
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestFilterProperties checks substring correctness, order, and purity.
func TestFilterProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.Rng.Seed(1357)
	parameters.MinSuccessfulTests = 200

	properties := gopter.NewProperties(parameters)

	titles := gen.SliceOf(gen.AlphaString())

	build := func(ts []string) ([]CourseItem, []ArticleItem) {
		courses := make([]CourseItem, len(ts))
		articles := make([]ArticleItem, len(ts))
		for i, s := range ts {
			courses[i] = CourseItem{Title: s}
			articles[i] = ArticleItem{Title: s, Excerpt: strings.ToUpper(s) + " excerpt"}
		}
		return courses, articles
	}

	properties.Property("every match contains the query and every non-match does not", prop.ForAll(
		func(ts []string, query string) bool {
			courses, articles := build(ts)
			res := Filter(query, courses, articles)

			q := strings.ToLower(strings.TrimSpace(query))
			if q == "" {
				return !res.Active && res.Total() == 0
			}

			want := 0
			for _, c := range courses {
				if strings.Contains(strings.ToLower(c.Title), q) {
					if want >= len(res.Courses) || res.Courses[want] != c {
						return false
					}
					want++
				}
			}
			return want == len(res.Courses)
		},
		titles,
		gen.AlphaString(),
	))

	properties.Property("article excerpts match case-insensitively", prop.ForAll(
		func(ts []string) bool {
			_, articles := build(ts)
			res := Filter("EXCERPT", nil, articles)
			return len(res.Articles) == len(articles)
		},
		titles,
	))

	properties.Property("filter is idempotent", prop.ForAll(
		func(ts []string, query string) bool {
			courses, articles := build(ts)
			return reflect.DeepEqual(
				Filter(query, courses, articles),
				Filter(query, courses, articles),
			)
		},
		titles,
		gen.AlphaString(),
	))

	properties.Property("filter does not modify its inputs", prop.ForAll(
		func(ts []string, query string) bool {
			courses, articles := build(ts)
			before := append([]CourseItem(nil), courses...)
			Filter(query, courses, articles)
			return reflect.DeepEqual(before, courses)
		},
		titles,
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}
