package source

import (
	"fmt"
	"strings"

	"github.com/lysyi3m/headline-comb/app/news"
)

// Filter drops articles by case-insensitive substring match on one field.
type Filter struct {
	Field    string   `yaml:"field"`
	Includes []string `yaml:"includes"`
	Excludes []string `yaml:"excludes"`
}

var filterFields = map[string]bool{
	"title":       true,
	"description": true,
	"content":     true,
	"author":      true,
	"url":         true,
	"source":      true,
}

type Filterer struct {
	filters []Filter
}

func NewFilterer(filters []Filter) *Filterer {
	return &Filterer{filters: filters}
}

// Run reports whether article is excluded, with a human readable reason.
func (f *Filterer) Run(article news.Article) (bool, string) {
	if f == nil {
		return false, ""
	}

	for _, filter := range f.filters {
		value := fieldValue(article, filter.Field)

		for _, exclude := range filter.Excludes {
			if matches(value, exclude) {
				return true, fmt.Sprintf("excluded by %s filter: contains '%s'", filter.Field, exclude)
			}
		}

		if len(filter.Includes) > 0 {
			matched := false
			for _, include := range filter.Includes {
				if matches(value, include) {
					matched = true
					break
				}
			}
			if !matched {
				return true, fmt.Sprintf("excluded by %s filter: does not contain any of %v", filter.Field, filter.Includes)
			}
		}
	}

	return false, ""
}

func matches(value, pattern string) bool {
	return strings.Contains(strings.ToLower(value), strings.ToLower(pattern))
}

func fieldValue(article news.Article, field string) string {
	switch field {
	case "title":
		return article.Title
	case "description":
		return article.Description
	case "content":
		return article.Content
	case "author":
		return article.Author
	case "url":
		return article.URL
	case "source":
		return article.Source
	default:
		return ""
	}
}
