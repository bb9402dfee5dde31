package source

import (
	"strings"
	"testing"

	"github.com/lysyi3m/headline-comb/app/news"
)

func TestFiltererNoFilters(t *testing.T) {
	filtered, reason := NewFilterer(nil).Run(news.Article{Title: "Anything"})
	if filtered || reason != "" {
		t.Errorf("Expected article to pass without filters, got %v (%s)", filtered, reason)
	}
}

func TestFiltererNilIsNoop(t *testing.T) {
	var f *Filterer
	if filtered, _ := f.Run(news.Article{Title: "Anything"}); filtered {
		t.Error("Expected nil filterer to pass everything")
	}
}

func TestFiltererIncludes(t *testing.T) {
	f := NewFilterer([]Filter{{Field: "title", Includes: []string{"news", "update"}}})

	tests := []struct {
		title    string
		filtered bool
	}{
		{"Breaking News: Important Update", false},
		{"Sports Update", false},
		{"Weather Report", true},
	}

	for _, tt := range tests {
		filtered, reason := f.Run(news.Article{Title: tt.title})
		if filtered != tt.filtered {
			t.Errorf("Title '%s': expected filtered=%v, got %v (%s)", tt.title, tt.filtered, filtered, reason)
		}
	}
}

func TestFiltererExcludesWin(t *testing.T) {
	f := NewFilterer([]Filter{
		{Field: "title", Includes: []string{"markets"}},
		{Field: "source", Excludes: []string{"Tabloid"}},
	})

	filtered, reason := f.Run(news.Article{Title: "Markets rally", Source: "Daily Tabloid"})
	if !filtered {
		t.Fatal("Expected article to be excluded by source filter")
	}
	if !strings.Contains(reason, "source filter") {
		t.Errorf("Expected reason to mention source filter, got: %s", reason)
	}

	if filtered, _ := f.Run(news.Article{Title: "Markets rally", Source: "Reuters"}); filtered {
		t.Error("Expected Reuters article to pass")
	}
}

func TestFiltererCaseInsensitive(t *testing.T) {
	f := NewFilterer([]Filter{{Field: "description", Excludes: []string{"SPONSORED"}}})
	if filtered, _ := f.Run(news.Article{Description: "This is sponsored content"}); !filtered {
		t.Error("Expected case-insensitive exclude match")
	}
}
