package query

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/lysyi3m/headline-comb/app/database"
	"github.com/lysyi3m/headline-comb/app/metrics"
	"github.com/lysyi3m/headline-comb/app/news"
)

const (
	DefaultLimit = 20
	MaxLimit     = 50
)

type Params struct {
	Source string
	Limit  int
}

// Page is one query response.
type Page struct {
	Articles    []news.Article `json:"articles"`
	Count       int            `json:"count"`
	LastUpdated string         `json:"lastUpdated"`
}

type Service struct {
	store   database.ArticleStore
	metrics *metrics.Metrics
	now     func() time.Time
}

func NewService(store database.ArticleStore, m *metrics.Metrics, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{store: store, metrics: m, now: now}
}

// ParseLimit maps the raw limit parameter onto [1, MaxLimit]. Missing,
// non-numeric and non-positive values fall back to DefaultLimit.
func ParseLimit(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return DefaultLimit
	}
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Query returns the newest articles, optionally restricted to one source.
func (s *Service) Query(ctx context.Context, params Params) (Page, error) {
	started := time.Now()

	limit := params.Limit
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	articles, err := s.store.Scan(ctx, params.Source)
	if err != nil {
		s.metrics.ObserveQuery(metrics.StatusError, time.Since(started))
		return Page{}, &news.QueryError{Op: "scan articles", Err: err}
	}

	if articles == nil {
		articles = []news.Article{}
	}
	SortNewestFirst(articles)

	count := len(articles)
	if len(articles) > limit {
		articles = articles[:limit]
	}

	s.metrics.ObserveQuery(metrics.StatusSuccess, time.Since(started))

	return Page{
		Articles:    articles,
		Count:       count,
		LastUpdated: news.FormatTimestamp(s.now()),
	}, nil
}

// Count reports the total number of stored articles.
func (s *Service) Count(ctx context.Context) (int, error) {
	n, err := s.store.Count(ctx)
	if err != nil {
		return 0, &news.QueryError{Op: "count articles", Err: err}
	}
	return n, nil
}

// SortNewestFirst orders by publishedAt descending, then id ascending.
// Unparseable timestamps compare as the zero time.
func SortNewestFirst(articles []news.Article) {
	published := make(map[string]time.Time, len(articles))
	for _, a := range articles {
		published[a.ID] = a.PublishedTime()
	}

	sort.SliceStable(articles, func(i, j int) bool {
		ti, tj := published[articles[i].ID], published[articles[j].ID]
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return articles[i].ID < articles[j].ID
	})
}
