package news

import (
	"cmp"
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// SkipReason explains why a raw article never reached the store.
type SkipReason string

const (
	SkipNone               SkipReason = ""
	SkipMissingTitle       SkipReason = "missing_title"
	SkipMissingPublishedAt SkipReason = "missing_published_at"
	SkipBadPublishedAt     SkipReason = "unparseable_published_at"
	SkipFiltered           SkipReason = "filtered"
)

type Normalizer struct {
	key KeyFunc
	now func() time.Time
}

func NewNormalizer(key KeyFunc, now func() time.Time) *Normalizer {
	if key == nil {
		key = Base64PrefixKey
	}
	if now == nil {
		now = time.Now
	}
	return &Normalizer{key: key, now: now}
}

// Run validates raw and converts it into a storable Article. A non-empty
// SkipReason means the article must be discarded.
func (n *Normalizer) Run(raw RawArticle) (Article, SkipReason) {
	if strings.TrimSpace(raw.Title) == "" {
		return Article{}, SkipMissingTitle
	}
	if strings.TrimSpace(raw.PublishedAt) == "" {
		return Article{}, SkipMissingPublishedAt
	}

	publishedAt, err := NormalizeTimestamp(raw.PublishedAt)
	if err != nil {
		return Article{}, SkipBadPublishedAt
	}

	return Article{
		ID:          n.key(raw.Title),
		PublishedAt: publishedAt,
		Title:       raw.Title,
		Description: raw.Description,
		URL:         raw.URL,
		URLToImage:  raw.URLToImage,
		Source:      cmp.Or(raw.SourceName, DefaultSource),
		Author:      cmp.Or(raw.Author, DefaultAuthor),
		Content:     raw.Content,
		CreatedAt:   FormatTimestamp(n.now()),
	}, SkipNone
}

// ParseTimestamp accepts RFC 3339 and the other layouts dateparse knows.
// Values without a zone are read as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	t, err := dateparse.ParseIn(value, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse timestamp %q: %w", value, err)
	}
	return t, nil
}

func NormalizeTimestamp(value string) (string, error) {
	t, err := ParseTimestamp(value)
	if err != nil {
		return "", err
	}
	return FormatTimestamp(t), nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}
