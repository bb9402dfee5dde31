package news

import (
	"time"
)

// TimestampLayout is the canonical ISO-8601 form stored for publishedAt and createdAt.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

const (
	DefaultSource = "Unknown"
	DefaultAuthor = "Unknown"
)

// RawArticle is an article as delivered by an upstream source, before validation.
type RawArticle struct {
	Title       string
	Description string
	PublishedAt string
	URL         string
	URLToImage  string
	SourceName  string
	Author      string
	Content     string
}

// Article is the persisted record.
type Article struct {
	ID          string `db:"id" json:"id"`
	PublishedAt string `db:"published_at" json:"publishedAt"`
	Title       string `db:"title" json:"title"`
	Description string `db:"description" json:"description"`
	URL         string `db:"url" json:"url"`
	URLToImage  string `db:"url_to_image" json:"urlToImage"`
	Source      string `db:"source" json:"source"`
	Author      string `db:"author" json:"author"`
	Content     string `db:"content" json:"content"`
	CreatedAt   string `db:"created_at" json:"createdAt"`
}

// PublishedTime returns the parsed publication time, or the zero time when
// the stored value cannot be parsed.
func (a Article) PublishedTime() time.Time {
	t, err := ParseTimestamp(a.PublishedAt)
	if err != nil {
		return time.Time{}
	}
	return t
}
