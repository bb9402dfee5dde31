package source

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/mmcdole/gofeed"
)

// RSSClient turns an RSS/Atom/JSON feed into raw articles.
type RSSClient struct {
	name         string
	url          string
	userAgent    string
	sourceName   string
	timeout      time.Duration
	httpClient   *http.Client
	gofeedParser *gofeed.Parser
}

func NewRSSClient(cfg *Config, opts ClientOptions) *RSSClient {
	return &RSSClient{
		name:         cfg.Name,
		url:          cfg.URL,
		userAgent:    opts.UserAgent,
		sourceName:   cfg.SourceName,
		timeout:      cfg.Settings.TimeoutDuration(),
		httpClient:   opts.HTTPClient,
		gofeedParser: gofeed.NewParser(),
	}
}

func (c *RSSClient) Name() string {
	return c.name
}

func (c *RSSClient) Fetch(ctx context.Context) ([]news.RawArticle, error) {
	data, statusCode, err := fetch(ctx, c.httpClient, c.url, c.userAgent, c.timeout, nil)
	if err != nil {
		return nil, &news.SourceError{Source: c.name, Err: err}
	}
	if statusCode != http.StatusOK {
		return nil, &news.SourceError{Source: c.name, Err: fmt.Errorf("HTTP error: %d", statusCode)}
	}

	articles, err := c.Parse(data)
	if err != nil {
		return nil, &news.SourceError{Source: c.name, Err: err}
	}
	return articles, nil
}

func (c *RSSClient) Parse(data []byte) ([]news.RawArticle, error) {
	feed, err := c.gofeedParser.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	sourceName := cmp.Or(c.sourceName, strings.TrimSpace(feed.Title))

	articles := make([]news.RawArticle, 0, len(feed.Items))
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		articles = append(articles, c.normalizeItem(item, sourceName))
	}

	return articles, nil
}

func (c *RSSClient) normalizeItem(item *gofeed.Item, sourceName string) news.RawArticle {
	article := news.RawArticle{
		Title:       strings.TrimSpace(item.Title),
		Description: item.Description,
		URL:         item.Link,
		SourceName:  sourceName,
		Author:      extractAuthor(item),
		Content:     item.Content,
		URLToImage:  extractImage(item),
	}

	switch {
	case item.PublishedParsed != nil:
		article.PublishedAt = news.FormatTimestamp(*item.PublishedParsed)
	case item.UpdatedParsed != nil:
		article.PublishedAt = news.FormatTimestamp(*item.UpdatedParsed)
	default:
		article.PublishedAt = cmp.Or(item.Published, item.Updated)
	}

	return article
}

func extractAuthor(item *gofeed.Item) string {
	for _, author := range item.Authors {
		if author == nil {
			continue
		}
		if name := cmp.Or(strings.TrimSpace(author.Name), strings.TrimSpace(author.Email)); name != "" {
			return name
		}
	}
	if item.Author != nil {
		return cmp.Or(strings.TrimSpace(item.Author.Name), strings.TrimSpace(item.Author.Email))
	}
	return ""
}

func extractImage(item *gofeed.Item) string {
	if item.Image != nil && item.Image.URL != "" {
		return item.Image.URL
	}
	for _, enclosure := range item.Enclosures {
		if enclosure != nil && strings.HasPrefix(enclosure.Type, "image/") {
			return enclosure.URL
		}
	}
	return ""
}
