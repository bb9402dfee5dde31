package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/lysyi3m/headline-comb/app/news"
)

// NewsAPIClient reads the newsapi.org top-headlines envelope.
type NewsAPIClient struct {
	name       string
	url        string
	apiKey     string
	userAgent  string
	sourceName string
	timeout    time.Duration
	httpClient *http.Client
}

func NewNewsAPIClient(cfg *Config, opts ClientOptions) *NewsAPIClient {
	return &NewsAPIClient{
		name:       cfg.Name,
		url:        cfg.URL,
		apiKey:     opts.NewsAPIKey,
		userAgent:  opts.UserAgent,
		sourceName: cfg.SourceName,
		timeout:    cfg.Settings.TimeoutDuration(),
		httpClient: opts.HTTPClient,
	}
}

func (c *NewsAPIClient) Name() string {
	return c.name
}

func (c *NewsAPIClient) Fetch(ctx context.Context) ([]news.RawArticle, error) {
	header := http.Header{}
	if c.apiKey != "" {
		header.Set("X-Api-Key", c.apiKey)
	}

	data, statusCode, err := fetch(ctx, c.httpClient, c.url, c.userAgent, c.timeout, header)
	if err != nil {
		return nil, &news.SourceError{Source: c.name, Err: err}
	}

	var envelope newsAPIResponse
	if err := json.Unmarshal(data, &envelope); err != nil {
		if statusCode != http.StatusOK {
			return nil, &news.SourceError{Source: c.name, Err: fmt.Errorf("HTTP error: %d", statusCode)}
		}
		return nil, &news.SourceError{Source: c.name, Err: fmt.Errorf("failed to decode response: %w", err)}
	}

	if envelope.Status != "ok" || envelope.Articles == nil {
		return nil, &news.SourceError{
			Source:  c.name,
			Status:  envelope.Status,
			Code:    envelope.Code,
			Message: envelope.Message,
		}
	}

	articles := make([]news.RawArticle, 0, len(envelope.Articles))
	for _, item := range envelope.Articles {
		sourceName := item.Source.Name
		if c.sourceName != "" {
			sourceName = c.sourceName
		}

		articles = append(articles, news.RawArticle{
			Title:       item.Title,
			Description: item.Description,
			PublishedAt: item.PublishedAt,
			URL:         item.URL,
			URLToImage:  item.URLToImage,
			SourceName:  sourceName,
			Author:      item.Author,
			Content:     item.Content,
		})
	}

	return articles, nil
}

type newsAPIResponse struct {
	Status       string           `json:"status"`
	Code         string           `json:"code"`
	Message      string           `json:"message"`
	TotalResults int              `json:"totalResults"`
	Articles     []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source      newsAPISource `json:"source"`
	Author      string        `json:"author"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	URL         string        `json:"url"`
	URLToImage  string        `json:"urlToImage"`
	PublishedAt string        `json:"publishedAt"`
	Content     string        `json:"content"`
}

type newsAPISource struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
