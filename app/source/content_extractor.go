package source

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"
)

// ContentExtractor pulls the readable body text out of an article page.
type ContentExtractor struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
}

func NewContentExtractor(httpClient *http.Client, userAgent string, timeout time.Duration) *ContentExtractor {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ContentExtractor{
		httpClient: httpClient,
		userAgent:  userAgent,
		timeout:    timeout,
	}
}

func (e *ContentExtractor) Extract(ctx context.Context, pageURL string) (string, error) {
	data, statusCode, err := fetch(ctx, e.httpClient, pageURL, e.userAgent, e.timeout, nil)
	if err != nil {
		return "", err
	}
	if statusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP error: %d", statusCode)
	}
	return e.Run(data, pageURL)
}

func (e *ContentExtractor) Run(data []byte, pageURL string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("HTML data is empty")
	}

	parsedURL := &url.URL{}
	if pageURL != "" {
		if u, err := url.Parse(pageURL); err == nil {
			parsedURL = u
		}
	}

	article, err := readability.FromReader(bytes.NewReader(data), parsedURL)
	if err != nil {
		return "", fmt.Errorf("failed to extract content: %w", err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", fmt.Errorf("no content extracted from HTML data")
	}

	slog.Debug("Content extracted successfully",
		"url", pageURL,
		"title", article.Title,
		"content_length", len(text))

	return text, nil
}
