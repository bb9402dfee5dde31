package source

import (
	"context"
	"net/http"
	"time"

	"github.com/lysyi3m/headline-comb/app/news"
)

const (
	TypeNewsAPI = "newsapi"
	TypeRSS     = "rss"
)

const (
	DefaultNewsAPIURL      = "https://newsapi.org/v2/top-headlines?country=us&pageSize=20"
	DefaultSourceName      = "newsapi-top-headlines"
	DefaultRefreshInterval = 3600
	DefaultTimeout         = 30
)

// Source is an upstream that yields a batch of candidate articles per fetch.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]news.RawArticle, error)
}

// Config is one source definition loaded from <sources-dir>/<name>.yml.
type Config struct {
	Name       string         // Derived from filename (without .yml extension)
	Type       string         `yaml:"type"`
	URL        string         `yaml:"url"`
	SourceName string         `yaml:"source_name"` // overrides the per-article source name
	Settings   ConfigSettings `yaml:"settings"`
	Filters    []Filter       `yaml:"filters"`
}

type ConfigSettings struct {
	Enabled         bool `yaml:"enabled"`
	RefreshInterval int  `yaml:"refresh_interval"` // seconds
	Timeout         int  `yaml:"timeout"`          // seconds
	ExtractContent  bool `yaml:"extract_content"`
}

func (s ConfigSettings) RefreshDuration() time.Duration {
	return time.Duration(s.RefreshInterval) * time.Second
}

func (s ConfigSettings) TimeoutDuration() time.Duration {
	return time.Duration(s.Timeout) * time.Second
}

// ClientOptions carries process-wide settings shared by all source clients.
type ClientOptions struct {
	HTTPClient *http.Client
	UserAgent  string
	NewsAPIKey string
}

// DefaultConfig is used when no source definitions are present.
func DefaultConfig(url string) *Config {
	if url == "" {
		url = DefaultNewsAPIURL
	}
	return &Config{
		Name: DefaultSourceName,
		Type: TypeNewsAPI,
		URL:  url,
		Settings: ConfigSettings{
			Enabled:         true,
			RefreshInterval: DefaultRefreshInterval,
			Timeout:         DefaultTimeout,
		},
	}
}
