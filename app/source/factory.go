package source

import (
	"fmt"
	"net/http"
)

func New(cfg *Config, opts ClientOptions) (Source, error) {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	switch cfg.Type {
	case TypeNewsAPI:
		return NewNewsAPIClient(cfg, opts), nil
	case TypeRSS:
		return NewRSSClient(cfg, opts), nil
	default:
		return nil, fmt.Errorf("unsupported source type: %s", cfg.Type)
	}
}
