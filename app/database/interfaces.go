package database

import (
	"context"
	"errors"

	"github.com/lysyi3m/headline-comb/app/news"
)

// ErrDuplicate is returned by Insert when a record with the same id exists.
var ErrDuplicate = errors.New("article already exists")

// ArticleStore is the keyed record set shared by the ingestor and the query service.
type ArticleStore interface {
	// Insert stores a only if no record with a.ID exists.
	Insert(ctx context.Context, a news.Article) error
	// Exists reports whether a record with id is already stored.
	Exists(ctx context.Context, id string) (bool, error)
	// Scan returns every record, restricted to an exact source match when source is non-empty.
	Scan(ctx context.Context, source string) ([]news.Article, error)
	Count(ctx context.Context) (int, error)
	Close() error
}

var (
	_ ArticleStore = (*ArticleRepository)(nil)
	_ ArticleStore = (*RedisStore)(nil)
	_ ArticleStore = (*MemoryStore)(nil)
)
