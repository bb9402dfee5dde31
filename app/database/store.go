package database

import (
	"fmt"
	"log/slog"
)

const (
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
	StoreRedis    = "redis"
	StoreMemory   = "memory"
)

type Options struct {
	Store         string
	DBPath        string
	DatabaseURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// OpenStore connects the configured backend and, for SQL backends, applies migrations.
func OpenStore(opts Options) (ArticleStore, error) {
	switch opts.Store {
	case StoreSQLite, StorePostgres:
		dsn := opts.DBPath
		if opts.Store == StorePostgres {
			dsn = opts.DatabaseURL
		}

		db, err := NewConnection(opts.Store, dsn)
		if err != nil {
			return nil, err
		}

		version, dirty, err := RunMigrations(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		slog.Debug("Database migrations applied", "dialect", db.Dialect, "version", version, "dirty", dirty)

		return NewArticleRepository(db), nil
	case StoreRedis:
		return NewRedisStore(opts.RedisAddr, opts.RedisPassword, opts.RedisDB)
	case StoreMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unsupported store: %s", opts.Store)
	}
}
