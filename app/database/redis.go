package database

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/headline-comb/app/news"
	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "headline-comb:article:"
	redisScanBatch     = 500
)

// RedisStore keeps one JSON value per article under prefix+id.
type RedisStore struct {
	client *redis.Client
	prefix string
}

func NewRedisStore(addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	slog.Debug("Connected to Redis", "addr", addr, "db", db)

	return NewRedisStoreFromClient(client, defaultRedisPrefix), nil
}

func NewRedisStoreFromClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) ArticleKey(id string) string {
	return s.prefix + id
}

// Insert relies on SETNX so concurrent writers of the same id resolve to one winner.
func (s *RedisStore) Insert(ctx context.Context, a news.Article) error {
	data, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("failed to marshal article %s: %w", a.ID, err)
	}

	created, err := s.client.SetNX(ctx, s.ArticleKey(a.ID), data, 0).Result()
	if err != nil {
		return fmt.Errorf("failed to insert article %s: %w", a.ID, err)
	}
	if !created {
		return ErrDuplicate
	}

	return nil
}

func (s *RedisStore) Exists(ctx context.Context, id string) (bool, error) {
	n, err := s.client.Exists(ctx, s.ArticleKey(id)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check article %s: %w", id, err)
	}
	return n > 0, nil
}

func (s *RedisStore) Scan(ctx context.Context, source string) ([]news.Article, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return nil, err
	}

	articles := []news.Article{}
	for start := 0; start < len(keys); start += redisScanBatch {
		end := min(start+redisScanBatch, len(keys))

		values, err := s.client.MGet(ctx, keys[start:end]...).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to read articles: %w", err)
		}

		for i, value := range values {
			raw, ok := value.(string)
			if !ok {
				// Key vanished between SCAN and MGET.
				continue
			}

			var a news.Article
			if err := json.Unmarshal([]byte(raw), &a); err != nil {
				return nil, fmt.Errorf("failed to decode article at %s: %w", keys[start+i], err)
			}

			if source != "" && a.Source != source {
				continue
			}
			articles = append(articles, a)
		}
	}

	return articles, nil
}

func (s *RedisStore) Count(ctx context.Context) (int, error) {
	keys, err := s.keys(ctx)
	if err != nil {
		return 0, err
	}
	return len(keys), nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", redisScanBatch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan article keys: %w", err)
	}
	return keys, nil
}
