package database

import (
	"context"
	"sync"

	"github.com/lysyi3m/headline-comb/app/news"
)

// MemoryStore is a process-local ArticleStore used by tests and dry runs.
type MemoryStore struct {
	mu       sync.RWMutex
	articles map[string]news.Article
	order    []string
}

func NewMemoryStore(seed ...news.Article) *MemoryStore {
	s := &MemoryStore{articles: make(map[string]news.Article)}
	for _, a := range seed {
		_ = s.Insert(context.Background(), a)
	}
	return s
}

func (s *MemoryStore) Insert(ctx context.Context, a news.Article) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.articles[a.ID]; exists {
		return ErrDuplicate
	}
	s.articles[a.ID] = a
	s.order = append(s.order, a.ID)
	return nil
}

func (s *MemoryStore) Exists(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.articles[id]
	return ok, nil
}

func (s *MemoryStore) Scan(ctx context.Context, source string) ([]news.Article, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	articles := make([]news.Article, 0, len(s.order))
	for _, id := range s.order {
		a := s.articles[id]
		if source != "" && a.Source != source {
			continue
		}
		articles = append(articles, a)
	}
	return articles, nil
}

func (s *MemoryStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.articles), nil
}

func (s *MemoryStore) Get(id string) (news.Article, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.articles[id]
	return a, ok
}

func (s *MemoryStore) Close() error {
	return nil
}
