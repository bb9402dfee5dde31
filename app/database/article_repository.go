package database

import (
	"context"
	"fmt"

	"github.com/lysyi3m/headline-comb/app/news"
)

const articleColumns = `id, published_at, title, description, url, url_to_image, source, author, content, created_at`

// ArticleRepository stores articles in a SQL table (SQLite or Postgres).
type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) Insert(ctx context.Context, a news.Article) error {
	result, err := r.db.NamedExecContext(ctx, `
		INSERT INTO articles (`+articleColumns+`)
		VALUES (:id, :published_at, :title, :description, :url, :url_to_image, :source, :author, :content, :created_at)
		ON CONFLICT (id) DO NOTHING
	`, a)
	if err != nil {
		return fmt.Errorf("failed to insert article %s: %w", a.ID, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}

	return nil
}

func (r *ArticleRepository) Exists(ctx context.Context, id string) (bool, error) {
	var found int
	err := r.db.GetContext(ctx, &found, r.db.Rebind(`SELECT COUNT(*) FROM articles WHERE id = ?`), id)
	if err != nil {
		return false, fmt.Errorf("failed to check article %s: %w", id, err)
	}
	return found > 0, nil
}

func (r *ArticleRepository) Scan(ctx context.Context, source string) ([]news.Article, error) {
	query := `SELECT ` + articleColumns + ` FROM articles`
	var args []interface{}
	if source != "" {
		query += ` WHERE source = ?`
		args = append(args, source)
	}

	articles := []news.Article{}
	if err := r.db.SelectContext(ctx, &articles, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}

	return articles, nil
}

func (r *ArticleRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM articles"); err != nil {
		return 0, fmt.Errorf("failed to get article count: %w", err)
	}
	return count, nil
}

func (r *ArticleRepository) Close() error {
	return r.db.Close()
}
