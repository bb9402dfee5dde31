package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

const (
	DialectSQLite   = "sqlite"
	DialectPostgres = "postgres"
)

func init() {
	sqlx.BindDriver(DialectSQLite, sqlx.QUESTION)
}

type DB struct {
	*sqlx.DB
	Dialect string
}

// NewConnection opens and pings a SQL database. For SQLite dsn is a file path.
func NewConnection(dialect, dsn string) (*DB, error) {
	switch dialect {
	case DialectSQLite:
		if dir := filepath.Dir(dsn); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	case DialectPostgres:
		if dsn == "" {
			return nil, fmt.Errorf("database URL is required for postgres")
		}
	default:
		return nil, fmt.Errorf("unsupported SQL dialect: %s", dialect)
	}

	db, err := sqlx.Open(dialect, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if dialect == DialectSQLite {
		// SQLite allows a single writer.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(25)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db, Dialect: dialect}, nil
}
