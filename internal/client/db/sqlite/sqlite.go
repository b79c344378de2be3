package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Lina3386/weekgram/internal/client/db"
	_ "github.com/mattn/go-sqlite3"
)

type sqliteClient struct {
	db *sql.DB
}

// New opens the local store file, creating its directory when needed.
func New(ctx context.Context, path string) (db.Client, error) {
	dsn := path
	if !strings.HasPrefix(path, "file:") && path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create store directory: %w", err)
			}
		}
		dsn = fmt.Sprintf("file:%s?_busy_timeout=5000&_journal_mode=WAL", path)
	}

	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// one writer at a time; the bot loop and the scheduler share the handle
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}

	return &sqliteClient{db: sqlDB}, nil
}

func (c *sqliteClient) DB() *sql.DB {
	return c.db
}

func (c *sqliteClient) Driver() string {
	return "sqlite3"
}

func (c *sqliteClient) Close() error {
	if c.db != nil {
		return c.db.Close()
	}
	return nil
}
