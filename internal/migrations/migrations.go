package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

func dialect(driver string) (goose.Dialect, error) {
	switch driver {
	case "postgres":
		return goose.DialectPostgres, nil
	case "sqlite3":
		return goose.DialectSQLite3, nil
	default:
		return "", fmt.Errorf("no migration dialect for driver %q", driver)
	}
}

// Up applies all pending migrations and returns how many ran.
func Up(ctx context.Context, db *sql.DB, driver string) (int, error) {
	d, err := dialect(driver)
	if err != nil {
		return 0, err
	}

	fsys, err := fs.Sub(embedded, "sql")
	if err != nil {
		return 0, err
	}

	provider, err := goose.NewProvider(d, db, fsys)
	if err != nil {
		return 0, fmt.Errorf("failed to create migration provider: %w", err)
	}

	results, err := provider.Up(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to apply migrations: %w", err)
	}
	return len(results), nil
}
