package migrations

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

func TestUpSQLite(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "store.db"))
	if err != nil {
		t.Fatalf("Failed to open db: %v", err)
	}
	defer db.Close()

	applied, err := Up(ctx, db, "sqlite3")
	if err != nil {
		t.Fatalf("Up failed: %v", err)
	}
	if applied != 1 {
		t.Errorf("applied = %d, want 1", applied)
	}

	if _, err := db.ExecContext(ctx, `INSERT INTO kv_store (key, value) VALUES ('k', 'v')`); err != nil {
		t.Fatalf("kv_store not usable: %v", err)
	}

	applied, err = Up(ctx, db, "sqlite3")
	if err != nil {
		t.Fatalf("second Up failed: %v", err)
	}
	if applied != 0 {
		t.Errorf("second Up applied = %d, want 0", applied)
	}
}

func TestUpUnknownDriver(t *testing.T) {
	t.Parallel()

	if _, err := Up(context.Background(), nil, "mysql"); err == nil {
		t.Error("Expected error for unknown driver")
	}
}
