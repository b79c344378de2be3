package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Fixed keys of the persisted records.
const (
	UserKey       = "weekgram_user"
	TasksKey      = "weekgram_tasks"
	ExpensesKey   = "weekly_expenses"
	ScheduleKey   = "weekgram_schedule"
	LastDigestKey = "weekgram_last_digest"
)

// SchemaVersion tags every value written by this build.
const SchemaVersion = 1

// ErrUnsupportedVersion is wrapped by decode failures of values written by a newer build.
var ErrUnsupportedVersion = errors.New("unsupported schema version")

type StorageReadError struct {
	Key string
	Err error
}

func (e *StorageReadError) Error() string {
	return fmt.Sprintf("failed to read %s: %v", e.Key, e.Err)
}

func (e *StorageReadError) Unwrap() error { return e.Err }

type StorageWriteError struct {
	Key string
	Err error
}

func (e *StorageWriteError) Error() string {
	return fmt.Sprintf("failed to write %s: %v", e.Key, e.Err)
}

func (e *StorageWriteError) Unwrap() error { return e.Err }

type envelope struct {
	Version int             `json:"version"`
	Data    json.RawMessage `json:"data"`
}

// KVRepository stores JSON values under string keys in the kv_store table.
// A write replaces the whole value in one statement.
type KVRepository struct {
	db  *sql.DB
	log logrus.FieldLogger
}

func NewKVRepository(db *sql.DB, log logrus.FieldLogger) *KVRepository {
	return &KVRepository{db: db, log: log}
}

// Get returns the raw stored value; ok is false when the key is absent.
func (r *KVRepository) Get(ctx context.Context, key string) (value string, ok bool, err error) {
	err = r.db.QueryRowContext(ctx, `SELECT value FROM kv_store WHERE key = $1`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, &StorageReadError{Key: key, Err: err}
	}
	return value, true, nil
}

func (r *KVRepository) Put(ctx context.Context, key, value string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO kv_store (key, value, updated_at) VALUES ($1, $2, CURRENT_TIMESTAMP)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value,
	)
	if err != nil {
		return &StorageWriteError{Key: key, Err: err}
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, key string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_store WHERE key = $1`, key)
	if err != nil {
		return &StorageWriteError{Key: key, Err: err}
	}
	return nil
}

// Load decodes the value under key into dst. It reports false when the key is absent
// or the value cannot be decoded; undecodable values are logged and treated as absent.
// Only I/O failures are returned.
func (r *KVRepository) Load(ctx context.Context, key string, dst any) (bool, error) {
	raw, ok, err := r.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}

	if err := decode(raw, dst); err != nil {
		r.log.WithFields(logrus.Fields{"key": key, "error": err}).Warn("discarding unreadable stored value")
		return false, nil
	}
	return true, nil
}

// Store encodes v before touching the table, so an unencodable value never
// replaces what is stored.
func (r *KVRepository) Store(ctx context.Context, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return &StorageWriteError{Key: key, Err: err}
	}
	raw, err := json.Marshal(envelope{Version: SchemaVersion, Data: data})
	if err != nil {
		return &StorageWriteError{Key: key, Err: err}
	}
	return r.Put(ctx, key, string(raw))
}

// Clear removes every stored record.
func (r *KVRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM kv_store`)
	if err != nil {
		return &StorageWriteError{Key: "*", Err: err}
	}
	return nil
}

// decode accepts the versioned envelope and the bare payloads of unversioned stores.
func decode(raw string, dst any) error {
	var env envelope
	if err := json.Unmarshal([]byte(raw), &env); err == nil && env.Version != 0 {
		if env.Version > SchemaVersion {
			return fmt.Errorf("%w %d", ErrUnsupportedVersion, env.Version)
		}
		return json.Unmarshal(env.Data, dst)
	}
	return json.Unmarshal([]byte(raw), dst)
}
