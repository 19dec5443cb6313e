package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/arbor/pkg/domain"
	_ "modernc.org/sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS slots (
	key        TEXT PRIMARY KEY,
	value      BLOB NOT NULL,
	updated_at INTEGER NOT NULL DEFAULT (unixepoch())
)`

// KeyValue implements ports.KeyValue on a single SQLite table.
type KeyValue struct {
	sqlDB *sql.DB
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*KeyValue, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := "file:" + filepath.Clean(path) + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	if _, err := sqlDB.Exec(schema); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("create slots table: %w", err)
	}
	return &KeyValue{sqlDB: sqlDB}, nil
}

// Close releases the underlying SQLite connection.
func (kv *KeyValue) Close() error {
	if kv == nil || kv.sqlDB == nil {
		return nil
	}
	return kv.sqlDB.Close()
}

func (kv *KeyValue) Get(ctx context.Context, key string) ([]byte, error) {
	if kv == nil || kv.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var value []byte
	err := kv.sqlDB.QueryRowContext(ctx, `SELECT value FROM slots WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrSlotNotFound
		}
		return nil, fmt.Errorf("get slot: %w", err)
	}
	return value, nil
}

func (kv *KeyValue) Set(ctx context.Context, key string, value []byte) error {
	if kv == nil || kv.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("key is required")
	}
	if value == nil {
		value = []byte{}
	}

	_, err := kv.sqlDB.ExecContext(ctx,
		`INSERT INTO slots (key, value, updated_at) VALUES (?, ?, unixepoch())
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("put slot: %w", err)
	}
	return nil
}

func (kv *KeyValue) Delete(ctx context.Context, key string) error {
	if kv == nil || kv.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	if _, err := kv.sqlDB.ExecContext(ctx, `DELETE FROM slots WHERE key = ?`, key); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}
