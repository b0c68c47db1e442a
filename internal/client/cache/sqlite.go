package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/adriancondrea/Bikes-Shop/internal/common"
	"github.com/adriancondrea/Bikes-Shop/internal/dbx"
)

// SQLiteStore implements Store on top of the cache database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a new SQLiteStore bound to the given database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// Get returns the value stored under key, or common.ErrNotFound.
func (s *SQLiteStore) Get(ctx context.Context, key string) ([]byte, error) {
	query := `select value from cache where key=?`
	row := s.db.QueryRowContext(ctx, query, key)

	var value []byte
	if err := row.Scan(&value); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("failed to select cache record: %w", err)
	}
	return value, nil
}

// Set upserts a cache record by key.
func (s *SQLiteStore) Set(ctx context.Context, key string, value []byte) error {
	return setRecord(ctx, s.db, key, value)
}

// Remove deletes the record stored under key. Removing an absent key is not
// an error, so offline deletes stay idempotent.
func (s *SQLiteStore) Remove(ctx context.Context, key string) error {
	return removeRecord(ctx, s.db, key)
}

// Replace atomically drops the record under oldKey and stores value under
// newKey. Used when a locally-minted identifier is superseded by the
// canonical one, so a crash cannot leave both copies behind.
func (s *SQLiteStore) Replace(ctx context.Context, oldKey, newKey string, value []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := removeRecord(ctx, tx, oldKey); err != nil {
			return err
		}
		return setRecord(ctx, tx, newKey, value)
	})
}

// ListKeys lists all entity keys. The reserved credential key is excluded
// from enumeration.
func (s *SQLiteStore) ListKeys(ctx context.Context) ([]string, error) {
	query := `select key from cache where key <> ? order by key`
	rows, err := s.db.QueryContext(ctx, query, common.CredentialCacheKey)
	if err != nil {
		return nil, fmt.Errorf("failed to select cache keys: %w", err)
	}
	defer rows.Close()

	var result []string
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, err
		}
		result = append(result, key)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Credential returns the stored auth token, or "" when none is stored.
func (s *SQLiteStore) Credential(ctx context.Context) (string, error) {
	value, err := s.Get(ctx, common.CredentialCacheKey)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", nil
		}
		return "", err
	}
	return string(value), nil
}

// SetCredential stores the auth token under the reserved key.
func (s *SQLiteStore) SetCredential(ctx context.Context, token string) error {
	return s.Set(ctx, common.CredentialCacheKey, []byte(token))
}

func setRecord(ctx context.Context, db dbx.DBTX, key string, value []byte) error {
	query := `insert into cache (key, value, updated_at) values (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value,
				updated_at = excluded.updated_at
	`
	if _, err := db.ExecContext(ctx, query, key, value); err != nil {
		return fmt.Errorf("failed to upsert cache record: %w", err)
	}
	return nil
}

func removeRecord(ctx context.Context, db dbx.DBTX, key string) error {
	query := `delete from cache where key=?`
	if _, err := db.ExecContext(ctx, query, key); err != nil {
		return fmt.Errorf("failed to delete cache record: %w", err)
	}
	return nil
}
