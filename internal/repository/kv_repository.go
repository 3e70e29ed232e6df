package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// KVRepository stores the persisted workspace slices, one row per user and
// key.
type KVRepository struct {
	db *sql.DB
}

func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

func (r *KVRepository) Get(ctx context.Context, userID, key string) (string, error) {
	var value string
	err := r.db.QueryRowContext(
		ctx,
		`SELECT value FROM kv_entries WHERE user_id = ? AND key = ?`,
		userID,
		key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("get kv entry: %w", err)
	}
	return value, nil
}

func (r *KVRepository) Set(ctx context.Context, userID, key, value string) error {
	_, err := r.db.ExecContext(
		ctx,
		`INSERT INTO kv_entries (user_id, key, value, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, key) DO UPDATE SET
		     value = excluded.value,
		     updated_at = excluded.updated_at`,
		userID,
		key,
		value,
		formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("set kv entry: %w", err)
	}
	return nil
}

func (r *KVRepository) Delete(ctx context.Context, userID, key string) error {
	_, err := r.db.ExecContext(
		ctx,
		`DELETE FROM kv_entries WHERE user_id = ? AND key = ?`,
		userID,
		key,
	)
	if err != nil {
		return fmt.Errorf("delete kv entry: %w", err)
	}
	return nil
}

func (r *KVRepository) ListKeys(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(
		ctx,
		`SELECT key FROM kv_entries WHERE user_id = ? ORDER BY key`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list kv keys: %w", err)
	}
	defer rows.Close()

	keys := []string{}
	for rows.Next() {
		var key string
		if err := rows.Scan(&key); err != nil {
			return nil, fmt.Errorf("scan kv key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate kv keys: %w", err)
	}
	return keys, nil
}

// UserStorage is the key/value view of one user's rows.
type UserStorage struct {
	repo   *KVRepository
	userID string
}

func (r *KVRepository) ForUser(userID string) *UserStorage {
	return &UserStorage{repo: r, userID: userID}
}

func (s *UserStorage) Get(ctx context.Context, key string) (string, bool, error) {
	value, err := s.repo.Get(ctx, s.userID, key)
	if errors.Is(err, ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return value, true, nil
}

func (s *UserStorage) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, s.userID, key, value)
}

func (s *UserStorage) Remove(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, s.userID, key)
}

func (s *UserStorage) Keys(ctx context.Context) ([]string, error) {
	return s.repo.ListKeys(ctx, s.userID)
}
