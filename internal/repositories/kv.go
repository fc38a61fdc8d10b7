package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// KVRepository persists string key-value pairs in sqlite.
type KVRepository struct {
	db *sql.DB
}

// NewKVRepository creates a new [KVRepository] with the given database connection.
func NewKVRepository(db *sql.DB) *KVRepository {
	return &KVRepository{db: db}
}

// Set writes a value under key, replacing any previous value.
func (r *KVRepository) Set(key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`

	if _, err := r.db.Exec(query, key, value, time.Now()); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	return nil
}

// Get returns the value stored under key. A missing key returns an empty
// string and no error.
func (r *KVRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}

	return value, nil
}

// Delete removes the value stored under key. Deleting a missing key is a no-op.
func (r *KVRepository) Delete(key string) error {
	if _, err := r.db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	return nil
}
