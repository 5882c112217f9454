package kvstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
)

const sharedNamespace = "shared"

// PostgresStore implements Store on a single key-value table. It exists for
// deployments that already run Postgres and do not want a second backend for
// catalog data; the contract is identical to the Redis store.
type PostgresStore struct {
	db        *sqlx.DB
	privateNS string
}

// NewPostgresStore returns a Store bound to one client's private namespace.
func NewPostgresStore(db *sqlx.DB, clientID string) *PostgresStore {
	return &PostgresStore{db: db, privateNS: "client:" + clientID}
}

// EnsureSchema creates the backing table if it does not exist. Called once
// at startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS gamehub_kv (
			namespace TEXT NOT NULL,
			k         TEXT NOT NULL,
			v         TEXT NOT NULL,
			PRIMARY KEY (namespace, k)
		)
	`)
	if err != nil {
		return fmt.Errorf("ensure kv schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) namespace(shared bool) string {
	if shared {
		return sharedNamespace
	}
	return s.privateNS
}

func (s *PostgresStore) Get(ctx context.Context, key string, shared bool) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value,
		`SELECT v FROM gamehub_kv WHERE namespace = $1 AND k = $2`,
		s.namespace(shared), key)
	if err == sql.ErrNoRows {
		return "", ErrKeyNotFound
	}
	if err != nil {
		return "", fmt.Errorf("pg get %s: %w", key, err)
	}
	return value, nil
}

func (s *PostgresStore) Set(ctx context.Context, key, value string, shared bool) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO gamehub_kv (namespace, k, v) VALUES ($1, $2, $3)
		ON CONFLICT (namespace, k) DO UPDATE SET v = EXCLUDED.v`,
		s.namespace(shared), key, value)
	if err != nil {
		return fmt.Errorf("pg set %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) Delete(ctx context.Context, key string, shared bool) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM gamehub_kv WHERE namespace = $1 AND k = $2`,
		s.namespace(shared), key)
	if err != nil {
		return fmt.Errorf("pg delete %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) ListKeys(ctx context.Context, prefix string, shared bool) ([]string, error) {
	var keys []string
	err := s.db.SelectContext(ctx, &keys,
		`SELECT k FROM gamehub_kv WHERE namespace = $1 AND k LIKE $2`,
		s.namespace(shared), escapeLike(prefix)+"%")
	if err != nil {
		return nil, fmt.Errorf("pg list %s: %w", prefix, err)
	}
	return keys, nil
}

// escapeLike escapes LIKE metacharacters so a literal prefix match is
// performed.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
