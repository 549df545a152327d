package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// NOTE: table schema lives in internal/migrations (00001_session_kv.sql):
// CREATE TABLE session_kv (
//   scope      varchar(64) NOT NULL,
//   key        varchar(64) NOT NULL,
//   value      text NOT NULL,
//   updated_at timestamptz NOT NULL DEFAULT NOW(),
//   PRIMARY KEY (scope, key)
// );

// Postgres is the Store backed by the session_kv table.
type Postgres struct {
	db *sqlx.DB
}

func NewPostgres(db *sqlx.DB) *Postgres { return &Postgres{db: db} }

func (r *Postgres) Get(ctx context.Context, scope, key string) (string, error) {
	const q = `SELECT value FROM session_kv WHERE scope = $1 AND key = $2`
	var v string
	if err := r.db.GetContext(ctx, &v, q, scope, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("kv get: %w", err)
	}
	return v, nil
}

func (r *Postgres) Set(ctx context.Context, scope, key, value string) error {
	const q = `INSERT INTO session_kv (scope, key, value, updated_at) VALUES ($1, $2, $3, NOW())
		ON CONFLICT (scope, key) DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()`
	if _, err := r.db.ExecContext(ctx, q, scope, key, value); err != nil {
		return fmt.Errorf("kv set: %w", err)
	}
	return nil
}

func (r *Postgres) Delete(ctx context.Context, scope string, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	const q = `DELETE FROM session_kv WHERE scope = $1 AND key = ANY($2)`
	if _, err := r.db.ExecContext(ctx, q, scope, pq.Array(keys)); err != nil {
		return fmt.Errorf("kv delete: %w", err)
	}
	return nil
}

func (r *Postgres) Keys(ctx context.Context, scope string) ([]string, error) {
	const q = `SELECT key FROM session_kv WHERE scope = $1 ORDER BY key`
	out := []string{}
	if err := r.db.SelectContext(ctx, &out, q, scope); err != nil {
		return nil, fmt.Errorf("kv keys: %w", err)
	}
	return out, nil
}
