// Package db owns the relational schema and applies it at startup.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    name          TEXT NOT NULL,
    email         TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL DEFAULT '',
    avatar        TEXT NOT NULL DEFAULT '',
    google_sub    TEXT UNIQUE,
    provider      TEXT NOT NULL DEFAULT 'local',
    created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS billers (
    id           UUID PRIMARY KEY,
    user_id      UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
    name         TEXT NOT NULL,
    type         TEXT NOT NULL CHECK (type IN ('bill', 'credit')),
    amount       BIGINT NOT NULL CHECK (amount >= 0),
    due_day      INT NOT NULL CHECK (due_day BETWEEN 1 AND 31),
    cut_off_day  INT CHECK (cut_off_day BETWEEN 1 AND 31),
    credit_limit BIGINT CHECK (credit_limit >= 0),
    category     TEXT NOT NULL DEFAULT 'other',
    is_active    BOOLEAN NOT NULL DEFAULT TRUE,
    notes        TEXT NOT NULL DEFAULT '',
    paid_months  JSONB NOT NULL DEFAULT '[]',
    created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_billers_user ON billers (user_id);
CREATE INDEX IF NOT EXISTS idx_billers_user_active ON billers (user_id, is_active);
`

// Ensure creates the tables and indexes if they do not exist yet.
func Ensure(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
