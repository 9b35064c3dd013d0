package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// EnsureSchema creates the tables on first use. The store starts empty;
// there is no migration history to manage at this scale.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS access_keys (
    code       TEXT PRIMARY KEY,
    plan       TEXT        NOT NULL,
    plan_code  CHAR(1)     NOT NULL,
    expires_at TIMESTAMPTZ NOT NULL,
    created_at TIMESTAMPTZ NOT NULL,
    used       BOOLEAN     NOT NULL DEFAULT FALSE,
    used_at    TIMESTAMPTZ,
    used_by    TEXT
);

CREATE TABLE IF NOT EXISTS videos (
    id            TEXT PRIMARY KEY,
    object_key    TEXT        NOT NULL,
    original_name TEXT        NOT NULL,
    size          BIGINT      NOT NULL,
    mime_type     TEXT        NOT NULL,
    uploaded_at   TIMESTAMPTZ NOT NULL,
    url           TEXT        NOT NULL
);
`
	if _, err := pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
