package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.AccessKeyRepository = (*accessKeyRepo)(nil)

type accessKeyRepo struct {
	pool *pgxpool.Pool
}

func NewAccessKeyRepo(pool *pgxpool.Pool) repository.AccessKeyRepository {
	return &accessKeyRepo{pool: pool}
}

// Save inserts a fresh record. ON CONFLICT overwrites: a code collision
// at issuance is last-writer-wins by design of the issuance flow.
func (r *accessKeyRepo) Save(ctx context.Context, key *model.AccessKey) error {
	const q = `
INSERT INTO access_keys (code, plan, plan_code, expires_at, created_at, used, used_at, used_by)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (code) DO UPDATE SET
  plan       = EXCLUDED.plan,
  plan_code  = EXCLUDED.plan_code,
  expires_at = EXCLUDED.expires_at,
  created_at = EXCLUDED.created_at,
  used       = EXCLUDED.used,
  used_at    = EXCLUDED.used_at,
  used_by    = EXCLUDED.used_by;
`
	_, err := r.pool.Exec(ctx, q,
		key.Code, string(key.Plan), key.PlanCode, key.ExpiresAt, key.CreatedAt, key.Used, key.UsedAt, key.UsedBy,
	)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *accessKeyRepo) FindByCode(ctx context.Context, code string) (*model.AccessKey, error) {
	const q = `
SELECT code, plan, plan_code, expires_at, created_at, used, used_at, used_by
  FROM access_keys
 WHERE code = $1;
`
	var k model.AccessKey
	var plan string
	err := r.pool.QueryRow(ctx, q, code).Scan(
		&k.Code, &plan, &k.PlanCode, &k.ExpiresAt, &k.CreatedAt, &k.Used, &k.UsedAt, &k.UsedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCodeNotFound
		}
		return nil, storeErr(err)
	}
	k.Plan = model.Plan(plan)
	return &k, nil
}

// Consume flips the used flag for an unused code. The conditional
// UPDATE is the atomic check-and-set: under concurrent validation of
// one code, exactly one statement matches a row.
func (r *accessKeyRepo) Consume(ctx context.Context, code, usedBy string, usedAt time.Time) error {
	const q = `
UPDATE access_keys
   SET used = TRUE, used_at = $2, used_by = $3
 WHERE code = $1 AND used = FALSE;
`
	tag, err := r.pool.Exec(ctx, q, code, usedAt, usedBy)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}

	// No row flipped: either the code is gone or someone beat us to it.
	var used bool
	err = r.pool.QueryRow(ctx, `SELECT used FROM access_keys WHERE code = $1`, code).Scan(&used)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCodeNotFound
		}
		return storeErr(err)
	}
	return domain.ErrCodeAlreadyUsed
}

func (r *accessKeyRepo) ListAll(ctx context.Context) ([]*model.AccessKey, error) {
	const q = `
SELECT code, plan, plan_code, expires_at, created_at, used, used_at, used_by
  FROM access_keys;
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*model.AccessKey
	for rows.Next() {
		var k model.AccessKey
		var plan string
		if err := rows.Scan(&k.Code, &plan, &k.PlanCode, &k.ExpiresAt, &k.CreatedAt, &k.Used, &k.UsedAt, &k.UsedBy); err != nil {
			return nil, storeErr(err)
		}
		k.Plan = model.Plan(plan)
		out = append(out, &k)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *accessKeyRepo) DeleteAll(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM access_keys`); err != nil {
		return storeErr(err)
	}
	return nil
}

// storeErr wraps any store I/O failure as ErrStoreUnavailable so a
// failed read can never masquerade as an empty store.
func storeErr(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%w: %s (SQLSTATE %s)", domain.ErrStoreUnavailable, pgErr.Message, pgErr.Code)
	}
	return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
}
