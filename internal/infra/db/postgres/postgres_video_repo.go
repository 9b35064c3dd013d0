package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/repository"
)

var _ repository.VideoRepository = (*videoRepo)(nil)

type videoRepo struct {
	pool *pgxpool.Pool
}

func NewVideoRepo(pool *pgxpool.Pool) repository.VideoRepository {
	return &videoRepo{pool: pool}
}

func (r *videoRepo) Save(ctx context.Context, v *model.Video) error {
	const q = `
INSERT INTO videos (id, object_key, original_name, size, mime_type, uploaded_at, url)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, q, v.ID, v.ObjectKey, v.OriginalName, v.Size, v.MimeType, v.UploadedAt, v.URL)
	if err != nil {
		return storeErr(err)
	}
	return nil
}

func (r *videoRepo) FindByID(ctx context.Context, id string) (*model.Video, error) {
	const q = `
SELECT id, object_key, original_name, size, mime_type, uploaded_at, url
  FROM videos
 WHERE id = $1;
`
	var v model.Video
	err := r.pool.QueryRow(ctx, q, id).Scan(&v.ID, &v.ObjectKey, &v.OriginalName, &v.Size, &v.MimeType, &v.UploadedAt, &v.URL)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, storeErr(err)
	}
	return &v, nil
}

func (r *videoRepo) ListAll(ctx context.Context) ([]*model.Video, error) {
	const q = `
SELECT id, object_key, original_name, size, mime_type, uploaded_at, url
  FROM videos
 ORDER BY uploaded_at DESC;
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, storeErr(err)
	}
	defer rows.Close()

	var out []*model.Video
	for rows.Next() {
		var v model.Video
		if err := rows.Scan(&v.ID, &v.ObjectKey, &v.OriginalName, &v.Size, &v.MimeType, &v.UploadedAt, &v.URL); err != nil {
			return nil, storeErr(err)
		}
		out = append(out, &v)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr(err)
	}
	return out, nil
}

func (r *videoRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM videos WHERE id = $1`, id)
	if err != nil {
		return storeErr(err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
