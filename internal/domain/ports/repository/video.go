package repository

import (
	"context"

	"premium-access-service/internal/domain/model"
)

// VideoRepository persists metadata for uploaded clips.
type VideoRepository interface {
	Save(ctx context.Context, v *model.Video) error
	// FindByID returns the record or domain.ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.Video, error)
	ListAll(ctx context.Context) ([]*model.Video, error)
	Delete(ctx context.Context, id string) error
}
