package usecase

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/adapter"
	"premium-access-service/internal/domain/ports/repository"
)

// VideoUseCase stores promotional clips in bulk media storage and
// tracks their metadata.
type VideoUseCase struct {
	videos  repository.VideoRepository
	media   adapter.MediaStorage
	maxSize int64
	log     *zerolog.Logger
}

func NewVideoUseCase(videos repository.VideoRepository, media adapter.MediaStorage, maxSize int64, logger *zerolog.Logger) *VideoUseCase {
	l := logger.With().Str("component", "video_uc").Logger()
	return &VideoUseCase{videos: videos, media: media, maxSize: maxSize, log: &l}
}

// Upload streams a clip into media storage and persists its metadata.
// Only video/* content is accepted.
func (uc *VideoUseCase) Upload(ctx context.Context, filename, contentType string, size int64, body io.Reader) (*model.Video, error) {
	if !strings.HasPrefix(contentType, "video/") {
		return nil, domain.ErrInvalidArgument
	}
	if size <= 0 || (uc.maxSize > 0 && size > uc.maxSize) {
		return nil, domain.ErrInvalidArgument
	}

	id := uuid.NewString()
	key := fmt.Sprintf("videos/%s_%d%s", id, time.Now().UnixMilli(), path.Ext(filename))

	obj, err := uc.media.Put(ctx, key, contentType, size, body)
	if err != nil {
		uc.log.Error().Err(err).Str("key", key).Msg("media upload failed")
		return nil, err
	}

	v := &model.Video{
		ID:           id,
		ObjectKey:    obj.Key,
		OriginalName: filename,
		Size:         size,
		MimeType:     contentType,
		UploadedAt:   time.Now(),
		URL:          obj.URL,
	}
	if err := uc.videos.Save(ctx, v); err != nil {
		// Best effort: don't leave an orphaned object behind.
		if derr := uc.media.Delete(ctx, obj.Key); derr != nil {
			uc.log.Warn().Err(derr).Str("key", obj.Key).Msg("failed to remove orphaned object")
		}
		return nil, err
	}

	uc.log.Info().Str("video_id", id).Int64("size", size).Msg("video uploaded")
	return v, nil
}

func (uc *VideoUseCase) List(ctx context.Context) ([]*model.Video, error) {
	return uc.videos.ListAll(ctx)
}

// Delete removes both the stored object and its metadata.
func (uc *VideoUseCase) Delete(ctx context.Context, id string) error {
	v, err := uc.videos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.media.Delete(ctx, v.ObjectKey); err != nil {
		return err
	}
	return uc.videos.Delete(ctx, id)
}

// Random picks one clip for an ad slot, or ErrNotFound when none exist.
func (uc *VideoUseCase) Random(ctx context.Context) (*model.Video, error) {
	all, err := uc.videos.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, domain.ErrNotFound
	}
	return all[rand.Intn(len(all))], nil
}
