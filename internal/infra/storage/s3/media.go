package s3

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rs/zerolog"

	"premium-access-service/internal/config"
	"premium-access-service/internal/domain/ports/adapter"
)

var _ adapter.MediaStorage = (*MediaStore)(nil)

// MediaStore keeps uploaded clips in an S3-compatible bucket. Works
// against AWS or any path-style endpoint (MinIO, Ceph RGW).
type MediaStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
	log           *zerolog.Logger
}

func NewMediaStore(cfg config.MediaConfig, logger *zerolog.Logger) *MediaStore {
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := s3.Options{
		Region:      region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}

	base := cfg.PublicBaseURL
	if base == "" && cfg.Endpoint != "" {
		base = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	l := logger.With().Str("component", "media_store").Logger()
	return &MediaStore{
		client:        s3.New(opts),
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
		log:           &l,
	}
}

func (m *MediaStore) Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (adapter.StoredObject, error) {
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(m.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(size),
	})
	if err != nil {
		return adapter.StoredObject{}, fmt.Errorf("put object %s: %w", key, err)
	}
	m.log.Debug().Str("key", key).Int64("size", size).Msg("object stored")
	return adapter.StoredObject{Key: key, URL: m.publicBaseURL + "/" + key}, nil
}

func (m *MediaStore) Delete(ctx context.Context, key string) error {
	_, err := m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}
