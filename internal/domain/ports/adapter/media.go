package adapter

import (
	"context"
	"io"
)

// StoredObject describes a blob written to durable media storage.
type StoredObject struct {
	Key string
	URL string
}

// MediaStorage is the port for the external bulk storage collaborator.
// Put streams the object body and returns a durable, publicly
// reachable URL for it.
type MediaStorage interface {
	Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (StoredObject, error)
	Delete(ctx context.Context, key string) error
}
