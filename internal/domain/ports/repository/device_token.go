package repository

import (
	"context"

	"premium-access-service/internal/domain/model"
)

// DeviceTokenRepository is the port for the push delivery address
// registry.
type DeviceTokenRepository interface {
	// Register stores a token. When userID is non-empty any previous
	// token held by that user is dropped first.
	Register(ctx context.Context, token, userID string) error
	// Unregister removes a token and its user mapping.
	Unregister(ctx context.Context, token string) error
	// FindByUser returns the token registered for a user or
	// domain.ErrNotFound.
	FindByUser(ctx context.Context, userID string) (*model.DeviceToken, error)
	// ListAll returns every registered token.
	ListAll(ctx context.Context) ([]*model.DeviceToken, error)
}
