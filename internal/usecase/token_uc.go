package usecase

import (
	"context"

	"github.com/rs/zerolog"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/repository"
)

// DeviceTokenUseCase manages the registry mapping client identities to
// push delivery addresses.
type DeviceTokenUseCase struct {
	tokens repository.DeviceTokenRepository
	log    *zerolog.Logger
}

func NewDeviceTokenUseCase(tokens repository.DeviceTokenRepository, logger *zerolog.Logger) *DeviceTokenUseCase {
	l := logger.With().Str("component", "device_token_uc").Logger()
	return &DeviceTokenUseCase{tokens: tokens, log: &l}
}

// Register stores a delivery token. userID may be empty for anonymous
// clients; a named user's previous token is replaced.
func (uc *DeviceTokenUseCase) Register(ctx context.Context, token, userID string) error {
	if token == "" {
		return domain.ErrInvalidArgument
	}
	if err := uc.tokens.Register(ctx, token, userID); err != nil {
		return err
	}
	uc.log.Info().Str("token", model.DeviceToken{Token: token}.Preview()).Msg("device token registered")
	return nil
}

func (uc *DeviceTokenUseCase) Unregister(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidArgument
	}
	return uc.tokens.Unregister(ctx, token)
}

func (uc *DeviceTokenUseCase) Get(ctx context.Context, userID string) (*model.DeviceToken, error) {
	if userID == "" {
		return nil, domain.ErrInvalidArgument
	}
	return uc.tokens.FindByUser(ctx, userID)
}

func (uc *DeviceTokenUseCase) List(ctx context.Context) ([]*model.DeviceToken, error) {
	return uc.tokens.ListAll(ctx)
}
