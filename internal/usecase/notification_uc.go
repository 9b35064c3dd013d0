package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/ports/adapter"
	"premium-access-service/internal/domain/ports/repository"
	"premium-access-service/internal/infra/metrics"
	"premium-access-service/internal/infra/worker"
)

// BroadcastTopic is the provider-side topic every client subscribes to.
const BroadcastTopic = "all_users"

// NotificationUseCase sends push notifications through the external
// delivery collaborator: to the all-users topic, to a named topic, to a
// single token, or fanned out to every registered device.
type NotificationUseCase struct {
	push   adapter.PushSender
	tokens repository.DeviceTokenRepository
	pool   *worker.Pool
	log    *zerolog.Logger
}

func NewNotificationUseCase(push adapter.PushSender, tokens repository.DeviceTokenRepository, pool *worker.Pool, logger *zerolog.Logger) *NotificationUseCase {
	l := logger.With().Str("component", "notification_uc").Logger()
	return &NotificationUseCase{push: push, tokens: tokens, pool: pool, log: &l}
}

// SendToAll publishes to the broadcast topic.
func (uc *NotificationUseCase) SendToAll(ctx context.Context, msg adapter.PushMessage) (string, error) {
	return uc.SendToTopic(ctx, BroadcastTopic, msg)
}

func (uc *NotificationUseCase) SendToTopic(ctx context.Context, topic string, msg adapter.PushMessage) (string, error) {
	if topic == "" || msg.Title == "" || msg.Body == "" {
		return "", domain.ErrInvalidArgument
	}
	id, err := uc.push.SendToTopic(ctx, topic, msg)
	metrics.IncPushDelivery("topic", err == nil)
	if err != nil {
		uc.log.Error().Err(err).Str("topic", topic).Msg("topic push failed")
		return "", err
	}
	uc.log.Info().Str("topic", topic).Str("delivery_id", id).Msg("topic push sent")
	return id, nil
}

func (uc *NotificationUseCase) SendToToken(ctx context.Context, token string, msg adapter.PushMessage) (string, error) {
	if token == "" || msg.Title == "" || msg.Body == "" {
		return "", domain.ErrInvalidArgument
	}
	id, err := uc.push.SendToToken(ctx, token, msg)
	metrics.IncPushDelivery("token", err == nil)
	if err != nil {
		return "", err
	}
	return id, nil
}

// BroadcastToDevices fans a message out to every registered token via
// the worker pool, throttled so a burst of registrations does not slam
// the provider. Returns the number of devices queued.
func (uc *NotificationUseCase) BroadcastToDevices(ctx context.Context, msg adapter.PushMessage) (int, error) {
	if msg.Title == "" || msg.Body == "" {
		return 0, domain.ErrInvalidArgument
	}
	devices, err := uc.tokens.ListAll(ctx)
	if err != nil {
		uc.log.Error().Err(err).Msg("failed to list device tokens for broadcast")
		return 0, err
	}

	throttle := time.NewTicker(time.Second / 25)
	go func() {
		defer throttle.Stop()
		uc.log.Info().Int("device_count", len(devices)).Msg("starting device broadcast")
		for _, d := range devices {
			<-throttle.C
			token := d.Token
			task := func(ctx context.Context) error {
				_, err := uc.push.SendToToken(ctx, token, msg)
				metrics.IncPushDelivery("token", err == nil)
				if err != nil {
					uc.log.Warn().Err(err).Msg("broadcast delivery failed for device")
				}
				return nil
			}
			if err := uc.pool.Submit(task); err != nil {
				uc.log.Warn().Err(err).Msg("failed to queue broadcast task")
			}
		}
		uc.log.Info().Msg("device broadcast queued")
	}()

	return len(devices), nil
}
