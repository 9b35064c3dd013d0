package push

import (
	"context"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"premium-access-service/internal/domain/ports/adapter"
)

var _ adapter.PushSender = (*NoopSender)(nil)

// NoopSender logs deliveries instead of sending them. Used in dev mode
// and when no provider endpoint is configured.
type NoopSender struct {
	log *zerolog.Logger
}

func NewNoopSender(logger *zerolog.Logger) *NoopSender {
	l := logger.With().Str("component", "noop_push").Logger()
	return &NoopSender{log: &l}
}

func (s *NoopSender) SendToTopic(ctx context.Context, topic string, msg adapter.PushMessage) (string, error) {
	id := ulid.Make().String()
	s.log.Info().Str("topic", topic).Str("title", msg.Title).Str("delivery_id", id).Msg("noop push (topic)")
	return id, nil
}

func (s *NoopSender) SendToToken(ctx context.Context, token string, msg adapter.PushMessage) (string, error) {
	id := ulid.Make().String()
	s.log.Info().Str("title", msg.Title).Str("delivery_id", id).Msg("noop push (token)")
	return id, nil
}
