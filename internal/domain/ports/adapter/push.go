package adapter

import "context"

// PushMessage is the payload handed to a push delivery provider.
type PushMessage struct {
	Title string
	Body  string
	Type  string
	Data  map[string]string
}

// PushSender is the port for the external push delivery collaborator.
// Both methods return the provider's delivery identifier on success.
type PushSender interface {
	SendToTopic(ctx context.Context, topic string, msg PushMessage) (string, error)
	SendToToken(ctx context.Context, token string, msg PushMessage) (string, error)
}
