package push

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/oklog/ulid/v2"

	"premium-access-service/internal/domain/ports/adapter"
)

var _ adapter.PushSender = (*HTTPSender)(nil)

// HTTPSender delivers notifications through an HTTP push provider. Each
// delivery carries a ULID as idempotency key; the provider may echo its
// own message id, which wins when present.
type HTTPSender struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewHTTPSender(endpoint, apiKey string) (*HTTPSender, error) {
	if endpoint == "" {
		return nil, errors.New("push endpoint empty")
	}
	return &HTTPSender{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: 15 * time.Second},
	}, nil
}

type deliveryRequest struct {
	DeliveryID string            `json:"delivery_id"`
	Topic      string            `json:"topic,omitempty"`
	Token      string            `json:"token,omitempty"`
	Title      string            `json:"title"`
	Body       string            `json:"body"`
	Type       string            `json:"type,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
}

func (s *HTTPSender) SendToTopic(ctx context.Context, topic string, msg adapter.PushMessage) (string, error) {
	return s.send(ctx, deliveryRequest{Topic: topic, Title: msg.Title, Body: msg.Body, Type: msg.Type, Data: msg.Data})
}

func (s *HTTPSender) SendToToken(ctx context.Context, token string, msg adapter.PushMessage) (string, error) {
	return s.send(ctx, deliveryRequest{Token: token, Title: msg.Title, Body: msg.Body, Type: msg.Type, Data: msg.Data})
}

func (s *HTTPSender) send(ctx context.Context, dr deliveryRequest) (string, error) {
	dr.DeliveryID = ulid.Make().String()

	b, err := json.Marshal(dr)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("push provider returned %s", resp.Status)
	}

	var out struct {
		MessageID string `json:"message_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err == nil && out.MessageID != "" {
		return out.MessageID, nil
	}
	return dr.DeliveryID, nil
}
