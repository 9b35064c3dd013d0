//go:build !integration

package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/ports/adapter"
	"premium-access-service/internal/infra/worker"
)

func TestSendToTopic(t *testing.T) {
	t.Parallel()
	push := &mockPush{}
	uc := NewNotificationUseCase(push, newMemTokenRepo(), nil, testLogger())

	id, err := uc.SendToTopic(context.Background(), "news", adapter.PushMessage{Title: "hi", Body: "there"})
	if err != nil {
		t.Fatalf("SendToTopic failed: %v", err)
	}
	if id != "delivery-news" {
		t.Errorf("delivery id = %q, want delivery-news", id)
	}
}

func TestSendToAll_UsesBroadcastTopic(t *testing.T) {
	t.Parallel()
	push := &mockPush{}
	uc := NewNotificationUseCase(push, newMemTokenRepo(), nil, testLogger())

	if _, err := uc.SendToAll(context.Background(), adapter.PushMessage{Title: "t", Body: "b"}); err != nil {
		t.Fatalf("SendToAll failed: %v", err)
	}
	if len(push.topics) != 1 || push.topics[0] != BroadcastTopic {
		t.Fatalf("topics = %v, want [%s]", push.topics, BroadcastTopic)
	}
}

func TestSend_RejectsIncompleteMessage(t *testing.T) {
	t.Parallel()
	uc := NewNotificationUseCase(&mockPush{}, newMemTokenRepo(), nil, testLogger())

	cases := []adapter.PushMessage{
		{Title: "", Body: "b"},
		{Title: "t", Body: ""},
	}
	for _, msg := range cases {
		if _, err := uc.SendToTopic(context.Background(), "x", msg); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("SendToTopic(%+v): err = %v, want ErrInvalidArgument", msg, err)
		}
		if _, err := uc.SendToToken(context.Background(), "tok", msg); !errors.Is(err, domain.ErrInvalidArgument) {
			t.Errorf("SendToToken(%+v): err = %v, want ErrInvalidArgument", msg, err)
		}
	}
	if _, err := uc.SendToTopic(context.Background(), "", adapter.PushMessage{Title: "t", Body: "b"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Errorf("empty topic: err = %v, want ErrInvalidArgument", err)
	}
}

func TestSendToToken_ProviderError(t *testing.T) {
	t.Parallel()
	push := &mockPush{
		SendToTokenFunc: func(ctx context.Context, token string, msg adapter.PushMessage) (string, error) {
			return "", errors.New("provider down")
		},
	}
	uc := NewNotificationUseCase(push, newMemTokenRepo(), nil, testLogger())

	if _, err := uc.SendToToken(context.Background(), "tok", adapter.PushMessage{Title: "t", Body: "b"}); err == nil {
		t.Fatal("want provider error, got nil")
	}
}

func TestBroadcastToDevices_FansOut(t *testing.T) {
	t.Parallel()
	tokens := newMemTokenRepo()
	const devices = 5
	for i := 0; i < devices; i++ {
		if err := tokens.Register(context.Background(), fmt.Sprintf("tok-%d", i), fmt.Sprintf("user-%d", i)); err != nil {
			t.Fatalf("seed token: %v", err)
		}
	}

	push := &mockPush{}
	pool := worker.NewPool(2, testLogger())
	pool.Start(context.Background())
	defer pool.Stop()

	uc := NewNotificationUseCase(push, tokens, pool, testLogger())
	queued, err := uc.BroadcastToDevices(context.Background(), adapter.PushMessage{Title: "t", Body: "b"})
	if err != nil {
		t.Fatalf("BroadcastToDevices failed: %v", err)
	}
	if queued != devices {
		t.Fatalf("queued = %d, want %d", queued, devices)
	}

	// Delivery is asynchronous and throttled; poll until every send
	// lands or the deadline passes.
	deadline := time.After(3 * time.Second)
	for {
		if len(push.sentTokens()) == devices {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("delivered %d of %d sends before deadline", len(push.sentTokens()), devices)
		case <-time.After(20 * time.Millisecond):
		}
	}
}

func TestBroadcastToDevices_RejectsIncomplete(t *testing.T) {
	t.Parallel()
	uc := NewNotificationUseCase(&mockPush{}, newMemTokenRepo(), nil, testLogger())
	if _, err := uc.BroadcastToDevices(context.Background(), adapter.PushMessage{Title: "t"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}
