package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/repository"
)

// Ensure implementation satisfies the interface.
var _ repository.DeviceTokenRepository = (*TokenRegistry)(nil)

// Hash keys: by_token holds token -> JSON record, by_user holds
// user_id -> token for the reverse lookup.
const (
	hashByToken = "device_tokens:by_token"
	hashByUser  = "device_tokens:by_user"
)

// TokenRegistry stores push delivery tokens in Redis hashes. Replaces
// the ambient in-process maps the first version of this registry used;
// the registry now survives restarts and is injected explicitly.
type TokenRegistry struct {
	cli *Client
}

func NewTokenRegistry(cli *Client) *TokenRegistry {
	return &TokenRegistry{cli: cli}
}

type tokenRecord struct {
	UserID       string    `json:"user_id"`
	RegisteredAt time.Time `json:"registered_at"`
}

func (r *TokenRegistry) Register(ctx context.Context, token, userID string) error {
	if userID != "" {
		// Drop the user's previous token, if any.
		if old, err := r.cli.HGet(ctx, hashByUser, userID); err == nil && old != token {
			if err := r.cli.HDel(ctx, hashByToken, old); err != nil {
				return fmt.Errorf("drop old token: %w", err)
			}
		} else if err != nil && !IsNil(err) {
			return fmt.Errorf("lookup old token: %w", err)
		}
		if err := r.cli.HSet(ctx, hashByUser, userID, token); err != nil {
			return fmt.Errorf("register token by user: %w", err)
		}
	}

	rec := tokenRecord{UserID: userID, RegisteredAt: time.Now()}
	if rec.UserID == "" {
		rec.UserID = model.AnonymousUser
	}
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	if err := r.cli.HSet(ctx, hashByToken, token, string(b)); err != nil {
		return fmt.Errorf("register token: %w", err)
	}
	return nil
}

func (r *TokenRegistry) Unregister(ctx context.Context, token string) error {
	raw, err := r.cli.HGet(ctx, hashByToken, token)
	if err != nil {
		if IsNil(err) {
			return nil // already gone
		}
		return fmt.Errorf("lookup token: %w", err)
	}
	var rec tokenRecord
	if err := json.Unmarshal([]byte(raw), &rec); err == nil && rec.UserID != model.AnonymousUser {
		if err := r.cli.HDel(ctx, hashByUser, rec.UserID); err != nil {
			return fmt.Errorf("unregister user mapping: %w", err)
		}
	}
	if err := r.cli.HDel(ctx, hashByToken, token); err != nil {
		return fmt.Errorf("unregister token: %w", err)
	}
	return nil
}

func (r *TokenRegistry) FindByUser(ctx context.Context, userID string) (*model.DeviceToken, error) {
	token, err := r.cli.HGet(ctx, hashByUser, userID)
	if err != nil {
		if IsNil(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find token by user: %w", err)
	}
	out := &model.DeviceToken{UserID: userID, Token: token}
	if raw, err := r.cli.HGet(ctx, hashByToken, token); err == nil {
		var rec tokenRecord
		if json.Unmarshal([]byte(raw), &rec) == nil {
			out.RegisteredAt = rec.RegisteredAt
		}
	}
	return out, nil
}

func (r *TokenRegistry) ListAll(ctx context.Context) ([]*model.DeviceToken, error) {
	all, err := r.cli.HGetAll(ctx, hashByToken)
	if err != nil {
		return nil, fmt.Errorf("list tokens: %w", err)
	}
	out := make([]*model.DeviceToken, 0, len(all))
	for token, raw := range all {
		var rec tokenRecord
		if err := json.Unmarshal([]byte(raw), &rec); err != nil {
			continue // skip malformed entries rather than fail the listing
		}
		out = append(out, &model.DeviceToken{
			UserID:       rec.UserID,
			Token:        token,
			RegisteredAt: rec.RegisteredAt,
		})
	}
	return out, nil
}
