//go:build !integration

package web

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"premium-access-service/internal/config"
	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/adapter"
	"premium-access-service/internal/domain/ports/repository"
	"premium-access-service/internal/usecase"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// newTestServer builds a Server backed entirely by in-memory fakes.
// The clock is pinned so hour-bound codes stay redeemable for the whole
// test run.
func newTestServer(now time.Time) (*Server, *memKeyRepo) {
	keys := newMemKeyRepo()
	tokens := &memTokenRepo{byToken: map[string]*model.DeviceToken{}, byUser: map[string]string{}}
	videos := &memVideoRepo{videos: map[string]*model.Video{}}

	log := testLogger()
	nowFn := func() time.Time { return now }

	keysUC := usecase.NewAccessKeyUseCase(keys, log, nowFn)
	tokenUC := usecase.NewDeviceTokenUseCase(tokens, log)
	notifUC := usecase.NewNotificationUseCase(&fakePush{}, tokens, nil, log)
	videoUC := usecase.NewVideoUseCase(videos, &fakeMedia{objects: map[string][]byte{}}, 1<<20, log)

	cfg := &config.Config{}
	cfg.Admin.Secret = "test-admin-secret"
	cfg.Security.JWTSecret = "test-jwt-secret"
	cfg.Security.SessionTTL = time.Hour
	cfg.RateLimit = config.RateLimitConfig{Requests: 1000, Window: time.Minute}
	cfg.Media.MaxUploadMB = 1

	auth := NewAuthManager(cfg.Security.JWTSecret, false, cfg.Security.SessionTTL)
	return NewServer(keysUC, tokenUC, notifUC, videoUC, auth, &allowAllLimiter{}, cfg, log), keys
}

type allowAllLimiter struct{}

func (allowAllLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return true, nil
}

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}

// ---- repository fakes ----

type memKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*model.AccessKey
}

var _ repository.AccessKeyRepository = (*memKeyRepo)(nil)

func newMemKeyRepo() *memKeyRepo {
	return &memKeyRepo{keys: make(map[string]*model.AccessKey)}
}

func (r *memKeyRepo) Save(ctx context.Context, key *model.AccessKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *key
	r.keys[key.Code] = &cp
	return nil
}

func (r *memKeyRepo) FindByCode(ctx context.Context, code string) (*model.AccessKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[code]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	cp := *k
	return &cp, nil
}

func (r *memKeyRepo) Consume(ctx context.Context, code, usedBy string, usedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k, ok := r.keys[code]
	if !ok {
		return domain.ErrCodeNotFound
	}
	if k.Used {
		return domain.ErrCodeAlreadyUsed
	}
	k.Used = true
	k.UsedAt = &usedAt
	k.UsedBy = &usedBy
	return nil
}

func (r *memKeyRepo) ListAll(ctx context.Context) ([]*model.AccessKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.AccessKey, 0, len(r.keys))
	for _, k := range r.keys {
		cp := *k
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memKeyRepo) DeleteAll(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = make(map[string]*model.AccessKey)
	return nil
}

type memTokenRepo struct {
	mu      sync.Mutex
	byToken map[string]*model.DeviceToken
	byUser  map[string]string
}

var _ repository.DeviceTokenRepository = (*memTokenRepo)(nil)

func (r *memTokenRepo) Register(ctx context.Context, token, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if userID != "" {
		if old, ok := r.byUser[userID]; ok {
			delete(r.byToken, old)
		}
		r.byUser[userID] = token
	}
	uid := userID
	if uid == "" {
		uid = model.AnonymousUser
	}
	r.byToken[token] = &model.DeviceToken{UserID: uid, Token: token, RegisteredAt: time.Now()}
	return nil
}

func (r *memTokenRepo) Unregister(ctx context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.byToken[token]; ok && t.UserID != model.AnonymousUser {
		delete(r.byUser, t.UserID)
	}
	delete(r.byToken, token)
	return nil
}

func (r *memTokenRepo) FindByUser(ctx context.Context, userID string) (*model.DeviceToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	token, ok := r.byUser[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *r.byToken[token]
	return &cp, nil
}

func (r *memTokenRepo) ListAll(ctx context.Context) ([]*model.DeviceToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.DeviceToken, 0, len(r.byToken))
	for _, t := range r.byToken {
		cp := *t
		out = append(out, &cp)
	}
	return out, nil
}

type memVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*model.Video
}

var _ repository.VideoRepository = (*memVideoRepo)(nil)

func (r *memVideoRepo) Save(ctx context.Context, v *model.Video) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *v
	r.videos[v.ID] = &cp
	return nil
}

func (r *memVideoRepo) FindByID(ctx context.Context, id string) (*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.videos[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (r *memVideoRepo) ListAll(ctx context.Context) ([]*model.Video, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*model.Video, 0, len(r.videos))
	for _, v := range r.videos {
		cp := *v
		out = append(out, &cp)
	}
	return out, nil
}

func (r *memVideoRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.videos[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.videos, id)
	return nil
}

// ---- adapter fakes ----

type fakePush struct{}

var _ adapter.PushSender = (*fakePush)(nil)

func (fakePush) SendToTopic(ctx context.Context, topic string, msg adapter.PushMessage) (string, error) {
	return "msg-" + topic, nil
}

func (fakePush) SendToToken(ctx context.Context, token string, msg adapter.PushMessage) (string, error) {
	return "msg-" + token, nil
}

type fakeMedia struct {
	mu      sync.Mutex
	objects map[string][]byte
}

var _ adapter.MediaStorage = (*fakeMedia)(nil)

func (m *fakeMedia) Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (adapter.StoredObject, error) {
	b, err := io.ReadAll(body)
	if err != nil {
		return adapter.StoredObject{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return adapter.StoredObject{Key: key, URL: "https://media.test/" + key}, nil
}

func (m *fakeMedia) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}
