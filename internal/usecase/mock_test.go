//go:build !integration

package usecase

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/adapter"
	"premium-access-service/internal/domain/ports/repository"
)

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}

// ---- In-memory key store ----

// memKeyRepo mirrors the store contract, including the atomic
// check-and-set on Consume: the mutex spans the used-flag read and the
// write, the same indivisibility the SQL conditional UPDATE provides.
type memKeyRepo struct {
	mu   sync.Mutex
	keys map[string]*model.AccessKey

	failWith error // when set, every call fails with this error
}

var _ repository.AccessKeyRepository = (*memKeyRepo)(nil)

func newMemKeyRepo() *memKeyRepo {
	return &memKeyRepo{keys: make(map[string]*model.AccessKey)}
}

func (r *memKeyRepo) Save(ctx context.Context, key *model.AccessKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return r.failWith
	}
	cp := *key
	r.keys[key.Code] = &cp
	return nil
}

func (r *memKeyRepo) FindByCode(ctx context.Context, code string) (*model.AccessKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failWith != nil {
		return nil, r.failWith
	}
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
	if r.failWith != nil {
		return r.failWith
	}
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
	if r.failWith != nil {
		return nil, r.failWith
	}
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
	if r.failWith != nil {
		return r.failWith
	}
	r.keys = make(map[string]*model.AccessKey)
	return nil
}

// ---- In-memory device token registry ----

type memTokenRepo struct {
	mu      sync.Mutex
	byToken map[string]*model.DeviceToken
	byUser  map[string]string
}

var _ repository.DeviceTokenRepository = (*memTokenRepo)(nil)

func newMemTokenRepo() *memTokenRepo {
	return &memTokenRepo{
		byToken: make(map[string]*model.DeviceToken),
		byUser:  make(map[string]string),
	}
}

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

// ---- Mock push sender ----

type mockPush struct {
	mu     sync.Mutex
	topics []string
	tokens []string

	SendToTopicFunc func(ctx context.Context, topic string, msg adapter.PushMessage) (string, error)
	SendToTokenFunc func(ctx context.Context, token string, msg adapter.PushMessage) (string, error)
}

var _ adapter.PushSender = (*mockPush)(nil)

func (m *mockPush) SendToTopic(ctx context.Context, topic string, msg adapter.PushMessage) (string, error) {
	if m.SendToTopicFunc != nil {
		return m.SendToTopicFunc(ctx, topic, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.topics = append(m.topics, topic)
	return "delivery-" + topic, nil
}

func (m *mockPush) SendToToken(ctx context.Context, token string, msg adapter.PushMessage) (string, error) {
	if m.SendToTokenFunc != nil {
		return m.SendToTokenFunc(ctx, token, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens = append(m.tokens, token)
	return "delivery-" + token, nil
}

func (m *mockPush) sentTokens() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.tokens))
	copy(out, m.tokens)
	return out
}

// ---- In-memory video repo and media store ----

type memVideoRepo struct {
	mu     sync.Mutex
	videos map[string]*model.Video
}

var _ repository.VideoRepository = (*memVideoRepo)(nil)

func newMemVideoRepo() *memVideoRepo {
	return &memVideoRepo{videos: make(map[string]*model.Video)}
}

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

type memMedia struct {
	mu      sync.Mutex
	objects map[string][]byte

	putErr error
}

var _ adapter.MediaStorage = (*memMedia)(nil)

func newMemMedia() *memMedia {
	return &memMedia{objects: make(map[string][]byte)}
}

func (m *memMedia) Put(ctx context.Context, key, contentType string, size int64, body io.Reader) (adapter.StoredObject, error) {
	if m.putErr != nil {
		return adapter.StoredObject{}, m.putErr
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return adapter.StoredObject{}, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = b
	return adapter.StoredObject{Key: key, URL: "https://media.test/" + key}, nil
}

func (m *memMedia) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *memMedia) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok
}
