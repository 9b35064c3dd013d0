package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"premium-access-service/internal/domain"
	"premium-access-service/internal/domain/model"
	"premium-access-service/internal/domain/ports/repository"
	"premium-access-service/internal/infra/metrics"
)

// AccessKeyUseCase implements the access-key lifecycle: issuance,
// single-use validation, and the admin list/clear operations.
type AccessKeyUseCase struct {
	keys repository.AccessKeyRepository
	log  *zerolog.Logger
	now  func() time.Time
}

// NewAccessKeyUseCase constructs the use case. Pass nil for nowFn to
// use the wall clock; tests inject a fixed clock to pin the hour.
func NewAccessKeyUseCase(keys repository.AccessKeyRepository, logger *zerolog.Logger, nowFn func() time.Time) *AccessKeyUseCase {
	if nowFn == nil {
		nowFn = time.Now
	}
	l := logger.With().Str("component", "access_key_uc").Logger()
	return &AccessKeyUseCase{keys: keys, log: &l, now: nowFn}
}

// Issue mints a code for the requested plan and persists a fresh unused
// record. A code collision silently overwrites the prior record; with a
// 3-character suffix and one-hour practical lifetime the odds are not
// worth a read-before-write.
func (uc *AccessKeyUseCase) Issue(ctx context.Context, planName string) (*model.AccessKey, error) {
	plan, err := model.ParsePlan(planName)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	code, err := generateAccessCode(plan.CodeLetter(), now)
	if err != nil {
		return nil, err
	}

	key := model.NewAccessKey(code, plan, now)
	if err := uc.keys.Save(ctx, key); err != nil {
		uc.log.Error().Err(err).Str("plan", planName).Msg("failed to persist access key")
		return nil, err
	}

	metrics.IncKeyIssued(string(plan))
	uc.log.Info().Str("plan", planName).Time("expires_at", key.ExpiresAt).Msg("access key issued")
	return key, nil
}

// Validate runs the ordered validation pipeline and consumes the code
// on success. The used-flag check and the mark-used write are one
// atomic store operation (repository.Consume), so concurrent calls on
// the same code cannot both succeed.
func (uc *AccessKeyUseCase) Validate(ctx context.Context, code, userID string) (key *model.AccessKey, err error) {
	defer func() { metrics.IncKeyValidation(validationOutcome(err)) }()

	if code == "" {
		return nil, domain.ErrMissingCode
	}
	if !model.ValidCodeFormat(code) {
		return nil, domain.ErrInvalidCodeFormat
	}

	key, err = uc.keys.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	switch {
	case key.Used:
		return nil, domain.ErrCodeAlreadyUsed
	case now.After(key.ExpiresAt):
		return nil, domain.ErrCodeExpired
	case model.CodeHour(code) != now.Hour():
		return nil, domain.ErrHourMismatch
	}

	if userID == "" {
		userID = model.AnonymousUser
	}
	if err = uc.keys.Consume(ctx, code, userID, now); err != nil {
		return nil, err
	}

	key.Used = true
	key.UsedAt = &now
	key.UsedBy = &userID
	uc.log.Info().Str("plan", string(key.Plan)).Str("used_by", userID).Msg("access key consumed")
	return key, nil
}

// List materializes every record in the store. Fine at key-store scale;
// not meant for unbounded growth.
func (uc *AccessKeyUseCase) List(ctx context.Context) ([]*model.AccessKey, error) {
	return uc.keys.ListAll(ctx)
}

// ClearAll wipes the store. The only deletion the system exposes.
func (uc *AccessKeyUseCase) ClearAll(ctx context.Context) error {
	if err := uc.keys.DeleteAll(ctx); err != nil {
		return err
	}
	uc.log.Warn().Msg("all access keys cleared")
	return nil
}

// CountOutstanding reports unused, unexpired keys for the stats gauge.
func (uc *AccessKeyUseCase) CountOutstanding(ctx context.Context) (int, error) {
	keys, err := uc.keys.ListAll(ctx)
	if err != nil {
		return 0, err
	}
	now := uc.now()
	n := 0
	for _, k := range keys {
		if !k.Used && now.Before(k.ExpiresAt) {
			n++
		}
	}
	return n, nil
}

func validationOutcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrMissingCode):
		return "missing"
	case errors.Is(err, domain.ErrInvalidCodeFormat):
		return "format"
	case errors.Is(err, domain.ErrCodeNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrCodeAlreadyUsed):
		return "used"
	case errors.Is(err, domain.ErrCodeExpired):
		return "expired"
	case errors.Is(err, domain.ErrHourMismatch):
		return "hour"
	case errors.Is(err, domain.ErrStoreUnavailable):
		return "store"
	default:
		return "error"
	}
}
