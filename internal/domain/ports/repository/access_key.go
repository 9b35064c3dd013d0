package repository

import (
	"context"
	"time"

	"premium-access-service/internal/domain/model"
)

// AccessKeyRepository is the port for the durable key store.
//
// Consume is the single atomic check-and-set the validation flow relies
// on: it must observe the used flag and flip it in one indivisible store
// operation per code, so that concurrent validations of the same code
// cannot both succeed.
type AccessKeyRepository interface {
	// Save creates a record, silently overwriting any record with the
	// same code (accepted collision behavior at issuance).
	Save(ctx context.Context, key *model.AccessKey) error
	// FindByCode returns the record or domain.ErrCodeNotFound.
	FindByCode(ctx context.Context, code string) (*model.AccessKey, error)
	// Consume marks an unused code as used. Returns
	// domain.ErrCodeAlreadyUsed if the code exists but was consumed,
	// domain.ErrCodeNotFound if it does not exist.
	Consume(ctx context.Context, code, usedBy string, usedAt time.Time) error
	// ListAll materializes every record, any order.
	ListAll(ctx context.Context) ([]*model.AccessKey, error)
	// DeleteAll atomically resets the store to empty.
	DeleteAll(ctx context.Context) error
}
